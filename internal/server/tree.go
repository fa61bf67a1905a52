package server

import (
	"net/http"

	"FinanceAssistant/internal/model"
	"FinanceAssistant/internal/store"
)

type treePayload struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

func treeKind(w http.ResponseWriter, r *http.Request) (store.TreeKind, bool) {
	kind, ok := store.TreeKindFromString(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tree collection: "+r.PathValue("kind"))
	}
	return kind, ok
}

func (s *Server) handleListTree(w http.ResponseWriter, r *http.Request) {
	kind, ok := treeKind(w, r)
	if !ok {
		return
	}
	items, err := s.Store.ListTree(kind)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []model.TreeItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddTreeItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := treeKind(w, r)
	if !ok {
		return
	}
	var payload treePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	item, err := s.Store.AddTreeItem(kind, payload.Name, payload.ParentID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateTreeItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := treeKind(w, r)
	if !ok {
		return
	}
	var payload treePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	id := r.PathValue("id")
	if err := s.Store.UpdateTreeItem(kind, id, payload.Name, payload.ParentID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.TreeItem{ID: id, Name: payload.Name, ParentID: payload.ParentID})
}

func (s *Server) handleDeleteTreeItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := treeKind(w, r)
	if !ok {
		return
	}
	if err := s.Store.DeleteTreeItem(kind, r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
