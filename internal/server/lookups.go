package server

import (
	"net/http"

	"FinanceAssistant/internal/model"
	"FinanceAssistant/internal/store"
)

type namePayload struct {
	Name string `json:"name"`
}

func lookupKind(w http.ResponseWriter, r *http.Request) (store.LookupKind, bool) {
	kind, ok := store.LookupKindFromString(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown lookup collection: "+r.PathValue("kind"))
	}
	return kind, ok
}

func (s *Server) handleListLookup(w http.ResponseWriter, r *http.Request) {
	kind, ok := lookupKind(w, r)
	if !ok {
		return
	}
	items, err := s.Store.ListLookup(kind)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []model.LookupItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddLookup(w http.ResponseWriter, r *http.Request) {
	kind, ok := lookupKind(w, r)
	if !ok {
		return
	}
	var payload namePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	item, err := s.Store.AddLookup(kind, payload.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleRenameLookup(w http.ResponseWriter, r *http.Request) {
	kind, ok := lookupKind(w, r)
	if !ok {
		return
	}
	var payload namePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	item, err := s.Store.RenameLookup(kind, r.PathValue("id"), payload.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteLookup(w http.ResponseWriter, r *http.Request) {
	kind, ok := lookupKind(w, r)
	if !ok {
		return
	}
	if err := s.Store.DeleteLookup(kind, r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
