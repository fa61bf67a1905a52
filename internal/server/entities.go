package server

import (
	"net/http"

	"FinanceAssistant/internal/model"
)

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.Store.Assets()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) handleSaveAsset(w http.ResponseWriter, r *http.Request) {
	var asset model.Asset
	if !decodeBody(w, r, &asset) {
		return
	}
	if id := r.PathValue("id"); id != "" {
		asset.ID = id
	}
	if asset.Name == "" {
		writeError(w, http.StatusBadRequest, "asset name is required")
		return
	}
	if err := s.Store.SaveAsset(&asset); err != nil {
		writeStoreError(w, err)
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, asset)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteAsset(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListLiabilities(w http.ResponseWriter, r *http.Request) {
	liabilities, err := s.Store.Liabilities()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if liabilities == nil {
		liabilities = []model.Liability{}
	}
	writeJSON(w, http.StatusOK, liabilities)
}

func (s *Server) handleSaveLiability(w http.ResponseWriter, r *http.Request) {
	var liability model.Liability
	if !decodeBody(w, r, &liability) {
		return
	}
	if id := r.PathValue("id"); id != "" {
		liability.ID = id
	}
	if liability.Name == "" {
		writeError(w, http.StatusBadRequest, "liability name is required")
		return
	}
	if liability.Value < 0 {
		writeError(w, http.StatusBadRequest, "liability value must be the non-negative owed amount")
		return
	}
	if err := s.Store.SaveLiability(&liability); err != nil {
		writeStoreError(w, err)
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, liability)
}

func (s *Server) handleDeleteLiability(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteLiability(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListCreditCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Store.CreditCards()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if cards == nil {
		cards = []model.CreditCard{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleSaveCreditCard(w http.ResponseWriter, r *http.Request) {
	var card model.CreditCard
	if !decodeBody(w, r, &card) {
		return
	}
	if id := r.PathValue("id"); id != "" {
		card.ID = id
	}
	if card.Name == "" {
		writeError(w, http.StatusBadRequest, "card name is required")
		return
	}
	if err := s.Store.SaveCreditCard(&card); err != nil {
		writeStoreError(w, err)
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, card)
}

func (s *Server) handleDeleteCreditCard(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteCreditCard(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
