package server

import (
	"net/http"
	"time"

	"FinanceAssistant/internal/currency"
	"FinanceAssistant/internal/model"
)

// netWorthView decorates a snapshot with display strings.
type netWorthView struct {
	model.NetWorthSnapshot
	NetWorthDisplay string `json:"net_worth_display"`
	LiquidDisplay   string `json:"liquid_display"`
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Scheduler.BuildSnapshot()
	if err != nil {
		writeError(w, http.StatusBadGateway, "build net worth: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, netWorthView{
		NetWorthSnapshot: *snap,
		NetWorthDisplay:  currency.Format(snap.NetWorth, s.Symbol),
		LiquidDisplay:    currency.Format(snap.Liquid, s.Symbol),
	})
}

func (s *Server) handleNetWorthHistory(w http.ResponseWriter, r *http.Request) {
	since := time.Time{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be YYYY-MM-DD")
			return
		}
		since = t
	}
	snaps, err := s.Store.Snapshots(since)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if snaps == nil {
		snaps = []model.NetWorthSnapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleTakeSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Scheduler.BuildSnapshot()
	if err != nil {
		writeError(w, http.StatusBadGateway, "build net worth: "+err.Error())
		return
	}
	if err := s.Store.AddSnapshot(*snap); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}
