package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/survivors/internal/events"
	"github.com/erazemk/survivors/internal/model"
	"github.com/erazemk/survivors/internal/store"
	"github.com/erazemk/survivors/internal/trade"
)

// TradesHandler handles trade endpoints.
type TradesHandler struct {
	DB      *sql.DB
	Engine  *trade.Engine
	Hub     *events.Hub
	Schemas schemaSet
}

type tradeRequest struct {
	A model.TradeOffer `json:"survivor_a_items"`
	B model.TradeOffer `json:"survivor_b_items"`
}

type tradeResponse struct {
	Settled bool         `json:"settled"`
	DryRun  bool         `json:"dry_run"`
	WorthA  int          `json:"survivor_a_worth"`
	WorthB  int          `json:"survivor_b_worth"`
	Trade   *model.Trade `json:"trade,omitempty"`
}

// Create handles POST /api/survivors/trade. The caller must be survivor A.
func (h *TradesHandler) Create(w http.ResponseWriter, r *http.Request) {
	dryRun := false
	if v := r.URL.Query().Get("dry_run"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, codeInvalidRequest, "dry_run must be a boolean")
			return
		}
		dryRun = b
	}

	var req tradeRequest
	if err := h.Schemas.decode(w, r, schemaTrade, &req); err != nil {
		writeError(w, r, err)
		return
	}

	caller := CallerID(r.Context())
	if req.A.SurvivorID != caller {
		jsonError(w, http.StatusUnauthorized, codeForbidden, "survivors can only trade items from their own inventory")
		return
	}

	result, err := h.Engine.Execute(r.Context(), trade.Request{A: req.A, B: req.B, DryRun: dryRun})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := tradeResponse{
		Settled: result.Settled,
		DryRun:  dryRun,
		WorthA:  result.WorthA,
		WorthB:  result.WorthB,
		Trade:   result.Trade,
	}
	if !result.Settled {
		jsonResponse(w, http.StatusOK, resp)
		return
	}

	slog.Info("trade settled", "trade", result.Trade.ID,
		"survivor_a", req.A.SurvivorID, "survivor_b", req.B.SurvivorID, "worth", result.Trade.Worth)
	for _, id := range []string{req.A.SurvivorID, req.B.SurvivorID} {
		h.Hub.Publish(events.Event{Type: events.TradeSettled, SurvivorID: id, Data: result.Trade})
	}
	jsonResponse(w, http.StatusCreated, resp)
}

// List handles GET /api/trades.
func (h *TradesHandler) List(w http.ResponseWriter, r *http.Request) {
	trades, err := store.ListTrades(r.Context(), h.DB, r.URL.Query().Get("survivor_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if trades == nil {
		trades = []model.Trade{}
	}
	jsonResponse(w, http.StatusOK, trades)
}
