package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/survivors/internal/auth"
	"github.com/erazemk/survivors/internal/directory"
	"github.com/erazemk/survivors/internal/events"
	"github.com/erazemk/survivors/internal/model"
	"github.com/erazemk/survivors/internal/store"
)

// IdentityTokenHeader carries the identity token issued at registration.
const IdentityTokenHeader = "X-Identity-Token"

// SurvivorsHandler handles survivor endpoints.
type SurvivorsHandler struct {
	DB             *sql.DB
	Directory      *directory.Directory
	Hub            *events.Hub
	Schemas        schemaSet
	IdentitySecret string
	TokenTTL       time.Duration
}

type locationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l locationRequest) toModel() model.Location {
	return model.Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

type registerRequest struct {
	Name         string          `json:"name"`
	Age          int             `json:"age"`
	Gender       string          `json:"gender"`
	LastLocation locationRequest `json:"last_location"`
	Inventory    model.Inventory `json:"inventory"`
}

// List handles GET /api/survivors.
func (h *SurvivorsHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := directory.ListOptions{RequesterID: CallerID(r.Context())}
	if v := r.URL.Query().Get("max_distance"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || d < 0 {
			jsonError(w, http.StatusBadRequest, codeInvalidRequest, "max_distance must be a non-negative number")
			return
		}
		opts.MaxDistance = &d
	}

	survivors, err := h.Directory.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if survivors == nil {
		survivors = []model.Survivor{}
	}
	jsonResponse(w, http.StatusOK, survivors)
}

// Create handles POST /api/survivors.
func (h *SurvivorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.Schemas.decode(w, r, schemaRegister, &req); err != nil {
		writeError(w, r, err)
		return
	}

	survivor, err := store.CreateSurvivor(r.Context(), h.DB, store.NewSurvivor{
		Name:      req.Name,
		Age:       req.Age,
		Gender:    req.Gender,
		Location:  req.LastLocation.toModel(),
		Inventory: req.Inventory,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(h.IdentitySecret, survivor.ID, survivor.Name, h.TokenTTL)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("survivor registered", "id", survivor.ID, "name", survivor.Name)
	h.Hub.Publish(events.Event{Type: events.SurvivorRegistered, SurvivorID: survivor.ID, Data: survivor})

	w.Header().Set(IdentityTokenHeader, token)
	jsonResponse(w, http.StatusCreated, survivor)
}

// Get handles GET /api/survivors/{key}, where key is an id or a name.
func (h *SurvivorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	survivor, err := h.Directory.Lookup(r.Context(), r.PathValue("key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, survivor)
}

// Delete handles DELETE /api/survivors/{id}.
func (h *SurvivorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	survivor, err := store.DeleteSurvivor(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("survivor deleted", "id", survivor.ID, "name", survivor.Name, "caller", CallerID(r.Context()))
	h.Hub.Publish(events.Event{Type: events.SurvivorDeleted, SurvivorID: survivor.ID})
	jsonResponse(w, http.StatusOK, survivor)
}

// UpdateLocation handles PUT /api/survivors/{id}/location. Survivors can
// only move themselves.
func (h *SurvivorsHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if CallerID(r.Context()) != id {
		jsonError(w, http.StatusUnauthorized, codeForbidden, "survivors can only update their own location")
		return
	}

	var req locationRequest
	if err := h.Schemas.decode(w, r, schemaLocation, &req); err != nil {
		writeError(w, r, err)
		return
	}

	survivor, err := store.UpdateLocation(r.Context(), h.DB, id, req.toModel())
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("location updated", "id", id, "latitude", req.Latitude, "longitude", req.Longitude)
	// The feed is public, so quarantined survivors move silently.
	if !survivor.Infected() {
		h.Hub.Publish(events.Event{Type: events.SurvivorMoved, SurvivorID: id, Data: survivor.LastLocation})
	}
	jsonResponse(w, http.StatusOK, survivor)
}

// ReportInfection handles POST /api/survivors/{id}/report. The caller is
// the reporter.
func (h *SurvivorsHandler) ReportInfection(w http.ResponseWriter, r *http.Request) {
	reporter := CallerID(r.Context())
	reported := r.PathValue("id")

	report, err := store.ReportInfection(r.Context(), h.DB, reporter, reported)
	if err != nil {
		writeError(w, r, err)
		return
	}

	count, err := store.CountReports(r.Context(), h.DB, reported)
	if err != nil {
		writeError(w, r, err)
		return
	}
	infected := count >= model.InfectionThreshold

	slog.Info("infection reported", "reporter", reporter, "reported", reported, "reports", count, "infected", infected)
	h.Hub.Publish(events.Event{
		Type:       events.InfectionReported,
		SurvivorID: reported,
		Data:       map[string]any{"reporter_id": reporter, "reports": count, "infected": infected},
	})
	jsonResponse(w, http.StatusCreated, report)
}
