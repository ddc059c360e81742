package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/survivors/internal/model"
	"github.com/erazemk/survivors/internal/store"
)

// ItemsHandler serves the item catalogue.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}
