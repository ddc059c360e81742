package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/erazemk/survivors/internal/directory"
	"github.com/erazemk/survivors/internal/events"
	"github.com/erazemk/survivors/internal/trade"
)

// Options configures the API router.
type Options struct {
	IdentitySecret string
	TokenTTL       time.Duration
	AllowedOrigins []string
	// Hub receives domain events. A new hub is created when nil.
	Hub *events.Hub
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, opts Options) (http.Handler, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, fmt.Errorf("loading request schemas: %w", err)
	}
	if opts.Hub == nil {
		opts.Hub = events.NewHub()
	}

	survivorsHandler := &SurvivorsHandler{
		DB:             db,
		Directory:      directory.New(db),
		Hub:            opts.Hub,
		Schemas:        schemas,
		IdentitySecret: opts.IdentitySecret,
		TokenTTL:       opts.TokenTTL,
	}
	tradesHandler := &TradesHandler{
		DB:      db,
		Engine:  trade.New(db),
		Hub:     opts.Hub,
		Schemas: schemas,
	}
	itemsHandler := &ItemsHandler{DB: db}
	eventsHandler := newEventsHandler(opts.Hub, opts.AllowedOrigins)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"status":            "ok",
			"event_subscribers": opts.Hub.Subscribers(),
		})
	})

	mux.HandleFunc("GET /api/items", itemsHandler.List)

	// Survivors: reads and registration are open, mutations on behalf of a
	// survivor need a caller.
	mux.HandleFunc("GET /api/survivors", survivorsHandler.List)
	mux.HandleFunc("POST /api/survivors", survivorsHandler.Create)
	mux.HandleFunc("GET /api/survivors/{key}", survivorsHandler.Get)
	mux.HandleFunc("DELETE /api/survivors/{id}", survivorsHandler.Delete)
	mux.Handle("PUT /api/survivors/{id}/location", RequireCaller(http.HandlerFunc(survivorsHandler.UpdateLocation)))
	mux.Handle("POST /api/survivors/{id}/report", RequireCaller(http.HandlerFunc(survivorsHandler.ReportInfection)))

	// Trades.
	mux.Handle("POST /api/survivors/trade", RequireCaller(http.HandlerFunc(tradesHandler.Create)))
	mux.HandleFunc("GET /api/trades", tradesHandler.List)

	// The event feed is mounted outside the gzip wrapper.
	root := http.NewServeMux()
	root.HandleFunc("GET /api/events", eventsHandler.Stream)
	root.Handle("/", gzhttp.GzipHandler(mux))

	handler := IdentityMiddleware(opts.IdentitySecret)(root)
	return CORSMiddleware(opts.AllowedOrigins)(handler), nil
}
