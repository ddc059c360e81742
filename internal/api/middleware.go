package api

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/erazemk/survivors/internal/auth"
)

type contextKey string

const callerKey contextKey = "caller"

// UserIDHeader carries a trusted caller identity when no token is sent.
const UserIDHeader = "X-User-Id"

// IdentityMiddleware resolves the caller from a Bearer identity token or the
// X-User-Id header and stores it in the request context. A request without
// either is anonymous; a request with a bad token is rejected.
func IdentityMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := ""
			if header := r.Header.Get("Authorization"); header != "" {
				tokenStr, ok := strings.CutPrefix(header, "Bearer ")
				if !ok {
					jsonError(w, http.StatusUnauthorized, codeUnauthorized, "invalid authorization header")
					return
				}
				claims, err := auth.ValidateToken(secret, tokenStr)
				if err != nil {
					jsonError(w, http.StatusUnauthorized, codeUnauthorized, "invalid identity token")
					return
				}
				caller = claims.SurvivorID()
			} else {
				caller = strings.TrimSpace(r.Header.Get(UserIDHeader))
			}

			if caller != "" {
				r = r.WithContext(context.WithValue(r.Context(), callerKey, caller))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCaller rejects anonymous requests.
func RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerID(r.Context()) == "" {
			jsonError(w, http.StatusUnauthorized, codeUnauthorized, "caller identity required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CallerID returns the caller's survivor id, or "" for anonymous requests.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(callerKey).(string)
	return id
}

// CORSMiddleware allows browser clients from the given origins. "*" allows
// any origin.
func CORSMiddleware(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !originAllowed(allowed, origin) {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Expose-Headers", IdentityTokenHeader)
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+UserIDHeader)
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
