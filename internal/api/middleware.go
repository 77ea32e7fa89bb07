package api

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/eduplay/internal/errors"
	"github.com/vytor/eduplay/internal/logger"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const (
	tabContextKey contextKey = "tab_id"
	tabCookieName            = "tab_id"
	tabHeaderName            = "X-Tab-ID"
)

// validTabID limits client-supplied tab ids to something safe to use in keys.
var validTabID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func tabFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tabContextKey).(string); ok {
		return v
	}
	return ""
}

// tabMiddleware identifies the browser tab of a request: the X-Tab-ID header,
// else the tab_id cookie, else a new id issued in the cookie.
func tabMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		tabID := r.Header.Get(tabHeaderName)
		if tabID != "" && !validTabID.MatchString(tabID) {
			handleError(w, r, errors.NewBadRequestError("invalid "+tabHeaderName+" header"))
			return
		}
		if tabID == "" {
			if cookie, err := r.Cookie(tabCookieName); err == nil && validTabID.MatchString(cookie.Value) {
				tabID = cookie.Value
			}
		}
		if tabID == "" {
			tabID = uuid.NewString()
			log.Debug("issuing new tab id: %s", tabID)
			setTabCookie(w, tabID)
		}

		ctx := context.WithValue(r.Context(), tabContextKey, tabID)
		ctx = logger.NewContext(ctx, log.WithField("tab_id", tabID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func setTabCookie(w http.ResponseWriter, id string) {
	// Session cookie: it goes away with the browser, like the tab storage.
	http.SetCookie(w, &http.Cookie{
		Name:     tabCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		// Create a request-scoped logger with the request ID
		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})

		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		ctx := logger.NewContext(r.Context(), log)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": duration.Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.FromContext(r.Context())
				log.Error("panic recovered: %v", rec)
				handleError(w, r, errors.NewInternalError(nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
