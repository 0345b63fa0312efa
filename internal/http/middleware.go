package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// RequestIDHeader carries the request id in and out of the gateway.
const RequestIDHeader = "X-Request-ID"

// Stage transforms a request on its way to the next handler.
type Stage func(http.Handler) http.Handler

// Chain wraps h with stages. The first stage sees the request first.
func Chain(h http.Handler, stages ...Stage) http.Handler {
	for i := len(stages) - 1; i >= 0; i-- {
		if stages[i] != nil {
			h = stages[i](h)
		}
	}
	return h
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func record(w http.ResponseWriter) *statusRecorder {
	if existing, ok := w.(*statusRecorder); ok {
		return existing
	}
	return &statusRecorder{ResponseWriter: w}
}

// Recover turns handler panics into a 500 envelope.
func Recover(logger interfaces.Logger) Stage {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := record(w)
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.WithContext(r.Context()).Error("http.panic", "panic", fmt.Sprint(recovered), "path", r.URL.Path)
					if rec.status == 0 {
						writeJSON(rec, http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: "internal server error"})
					}
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

// RequestID propagates or assigns a request id and attaches it to the
// request context for logging.
func RequestID() Stage {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
		})
	}
}

// AccessLog logs one entry per request.
func AccessLog(logger interfaces.Logger, now func() time.Time) Stage {
	if logger == nil {
		logger = logging.NoOp()
	}
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := now()
			rec := record(w)
			next.ServeHTTP(rec, r)
			logger.WithContext(r.Context()).Info("http.request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.Status(),
				"bytes", rec.bytes,
				"took", now().Sub(started).String(),
			)
		})
	}
}

// CORSConfig configures the CORS stage. An empty origin list allows any origin.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	MaxAge         time.Duration
}

var defaultCORSMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodPatch,
}

// CORS answers preflight requests and decorates responses with CORS headers.
func CORS(cfg CORSConfig) Stage {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: methods,
		AllowedHeaders: []string{"*"},
		MaxAge:         int(cfg.MaxAge.Seconds()),
	}).Handler
}

// Timeout bounds the request context; upstream calls inherit the deadline.
func Timeout(d time.Duration) Stage {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type sessionKey struct{}

// SessionChecker validates bearer tokens against the session store.
type SessionChecker interface {
	Check(ctx context.Context, token string) (*Session, error)
}

// RequireSession rejects requests without a valid bearer session and stores
// the session in the request context.
func RequireSession(checker SessionChecker) Stage {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := checker.Check(r.Context(), bearerToken(r))
			if err != nil {
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, session)
			ctx = logging.ContextWithFields(ctx, map[string]any{"email": session.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by RequireSession.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*Session)
	return session, ok && session != nil
}
