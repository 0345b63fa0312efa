package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/auth"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Session is the authenticated identity attached to protected requests.
type Session = auth.Session

// Authenticator runs the verification and session flow.
type Authenticator interface {
	SendCode(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) (*Session, error)
	Check(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, token string) error
}

// API registers the gateway endpoints.
type API struct {
	basePath string
	auth     Authenticator
	posts    interfaces.PostPublisher
	articles interfaces.ArticleReader
	metrics  *Metrics
	logger   interfaces.Logger
	cors     CORSConfig
	timeout  time.Duration
	now      func() time.Time
}

// APIOption mutates the API configuration.
type APIOption func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...APIOption) *API {
	api := &API{
		basePath: "/",
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base path (defaults to "/").
func WithBasePath(path string) APIOption {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithAuthenticator wires the verification gateway.
func WithAuthenticator(authenticator Authenticator) APIOption {
	return func(api *API) {
		api.auth = authenticator
	}
}

// WithPostPublisher wires the upstream post publisher.
func WithPostPublisher(publisher interfaces.PostPublisher) APIOption {
	return func(api *API) {
		api.posts = publisher
	}
}

// WithArticleReader wires the article collection.
func WithArticleReader(reader interfaces.ArticleReader) APIOption {
	return func(api *API) {
		api.articles = reader
	}
}

// WithMetrics enables the metrics stage and the /metrics route.
func WithMetrics(metrics *Metrics) APIOption {
	return func(api *API) {
		api.metrics = metrics
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) APIOption {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithCORS configures the CORS stage.
func WithCORS(cfg CORSConfig) APIOption {
	return func(api *API) {
		api.cors = cfg
	}
}

// WithRequestTimeout bounds each request, including its upstream calls.
func WithRequestTimeout(timeout time.Duration) APIOption {
	return func(api *API) {
		api.timeout = timeout
	}
}

// WithClock overrides the clock used for access logs.
func WithClock(clock func() time.Time) APIOption {
	return func(api *API) {
		if clock != nil {
			api.now = clock
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	api.handle(mux, "GET", "/healthz", http.HandlerFunc(api.health))
	if api.metrics != nil {
		api.handle(mux, "GET", "/metrics", api.metrics.Handler())
	}
	if api.auth != nil {
		api.registerAuthRoutes(mux)
	}
	if api.posts != nil {
		if api.auth == nil {
			return fmt.Errorf("http: posts routes require an authenticator")
		}
		api.registerPostRoutes(mux)
	}
	if api.articles != nil {
		api.registerArticleRoutes(mux)
	}
	return nil
}

// Handler builds a mux with every route and wraps it in the stage chain:
// recover, request id, access log, metrics, CORS, timeout.
func (api *API) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	return Chain(mux,
		Recover(api.logger),
		RequestID(),
		AccessLog(api.logger, api.now),
		Instrument(api.metrics),
		CORS(api.cors),
		Timeout(api.timeout),
	), nil
}

func (api *API) handle(mux *http.ServeMux, method, path string, handler http.Handler, stages ...Stage) {
	pattern := method + " " + joinPath(api.basePath, path)
	mux.Handle(pattern, withRoute(Chain(handler, stages...), pattern))
}

func (api *API) protected() Stage {
	return RequireSession(api.auth)
}

func (api *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
