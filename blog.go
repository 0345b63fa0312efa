package blog

import (
	"context"
	"net/http"

	"github.com/goliatone/go-blog/internal/articles"
	"github.com/goliatone/go-blog/internal/auth"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Session exports the verification gateway session record.
type Session = auth.Session

// Config exports the runtime configuration.
type Config = runtimeconfig.Config

// DefaultConfig returns the runtime defaults.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML file and BLOG_ environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// Module represents the top level blog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional
// DI overrides. The article collection is empty until Refresh runs.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Refresh reloads the article collection from the content directory.
func (m *Module) Refresh(ctx context.Context) (int, error) {
	return m.container.ArticleService().Refresh(ctx)
}

// Articles returns the read side of the article collection.
func (m *Module) Articles() interfaces.ArticleReader {
	return m.container.ArticleService().Store()
}

// Auth returns the verification gateway.
func (m *Module) Auth() *auth.Service {
	return m.container.AuthService()
}

// Watcher returns the content watcher, or nil when watching is disabled.
func (m *Module) Watcher() *articles.Watcher {
	return m.container.Watcher()
}

// Handler returns the HTTP gateway with its stage chain applied.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.API().Handler()
}

// Close releases storage resources.
func (m *Module) Close() error {
	return m.container.Close()
}
