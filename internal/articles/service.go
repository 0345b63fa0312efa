package articles

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// SourceLoader discovers article sources.
type SourceLoader interface {
	LoadDirectory(ctx context.Context, dir string) ([]*markdown.Source, error)
}

// Service refreshes the Store from the content directory.
type Service struct {
	loader SourceLoader
	store  *Store
	dir    string
	now    func() time.Time
	logger interfaces.Logger
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for refresh reports.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDirectory sets the directory, relative to the loader root, to scan.
func WithDirectory(dir string) ServiceOption {
	return func(s *Service) {
		s.dir = dir
	}
}

// NewService constructs a Service over loader and store.
func NewService(loader SourceLoader, store *Store, opts ...ServiceOption) *Service {
	s := &Service{
		loader: loader,
		store:  store,
		dir:    ".",
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Store exposes the read side.
func (s *Service) Store() *Store {
	return s.store
}

// Refresh re-reads every source and reloads the store. It returns the number
// of articles in the new snapshot.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	started := s.now()
	sources, err := s.loader.LoadDirectory(ctx, s.dir)
	if err != nil {
		return 0, fmt.Errorf("articles refresh: load %s: %w", s.dir, err)
	}
	if err := s.store.Reload(ctx, sources); err != nil {
		return 0, fmt.Errorf("articles refresh: reload: %w", err)
	}

	list, _ := s.store.List(ctx)
	s.logger.WithContext(ctx).Info("articles.refreshed",
		"sources", len(sources),
		"articles", len(list),
		"took", s.now().Sub(started).String(),
	)
	return len(list), nil
}
