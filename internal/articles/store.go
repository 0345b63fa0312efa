package articles

import (
	"bytes"
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"golang.org/x/sync/errgroup"
)

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithWorkers bounds the number of sources normalized concurrently.
func WithWorkers(workers int) StoreOption {
	return func(s *Store) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithStoreLogger sets the logger used for reload reports.
func WithStoreLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type entry struct {
	article  *interfaces.Article
	checksum []byte
}

type snapshot struct {
	articles   []*interfaces.Article
	entries    map[string]entry
	categories []interfaces.Category
	tags       []interfaces.Tag
}

// Store owns the latest article snapshot. Reads never block on a reload:
// a new snapshot is built aside and swapped in once complete. Articles
// returned by the store are shared and must be treated as read-only.
type Store struct {
	normalizer *Normalizer
	index      *Index
	workers    int
	logger     interfaces.Logger

	reloadMu sync.Mutex
	mu       sync.RWMutex
	current  *snapshot
}

var _ interfaces.ArticleReader = (*Store)(nil)

// NewStore constructs an empty Store.
func NewStore(normalizer *Normalizer, index *Index, opts ...StoreOption) *Store {
	if index == nil {
		index = NewIndex(nil, DefaultFeaturedCategory)
	}
	s := &Store{
		normalizer: normalizer,
		index:      index,
		workers:    runtime.GOMAXPROCS(0),
		logger:     logging.NoOp(),
		current:    &snapshot{entries: map[string]entry{}},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Reload derives articles for sources and replaces the snapshot. Sources
// whose checksum matches the previous snapshot reuse the derived article.
// On error the previous snapshot is kept.
func (s *Store) Reload(ctx context.Context, sources []*markdown.Source) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	previous := s.snapshot()
	results := make([]entry, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for i, source := range sources {
		if source == nil {
			continue
		}
		if prior, ok := previous.entries[source.ID]; ok && len(source.Checksum) > 0 && bytes.Equal(prior.checksum, source.Checksum) {
			results[i] = prior
			continue
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = entry{
				article:  s.normalizer.NormalizeSource(groupCtx, source),
				checksum: source.Checksum,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	next := s.build(results)

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.logger.WithContext(ctx).Debug("articles.reloaded",
		"articles", len(next.articles),
		"categories", len(next.categories),
		"tags", len(next.tags),
	)
	return nil
}

func (s *Store) build(results []entry) *snapshot {
	next := &snapshot{entries: make(map[string]entry, len(results))}
	for _, result := range results {
		if result.article == nil {
			continue
		}
		if _, dup := next.entries[result.article.ID]; dup {
			continue
		}
		next.entries[result.article.ID] = result
		next.articles = append(next.articles, result.article)
	}

	sort.SliceStable(next.articles, func(i, j int) bool {
		a, b := next.articles[i], next.articles[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID < b.ID
	})

	next.categories = s.index.Categories(next.articles)
	next.tags = s.index.Tags(next.articles)
	return next
}

func (s *Store) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// List returns every article, newest first.
func (s *Store) List(_ context.Context) ([]*interfaces.Article, error) {
	return append([]*interfaces.Article{}, s.snapshot().articles...), nil
}

// Get returns the article with the supplied id.
func (s *Store) Get(_ context.Context, id string) (*interfaces.Article, error) {
	found, ok := s.snapshot().entries[id]
	if !ok {
		return nil, notFound("article", id, textCodeArticleNotFound)
	}
	return found.article, nil
}

// ByCategory returns the articles listing category id, newest first.
func (s *Store) ByCategory(_ context.Context, id string) ([]*interfaces.Article, error) {
	matches := filter(s.snapshot().articles, func(article *interfaces.Article) bool {
		return article.HasCategory(id)
	})
	if len(matches) == 0 {
		return nil, notFound("category", id, textCodeCategoryNotFound)
	}
	return matches, nil
}

// ByTag returns the articles carrying tag, newest first.
func (s *Store) ByTag(_ context.Context, tag string) ([]*interfaces.Article, error) {
	matches := filter(s.snapshot().articles, func(article *interfaces.Article) bool {
		return article.HasTag(tag)
	})
	if len(matches) == 0 {
		return nil, notFound("tag", tag, textCodeTagNotFound)
	}
	return matches, nil
}

// Categories returns the category aggregate with the featured category first.
func (s *Store) Categories(_ context.Context) ([]interfaces.Category, error) {
	return append([]interfaces.Category{}, s.snapshot().categories...), nil
}

// Category returns a category aggregate together with its articles.
func (s *Store) Category(ctx context.Context, id string) (*interfaces.CategoryDetail, error) {
	snap := s.snapshot()
	for _, category := range snap.categories {
		if category.ID != id {
			continue
		}
		list, err := s.ByCategory(ctx, id)
		if err != nil {
			return nil, err
		}
		return &interfaces.CategoryDetail{Category: category, Articles: list}, nil
	}
	return nil, notFound("category", id, textCodeCategoryNotFound)
}

// Tags returns the tag aggregate in encounter order.
func (s *Store) Tags(_ context.Context) ([]interfaces.Tag, error) {
	return append([]interfaces.Tag{}, s.snapshot().tags...), nil
}

// Tag returns a tag aggregate together with its articles.
func (s *Store) Tag(ctx context.Context, id string) (*interfaces.TagDetail, error) {
	snap := s.snapshot()
	for _, tag := range snap.tags {
		if tag.ID != id {
			continue
		}
		list, err := s.ByTag(ctx, id)
		if err != nil {
			return nil, err
		}
		return &interfaces.TagDetail{Tag: tag, Articles: list}, nil
	}
	return nil, notFound("tag", id, textCodeTagNotFound)
}

func filter(list []*interfaces.Article, keep func(*interfaces.Article) bool) []*interfaces.Article {
	out := make([]*interfaces.Article, 0)
	for _, article := range list {
		if keep(article) {
			out = append(out, article)
		}
	}
	return out
}
