package articles

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

type countingParser struct {
	inner interfaces.MarkdownParser
	calls atomic.Int32
}

func (p *countingParser) Parse(source []byte) ([]byte, error) {
	return p.ParseWithOptions(source, interfaces.ParseOptions{})
}

func (p *countingParser) ParseWithOptions(source []byte, opts interfaces.ParseOptions) ([]byte, error) {
	p.calls.Add(1)
	return p.inner.ParseWithOptions(source, opts)
}

func testSources() []*markdown.Source {
	return []*markdown.Source{
		source("old", "---\ntitle: Old\ndate: 2023-01-01\ncategory: frontend\ntags: [go]\n---\nold body"),
		source("new", "---\ntitle: New\ndate: 2024-05-01\ncategory: devops\ntags: [go, ops]\n---\nnew body"),
		source("mid", "---\ntitle: Mid\ndate: 2024-01-01\ncategory: frontend\n---\nmid body"),
	}
}

func TestStoreReload_OrdersNewestFirst(t *testing.T) {
	store := NewStore(newTestNormalizer(nil), NewIndex(nil, DefaultFeaturedCategory), WithWorkers(2))
	ctx := context.Background()

	if err := store.Reload(ctx, testSources()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := []string{}
	for _, article := range list {
		got = append(got, article.ID)
	}
	if len(got) != 3 || got[0] != "new" || got[1] != "mid" || got[2] != "old" {
		t.Fatalf("expected newest first, got %v", got)
	}

	categories, _ := store.Categories(ctx)
	if len(categories) != 2 || categories[0].ID != "frontend" || categories[0].Count != 2 {
		t.Fatalf("expected featured frontend first with 2 articles, got %#v", categories)
	}
}

func TestStoreQueries(t *testing.T) {
	store := NewStore(newTestNormalizer(nil), nil)
	ctx := context.Background()
	if err := store.Reload(ctx, testSources()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	article, err := store.Get(ctx, "mid")
	if err != nil || article.Title != "Mid" {
		t.Fatalf("Get mid: %v %#v", err, article)
	}

	tagged, err := store.ByTag(ctx, "go")
	if err != nil || len(tagged) != 2 || tagged[0].ID != "new" {
		t.Fatalf("ByTag go: %v %#v", err, tagged)
	}

	detail, err := store.Category(ctx, "frontend")
	if err != nil {
		t.Fatalf("Category: %v", err)
	}
	if detail.Count != 2 || len(detail.Articles) != 2 || detail.Name != "前端开发" {
		t.Fatalf("unexpected category detail %#v", detail)
	}

	tag, err := store.Tag(ctx, "ops")
	if err != nil || tag.Count != 1 || tag.Articles[0].ID != "new" {
		t.Fatalf("Tag ops: %v %#v", err, tag)
	}
}

func TestStoreQueries_NotFound(t *testing.T) {
	store := NewStore(newTestNormalizer(nil), nil)
	ctx := context.Background()
	if err := store.Reload(ctx, testSources()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	checks := map[string]error{}
	_, checks["get"] = store.Get(ctx, "missing")
	_, checks["category"] = store.Category(ctx, "missing")
	_, checks["by_category"] = store.ByCategory(ctx, "missing")
	_, checks["tag"] = store.Tag(ctx, "missing")
	_, checks["by_tag"] = store.ByTag(ctx, "missing")

	for name, err := range checks {
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
			t.Fatalf("%s: expected not found category, got %v", name, err)
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Key != "missing" {
			t.Fatalf("%s: expected NotFoundError, got %v", name, err)
		}
	}
}

func TestStoreReload_ReusesUnchangedSources(t *testing.T) {
	parser := &countingParser{inner: markdown.NewGoldmarkParser(interfaces.ParseOptions{})}
	store := NewStore(newTestNormalizer(parser), nil)
	ctx := context.Background()

	if err := store.Reload(ctx, testSources()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if parser.calls.Load() != 3 {
		t.Fatalf("expected 3 renders, got %d", parser.calls.Load())
	}

	changed := testSources()
	changed[0] = source("old", "---\ntitle: Old v2\ndate: 2023-01-01\n---\nedited")
	if err := store.Reload(ctx, changed); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if parser.calls.Load() != 4 {
		t.Fatalf("expected only the changed source to render, got %d calls", parser.calls.Load())
	}
	article, _ := store.Get(ctx, "old")
	if article.Title != "Old v2" {
		t.Fatalf("expected updated article, got %q", article.Title)
	}
}

func TestStoreReload_CancelledKeepsSnapshot(t *testing.T) {
	store := NewStore(newTestNormalizer(nil), nil)
	if err := store.Reload(context.Background(), testSources()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fresh := []*markdown.Source{source("other", "---\ntitle: Other\n---\nx")}
	if err := store.Reload(ctx, fresh); err == nil {
		t.Fatalf("expected cancellation error")
	}

	list, _ := store.List(context.Background())
	if len(list) != 3 {
		t.Fatalf("expected previous snapshot to survive, got %d articles", len(list))
	}
}

func TestServiceRefresh(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md":       {Data: []byte("---\ntitle: A\ndate: 2024-01-02\n---\na")},
		"notes/b.md": {Data: []byte("---\ntitle: B\ndate: 2024-01-03\n---\nb")},
		"skip.txt":   {Data: []byte("ignored")},
	}
	loader := markdown.NewLoader(fsys, markdown.LoaderConfig{Recursive: true})
	store := NewStore(newTestNormalizer(nil), nil)
	svc := NewService(loader, store)

	count, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 articles, got %d", count)
	}
	if _, err := svc.Store().Get(context.Background(), "notes/b"); err != nil {
		t.Fatalf("expected nested article id, got %v", err)
	}
}
