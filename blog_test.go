package blog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/di"
)

func TestModuleServesArticles(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.Auth.JWTSecret = "module-secret"
	content := fstest.MapFS{
		"intro.md": {Data: []byte("---\ntitle: Intro\ndate: 2024-02-02\ncategory: algorithm\n---\nIntro text.")},
	}

	module, err := blog.New(context.Background(), cfg, di.WithContentFS(content))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	if count, err := module.Refresh(context.Background()); err != nil || count != 1 {
		t.Fatalf("Refresh: count=%d err=%v", count, err)
	}
	article, err := module.Articles().Get(context.Background(), "intro")
	if err != nil || article.Title != "Intro" {
		t.Fatalf("Get: %+v %v", article, err)
	}
	if module.Auth() == nil {
		t.Fatalf("expected auth service")
	}

	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/algorithm", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := blog.New(context.Background(), blog.DefaultConfig())
	if !errors.Is(err, blog.ErrJWTSecretRequired) {
		t.Fatalf("expected ErrJWTSecretRequired, got %v", err)
	}
}
