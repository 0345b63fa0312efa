package di_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const adminEmail = "admin@example.com"

type capturingSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *capturingSender) SendCode(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Auth.JWTSecret = "di-secret"
	cfg.Auth.AllowedEmails = []string{adminEmail}
	return cfg
}

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"first.md":       {Data: []byte("---\ntitle: First\ndate: 2024-01-01\ncategory: devops\n---\nFirst body with ```go\nfmt.Println()\n```")},
		"nested/next.md": {Data: []byte("---\ntitle: Next\ndate: 2024-06-01\ncategory: rust\ntags: [systems]\n---\nNext body.")},
	}
}

func serve(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestContainerWiresGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"number":1}]`))
	}))
	t.Cleanup(upstream.Close)

	cfg := testConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "file:di_container?mode=memory&cache=shared&_fk=1"
	cfg.GitHub.Repo = "ada/blog"
	cfg.GitHub.BaseURL = upstream.URL
	cfg.Content.CategoryNames = map[string]string{"rust": "Rust"}

	sender := &capturingSender{codes: map[string]string{}}
	container, err := di.NewContainer(context.Background(), cfg,
		di.WithContentFS(testContent()),
		di.WithCodeSender(sender),
		di.WithGitHubClient(upstream.Client()),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.Publisher() == nil {
		t.Fatalf("expected publisher to be wired")
	}
	if container.Watcher() != nil {
		t.Fatalf("expected no watcher when watching is disabled")
	}
	count, err := container.ArticleService().Refresh(context.Background())
	if err != nil || count != 2 {
		t.Fatalf("Refresh: count=%d err=%v", count, err)
	}

	handler, err := container.API().Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}

	if rec := serve(t, handler, http.MethodPost, "/auth/send-code", map[string]string{"email": adminEmail}, ""); rec.Code != http.StatusOK {
		t.Fatalf("send-code: %d %s", rec.Code, rec.Body.String())
	}
	rec := serve(t, handler, http.MethodPost, "/auth/verify", map[string]string{"email": adminEmail, "code": sender.codes[adminEmail]}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", rec.Code, rec.Body.String())
	}
	var issued struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &issued); err != nil || issued.Token == "" {
		t.Fatalf("expected token, got %s (%v)", rec.Body.String(), err)
	}
	if rec := serve(t, handler, http.MethodGet, "/auth/check", nil, issued.Token); rec.Code != http.StatusOK {
		t.Fatalf("check: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, handler, http.MethodGet, "/posts", nil, "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `[{"number":1}]` {
		t.Fatalf("posts: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, handler, http.MethodGet, "/categories", nil, "")
	var categories []interfaces.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Rust" || categories[1].Name != "DevOps" {
		t.Fatalf("unexpected categories %+v", categories)
	}

	rec = serve(t, handler, http.MethodGet, "/articles/first", nil, "")
	var article interfaces.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &article); err != nil {
		t.Fatalf("decode article: %v", err)
	}
	if article.ReadTime == "" || article.HTML == "" {
		t.Fatalf("unexpected article %+v", article)
	}

	if rec := serve(t, handler, http.MethodGet, "/metrics", nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}

	purged, err := container.PurgeHandler().Purge(context.Background())
	if err != nil || purged != 0 {
		t.Fatalf("Purge: purged=%d err=%v", purged, err)
	}
	if got := container.Scheduler().Expressions(); len(got) != 1 || got[0] != cfg.Storage.PurgeSchedule {
		t.Fatalf("expected purge scheduled with %q, got %v", cfg.Storage.PurgeSchedule, got)
	}
}

func TestContainerWithoutRepoDisablesPosts(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Metrics = false
	container, err := di.NewContainer(context.Background(), cfg, di.WithContentFS(testContent()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.Publisher() != nil || container.Metrics() != nil {
		t.Fatalf("expected posts and metrics to be disabled")
	}
	handler, err := container.API().Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	if rec := serve(t, handler, http.MethodGet, "/posts", nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for posts, got %d", rec.Code)
	}
	if rec := serve(t, handler, http.MethodGet, "/metrics", nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for metrics, got %d", rec.Code)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	_, err := di.NewContainer(context.Background(), cfg)
	if !errors.Is(err, runtimeconfig.ErrJWTSecretRequired) {
		t.Fatalf("expected ErrJWTSecretRequired, got %v", err)
	}
}

func TestContainerRequiresContentDirectory(t *testing.T) {
	cfg := testConfig()
	cfg.Content.Dir = filepath.Join(t.TempDir(), "missing")
	if _, err := di.NewContainer(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for missing content directory")
	}
}

func TestContainerBuildsWatcherForDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "post.md"), []byte("# Post\n\nbody"), 0o600); err != nil {
		t.Fatalf("write article: %v", err)
	}
	cfg := testConfig()
	cfg.Content.Dir = dir
	cfg.Content.Watch = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.Watcher() == nil {
		t.Fatalf("expected watcher")
	}
	count, err := container.ArticleService().Refresh(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("Refresh: count=%d err=%v", count, err)
	}
	article, err := container.ArticleService().Store().Get(context.Background(), "post")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if article.Title != "untitled" {
		t.Fatalf("expected default title, got %q", article.Title)
	}
}

func TestContainerUsesInjectedLoggerProvider(t *testing.T) {
	provider := &recordingProvider{}
	if _, err := di.NewContainer(context.Background(), testConfig(), di.WithContentFS(testContent()), di.WithLoggerProvider(provider)); err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if !provider.has("kv.opened") || !provider.has("posts.disabled") {
		t.Fatalf("expected wiring log entries, got %v", provider.messages)
	}
}

type recordingProvider struct {
	mu       sync.Mutex
	messages []string
}

func (p *recordingProvider) GetLogger(string) interfaces.Logger {
	return &recordingLogger{provider: p}
}

func (p *recordingProvider) record(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingProvider) has(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, candidate := range p.messages {
		if candidate == msg {
			return true
		}
	}
	return false
}

type recordingLogger struct {
	provider *recordingProvider
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.provider.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.provider.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.provider.record(msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}
