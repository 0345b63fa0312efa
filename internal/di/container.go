// Package di wires the blog runtime from a runtimeconfig.Config.
package di

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-blog/internal/articles"
	"github.com/goliatone/go-blog/internal/auth"
	"github.com/goliatone/go-blog/internal/commands"
	kvcmd "github.com/goliatone/go-blog/internal/commands/kv"
	"github.com/goliatone/go-blog/internal/highlight"
	bloghttp "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/jobs"
	"github.com/goliatone/go-blog/internal/kv"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container owns the services built from a Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	codeSender     interfaces.CodeSender
	githubClient   *http.Client
	contentFS      fs.FS

	storage     *kv.Opened
	authSvc     *auth.Service
	publisher   *posts.Publisher
	highlighter *highlight.Highlighter
	parser      *markdown.GoldmarkParser
	markdownSvc *markdown.Service
	articleSvc  *articles.Service
	watcher     *articles.Watcher
	purge       *kvcmd.PurgeExpiredHandler
	scheduler   *jobs.Scheduler
	metrics     *bloghttp.Metrics
	api         *bloghttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCodeSender overrides the default log-based code delivery.
func WithCodeSender(sender interfaces.CodeSender) Option {
	return func(c *Container) {
		c.codeSender = sender
	}
}

// WithGitHubClient sets the HTTP client used for GitHub calls.
func WithGitHubClient(client *http.Client) Option {
	return func(c *Container) {
		c.githubClient = client
	}
}

// WithContentFS reads articles from filesystem instead of Content.Dir.
func WithContentFS(filesystem fs.FS) Option {
	return func(c *Container) {
		c.contentFS = filesystem
	}
}

// NewContainer validates cfg and builds every service. Call Close to release
// the storage handle.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureAuth(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configurePosts(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureArticles(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureAPI()
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, _ := console.ParseLevel(cfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: level})
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	opened, err := kv.Open(ctx, c.Config.Storage.Driver, c.Config.Storage.DSN)
	if err != nil {
		return err
	}
	c.storage = opened
	logging.StorageLogger(c.loggerProvider).Info("kv.opened", "driver", c.Config.Storage.Driver)

	c.purge = kvcmd.NewPurgeExpiredHandler(
		opened.Store,
		commands.CommandLogger(c.loggerProvider, "kv"),
		kvcmd.PurgeWithCronExpression(c.Config.Storage.PurgeSchedule),
	)
	c.scheduler = jobs.NewScheduler(jobs.WithLogger(commands.CommandLogger(c.loggerProvider, "cron")))
	return commands.RegisterCron(c.scheduler.Register, c.purge)
}

func (c *Container) configureAuth() error {
	cfg := c.Config.Auth
	logger := logging.AuthLogger(c.loggerProvider)
	opts := []auth.Option{
		auth.WithCodeTTL(cfg.CodeTTL),
		auth.WithSessionTTL(cfg.SessionTTL),
		auth.WithLogger(logger),
	}
	if c.codeSender != nil {
		opts = append(opts, auth.WithCodeSender(c.codeSender))
	}
	svc, err := auth.NewService(c.storage.Store, cfg.JWTSecret, cfg.AllowedEmails, opts...)
	if err != nil {
		return err
	}
	c.authSvc = svc
	return nil
}

func (c *Container) configurePosts(ctx context.Context) error {
	cfg := c.Config.GitHub
	if strings.TrimSpace(cfg.Repo) == "" {
		logging.PostsLogger(c.loggerProvider).Warn("posts.disabled", "reason", "github repo not configured")
		return nil
	}
	opts := []posts.Option{posts.WithLogger(logging.PostsLogger(c.loggerProvider))}
	if c.githubClient != nil {
		opts = append(opts, posts.WithHTTPClient(c.githubClient))
	}
	publisher, err := posts.NewPublisher(ctx, posts.Config{
		Token:   cfg.Token,
		Repo:    cfg.Repo,
		BaseURL: cfg.BaseURL,
		Timeout: c.Config.Server.UpstreamTimeout,
	}, opts...)
	if err != nil {
		return err
	}
	c.publisher = publisher
	return nil
}

func (c *Container) configureArticles() error {
	content := c.Config.Content
	parseOpts := interfaces.ParseOptions{
		Extensions: c.Config.Markdown.Extensions,
		HardWraps:  c.Config.Markdown.HardWraps,
		SafeMode:   c.Config.Markdown.SafeMode,
	}
	markdownLogger := logging.MarkdownLogger(c.loggerProvider)

	c.highlighter = highlight.New(highlight.Config{Style: c.Config.Markdown.Style}, highlight.WithLogger(markdownLogger))
	c.parser = markdown.NewGoldmarkParser(parseOpts, markdown.WithHighlighter(c.highlighter))

	mdCfg := markdown.Config{
		BasePath:  content.Dir,
		Pattern:   content.Pattern,
		Recursive: content.Recursive,
		Parser:    parseOpts,
	}
	if c.contentFS != nil {
		c.markdownSvc = markdown.NewServiceFS(c.contentFS, mdCfg, c.parser)
	} else {
		svc, err := markdown.NewService(mdCfg, c.parser)
		if err != nil {
			return fmt.Errorf("di: content directory: %w", err)
		}
		c.markdownSvc = svc
	}

	articlesLogger := logging.ArticlesLogger(c.loggerProvider)
	normalizer := articles.NewNormalizer(c.parser,
		articles.WithSummaryLength(content.SummaryLength),
		articles.WithParseOptions(parseOpts),
		articles.WithNormalizerLogger(articlesLogger),
	)
	storeOpts := []articles.StoreOption{articles.WithStoreLogger(articlesLogger)}
	if content.Workers > 0 {
		storeOpts = append(storeOpts, articles.WithWorkers(content.Workers))
	}
	store := articles.NewStore(normalizer, articles.NewIndex(categoryNames(content.CategoryNames), content.FeaturedCategory), storeOpts...)
	c.articleSvc = articles.NewService(c.markdownSvc, store, articles.WithServiceLogger(articlesLogger))

	if content.Watch && c.contentFS == nil {
		loader := c.markdownSvc.Loader()
		c.watcher = articles.NewWatcher(content.Dir, c.articleSvc,
			articles.WithRecursive(content.Recursive),
			articles.WithMatcher(func(name string) bool { return loader.Matches(filepath.Base(name)) }),
			articles.WithWatcherLogger(articlesLogger),
		)
	}
	return nil
}

// categoryNames layers configured display names over the defaults.
func categoryNames(overrides map[string]string) map[string]string {
	names := articles.DefaultCategoryNames()
	for id, name := range overrides {
		names[id] = name
	}
	return names
}

func (c *Container) configureAPI() {
	server := c.Config.Server
	opts := []bloghttp.APIOption{
		bloghttp.WithBasePath(server.BasePath),
		bloghttp.WithAuthenticator(c.authSvc),
		bloghttp.WithArticleReader(c.articleSvc.Store()),
		bloghttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		bloghttp.WithCORS(bloghttp.CORSConfig{AllowedOrigins: server.CORSOrigins}),
		bloghttp.WithRequestTimeout(server.UpstreamTimeout),
	}
	if c.publisher != nil {
		opts = append(opts, bloghttp.WithPostPublisher(c.publisher))
	}
	if server.Metrics {
		c.metrics = bloghttp.NewMetrics()
		opts = append(opts, bloghttp.WithMetrics(c.metrics))
	}
	c.api = bloghttp.NewAPI(opts...)
}

// Close releases the storage handle.
func (c *Container) Close() error {
	if c == nil || c.storage == nil {
		return nil
	}
	return c.storage.Close()
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns a module scoped logger.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// KVStore returns the store backing codes and sessions.
func (c *Container) KVStore() kv.Store {
	return c.storage.Store
}

// AuthService returns the verification gateway.
func (c *Container) AuthService() *auth.Service {
	return c.authSvc
}

// Publisher returns the posts publisher, or nil when no repository is set.
func (c *Container) Publisher() *posts.Publisher {
	return c.publisher
}

// Highlighter returns the code block highlighter.
func (c *Container) Highlighter() *highlight.Highlighter {
	return c.highlighter
}

// MarkdownService returns the content directory service.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// ArticleService returns the article refresh service.
func (c *Container) ArticleService() *articles.Service {
	return c.articleSvc
}

// Watcher returns the content watcher, or nil when watching is disabled.
func (c *Container) Watcher() *articles.Watcher {
	return c.watcher
}

// PurgeHandler returns the expired entry purge command handler.
func (c *Container) PurgeHandler() *kvcmd.PurgeExpiredHandler {
	return c.purge
}

// Scheduler returns the cron scheduler carrying background commands.
func (c *Container) Scheduler() *jobs.Scheduler {
	return c.scheduler
}

// Metrics returns the HTTP metrics, or nil when disabled.
func (c *Container) Metrics() *bloghttp.Metrics {
	return c.metrics
}

// API returns the HTTP gateway.
func (c *Container) API() *bloghttp.API {
	return c.api
}
