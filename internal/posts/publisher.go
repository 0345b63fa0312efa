package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// TextCodeUpstreamFailed marks errors caused by the issue tracker.
const TextCodeUpstreamFailed = "UPSTREAM_REQUEST_FAILED"

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 10 * time.Second

var errMissingRepo = errors.New("posts: github repo must be owner/name")

// Config configures the GitHub Issues publisher.
type Config struct {
	Token string
	// Repo is "owner/name".
	Repo string
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise.
	BaseURL string
	Timeout time.Duration
}

// Option customises a Publisher.
type Option func(*Publisher)

// WithLogger sets the publisher logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithHTTPClient replaces the transport, bypassing the token source.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Publisher) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// Publisher stores posts as GitHub issues. Upstream bodies are relayed
// unchanged; failures are reported and never retried.
type Publisher struct {
	client     *github.Client
	httpClient *http.Client
	owner      string
	repo       string
	timeout    time.Duration
	logger     interfaces.Logger
}

var _ interfaces.PostPublisher = (*Publisher)(nil)

// NewPublisher constructs a Publisher for cfg.
func NewPublisher(ctx context.Context, cfg Config, opts ...Option) (*Publisher, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(cfg.Repo), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, errMissingRepo
	}

	p := &Publisher{
		owner:   owner,
		repo:    repo,
		timeout: cfg.Timeout,
		logger:  logging.NoOp(),
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	httpClient := p.httpClient
	if httpClient == nil && cfg.Token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	}
	client := github.NewClient(httpClient)
	if p.httpClient != nil && cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("posts: parse base url: %w", err)
		}
		client.BaseURL = parsed
	}
	p.client = client
	return p, nil
}

// List relays the repository's issues.
func (p *Publisher) List(ctx context.Context) (*interfaces.Relayed, error) {
	return p.do(ctx, http.MethodGet, p.issuesPath(), nil, "list posts")
}

// Create opens an issue for input.
func (p *Publisher) Create(ctx context.Context, input interfaces.PostInput) (*interfaces.Relayed, error) {
	return p.do(ctx, http.MethodPost, p.issuesPath(), issueRequest(input), "create post")
}

// Update edits issue id with input.
func (p *Publisher) Update(ctx context.Context, id int, input interfaces.PostInput) (*interfaces.Relayed, error) {
	return p.do(ctx, http.MethodPatch, p.issuePath(id), issueRequest(input), "update post")
}

// Close marks issue id as closed.
func (p *Publisher) Close(ctx context.Context, id int) error {
	_, err := p.do(ctx, http.MethodPatch, p.issuePath(id), &github.IssueRequest{State: github.String("closed")}, "delete post")
	return err
}

func issueRequest(input interfaces.PostInput) *github.IssueRequest {
	labels := Labels(input.Categories, input.Tags)
	return &github.IssueRequest{
		Title:  github.String(input.Title),
		Body:   github.String(input.Content),
		Labels: &labels,
	}
}

func (p *Publisher) issuesPath() string {
	return fmt.Sprintf("repos/%s/%s/issues", url.PathEscape(p.owner), url.PathEscape(p.repo))
}

func (p *Publisher) issuePath(id int) string {
	return fmt.Sprintf("%s/%d", p.issuesPath(), id)
}

func (p *Publisher) do(ctx context.Context, method, path string, body any, action string) (*interfaces.Relayed, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()
	req, err := p.client.NewRequest(method, path, body)
	if err != nil {
		return nil, upstreamError(err, action)
	}

	var raw json.RawMessage
	resp, err := p.client.Do(ctx, req, &raw)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	logger := p.logger.WithContext(ctx)
	if err != nil {
		logger.Error("posts.upstream_failed", "action", action, "method", method, "status", status, "error", err)
		return nil, upstreamError(err, action)
	}
	logger.Debug("posts.upstream_ok", "action", action, "method", method, "status", status, "took", time.Since(started).String())
	return &interfaces.Relayed{Status: status, Body: raw}, nil
}

func upstreamError(err error, action string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "failed to "+action).
		WithTextCode(TextCodeUpstreamFailed)
}
