package articles

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	// UncategorizedID is assigned to articles that declare no category.
	UncategorizedID = "uncategorized"
	// DefaultTitle is used when the header carries no title.
	DefaultTitle = "untitled"
	// CharsPerMinute is the reading speed behind the read time estimate.
	CharsPerMinute = 500

	parseErrorText = "parse error"
)

var readTimeKeys = []string{"readTime", "read-time", "read_time"}

var titleQuotes = regexp.MustCompile(`^["']|["']$`)

// NormalizerOption customises a Normalizer.
type NormalizerOption func(*Normalizer)

// WithClock overrides the clock used for missing or invalid dates.
func WithClock(clock func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		if clock != nil {
			n.now = clock
		}
	}
}

// WithSummaryLength overrides the derived summary length.
func WithSummaryLength(length int) NormalizerOption {
	return func(n *Normalizer) {
		if length > 0 {
			n.summaryLength = length
		}
	}
}

// WithParseOptions sets the options handed to the markdown parser.
func WithParseOptions(opts interfaces.ParseOptions) NormalizerOption {
	return func(n *Normalizer) {
		n.parseOptions = opts
	}
}

// WithNormalizerLogger sets the logger used to report parse failures.
func WithNormalizerLogger(logger interfaces.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// Normalizer derives Article snapshots from article sources. It never fails:
// a source that cannot be normalized yields a sentinel article.
type Normalizer struct {
	parser        interfaces.MarkdownParser
	parseOptions  interfaces.ParseOptions
	summaryLength int
	now           func() time.Time
	logger        interfaces.Logger
}

// NewNormalizer constructs a Normalizer rendering HTML with parser.
func NewNormalizer(parser interfaces.MarkdownParser, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		parser:        parser,
		parseOptions:  interfaces.ParseOptions{HardWraps: true},
		summaryLength: markdown.DefaultSummaryLength,
		now:           time.Now,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// NormalizeSource extracts the header from source and normalizes the result.
func (n *Normalizer) NormalizeSource(ctx context.Context, source *markdown.Source) (article *interfaces.Article) {
	if source == nil {
		return nil
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			n.reportFailure(ctx, source.ID, source.Path, fmt.Errorf("panic: %v", recovered))
			article = n.sentinel(source.ID)
		}
	}()

	meta, content := markdown.ExtractMetadata(source.Text)
	article, err := n.normalize(source.ID, meta, content)
	if err != nil {
		n.reportFailure(ctx, source.ID, source.Path, err)
		return n.sentinel(source.ID)
	}
	return article
}

// Normalize builds an Article from extracted metadata and content.
func (n *Normalizer) Normalize(ctx context.Context, id string, meta markdown.Metadata, content string) (article *interfaces.Article) {
	defer func() {
		if recovered := recover(); recovered != nil {
			n.reportFailure(ctx, id, "", fmt.Errorf("panic: %v", recovered))
			article = n.sentinel(id)
		}
	}()

	article, err := n.normalize(id, meta, content)
	if err != nil {
		n.reportFailure(ctx, id, "", err)
		return n.sentinel(id)
	}
	return article
}

func (n *Normalizer) normalize(id string, meta markdown.Metadata, content string) (*interfaces.Article, error) {
	if n.parser == nil {
		return nil, fmt.Errorf("articles: markdown parser not configured")
	}

	html, err := n.parser.ParseWithOptions([]byte(content), n.parseOptions)
	if err != nil {
		return nil, fmt.Errorf("articles: render %s: %w", id, err)
	}

	title := normalizeTitle(meta)
	categories := normalizeCategories(meta)
	tags, _ := meta.List("tags")
	if tags == nil {
		tags = []string{}
	}
	author, _ := meta.String("author")

	return &interfaces.Article{
		ID:         id,
		Title:      title,
		Date:       n.normalizeDate(meta),
		Author:     strings.TrimSpace(author),
		Category:   categories[0],
		Categories: categories,
		Tags:       append([]string(nil), tags...),
		ReadTime:   normalizeReadTime(meta, content),
		Summary:    n.normalizeSummary(meta, content, title),
		Content:    content,
		HTML:       string(html),
		Metadata:   cloneMetadata(meta),
	}, nil
}

func (n *Normalizer) reportFailure(ctx context.Context, id, path string, err error) {
	logging.WithArticleContext(n.logger, id, path).
		WithContext(ctx).
		Error("article.parse_failed", "error", err)
}

func (n *Normalizer) sentinel(id string) *interfaces.Article {
	return Sentinel(id, n.now())
}

// Sentinel returns the placeholder article substituted for a source that
// failed to normalize, dated at date.
func Sentinel(id string, date time.Time) *interfaces.Article {
	return &interfaces.Article{
		ID:         id,
		Title:      parseErrorText,
		Date:       date,
		Category:   UncategorizedID,
		Categories: []string{UncategorizedID},
		Tags:       []string{},
		ReadTime:   "1 min read",
		Summary:    parseErrorText,
		Content:    parseErrorText,
		HTML:       "<p>" + parseErrorText + "</p>",
		Metadata:   map[string]any{},
	}
}

func normalizeTitle(meta markdown.Metadata) string {
	title, _ := meta.String("title")
	title = titleQuotes.ReplaceAllString(strings.TrimSpace(title), "")
	if title == "" {
		return DefaultTitle
	}
	return title
}

func (n *Normalizer) normalizeDate(meta markdown.Metadata) time.Time {
	raw, ok := meta.String("date")
	if !ok || strings.TrimSpace(raw) == "" {
		return n.now()
	}
	parsed, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return n.now()
	}
	return parsed
}

func normalizeCategories(meta markdown.Metadata) []string {
	if list, ok := meta.List("categories"); ok {
		if cleaned := cleanList(list); len(cleaned) > 0 {
			return cleaned
		}
	}
	if list, ok := meta.List("category"); ok {
		if cleaned := cleanList(list); len(cleaned) > 0 {
			return cleaned
		}
	}
	if single, ok := meta.String("category"); ok && strings.TrimSpace(single) != "" {
		return []string{strings.TrimSpace(single)}
	}
	return []string{UncategorizedID}
}

func normalizeReadTime(meta markdown.Metadata, content string) string {
	if value, ok := meta.First(readTimeKeys...); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	minutes := int(math.Ceil(float64(utf8.RuneCountInString(content)) / CharsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

func (n *Normalizer) normalizeSummary(meta markdown.Metadata, content, title string) string {
	if summary, ok := meta.String("summary"); ok && strings.TrimSpace(summary) != "" {
		return strings.TrimSpace(summary)
	}
	if derived := markdown.ExtractSummary(content, n.summaryLength); derived != "" {
		return derived
	}
	return title
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func cloneMetadata(meta markdown.Metadata) map[string]any {
	out := make(map[string]any, len(meta))
	for key, value := range meta {
		if list, ok := value.([]string); ok {
			out[key] = append([]string(nil), list...)
			continue
		}
		out[key] = value
	}
	return out
}
