package articles

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestNormalizer(parser interfaces.MarkdownParser, opts ...NormalizerOption) *Normalizer {
	if parser == nil {
		parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{})
	}
	opts = append([]NormalizerOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewNormalizer(parser, opts...)
}

func source(id, text string) *markdown.Source {
	return &markdown.Source{ID: id, Path: id + ".md", Text: []byte(text), Checksum: []byte(text)}
}

type failingParser struct {
	err   error
	panic bool
}

func (p failingParser) Parse(source []byte) ([]byte, error) {
	return p.ParseWithOptions(source, interfaces.ParseOptions{})
}

func (p failingParser) ParseWithOptions([]byte, interfaces.ParseOptions) ([]byte, error) {
	if p.panic {
		panic("renderer exploded")
	}
	return nil, p.err
}

func TestNormalizeSource_WellFormedHeader(t *testing.T) {
	n := newTestNormalizer(nil)

	article := n.NormalizeSource(context.Background(), source("hello", "---\ntitle: \"Hello\"\ndate: 2024-01-01\ntags: [a, b]\n---\nbody"))

	if article.ID != "hello" || article.Title != "Hello" {
		t.Fatalf("unexpected id/title %q %q", article.ID, article.Title)
	}
	if !article.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected 2024-01-01, got %s", article.Date)
	}
	if !reflect.DeepEqual(article.Tags, []string{"a", "b"}) {
		t.Fatalf("expected tags [a b], got %v", article.Tags)
	}
	if article.Content != "body" || article.Summary != "body" {
		t.Fatalf("unexpected content/summary %q %q", article.Content, article.Summary)
	}
	if article.Category != UncategorizedID || !reflect.DeepEqual(article.Categories, []string{UncategorizedID}) {
		t.Fatalf("expected uncategorized, got %q %v", article.Category, article.Categories)
	}
	if article.ReadTime != "1 min read" {
		t.Fatalf("expected 1 min read, got %q", article.ReadTime)
	}
	if strings.TrimSpace(article.HTML) != "<p>body</p>" {
		t.Fatalf("unexpected html %q", article.HTML)
	}
}

func TestNormalizeSource_Deterministic(t *testing.T) {
	n := newTestNormalizer(nil)
	text := "---\ntitle: Twice\ndate: 2024-02-02\ncategories: [backend, devops]\n---\n# Twice\n\nSome **bold** text.\n\n```go\nx := 1\n```\n"

	first := n.NormalizeSource(context.Background(), source("twice", text))
	second := n.NormalizeSource(context.Background(), source("twice", text))

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical articles\nfirst:  %#v\nsecond: %#v", first, second)
	}
	if first.Category != "backend" || len(first.Categories) != 2 {
		t.Fatalf("expected backend first of two categories, got %q %v", first.Category, first.Categories)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	n := newTestNormalizer(nil)

	article := n.Normalize(context.Background(), "bare", markdown.Metadata{"date": "not a date", "title": "'Quoted'"}, "")

	if !article.Date.Equal(fixedNow) {
		t.Fatalf("expected clock fallback for invalid date, got %s", article.Date)
	}
	if article.Title != "Quoted" {
		t.Fatalf("expected quotes stripped, got %q", article.Title)
	}
	if article.Summary != "Quoted" {
		t.Fatalf("expected summary to fall back to title, got %q", article.Summary)
	}
	if article.Tags == nil || len(article.Tags) != 0 {
		t.Fatalf("expected empty tags, got %#v", article.Tags)
	}

	untitled := n.Normalize(context.Background(), "none", markdown.Metadata{}, "text")
	if untitled.Title != DefaultTitle || !untitled.Date.Equal(fixedNow) {
		t.Fatalf("expected defaults, got %q %s", untitled.Title, untitled.Date)
	}
}

func TestNormalize_ReadTime(t *testing.T) {
	n := newTestNormalizer(nil)

	explicit := n.Normalize(context.Background(), "a", markdown.Metadata{"read-time": "7 min"}, "short")
	if explicit.ReadTime != "7 min" {
		t.Fatalf("expected metadata read time, got %q", explicit.ReadTime)
	}

	long := n.Normalize(context.Background(), "b", markdown.Metadata{}, strings.Repeat("字", 1001))
	if long.ReadTime != "3 min read" {
		t.Fatalf("expected 3 min read, got %q", long.ReadTime)
	}
}

func TestNormalize_ExplicitSummaryAndCategory(t *testing.T) {
	n := newTestNormalizer(nil)

	article := n.Normalize(context.Background(), "c", markdown.Metadata{
		"summary":  "Hand written",
		"category": "devops",
		"author":   "Ada",
	}, "Derived text.")

	if article.Summary != "Hand written" {
		t.Fatalf("expected explicit summary, got %q", article.Summary)
	}
	if article.Category != "devops" || article.Author != "Ada" {
		t.Fatalf("unexpected category/author %q %q", article.Category, article.Author)
	}
}

func TestNormalizeSource_BracketSuffixedScalars(t *testing.T) {
	n := newTestNormalizer(nil)

	article := n.NormalizeSource(context.Background(), source("series", "---\ntitle: Learning Go [Part 2]\nsummary: See the [docs]\n---\nBody text."))

	if article.Title != "Learning Go [Part 2]" {
		t.Fatalf("expected bracketed title kept, got %q", article.Title)
	}
	if article.Summary != "See the [docs]" {
		t.Fatalf("expected explicit summary kept, got %q", article.Summary)
	}
}

func TestNormalizeSource_SentinelOnFailure(t *testing.T) {
	cases := map[string]failingParser{
		"error": {err: errors.New("boom")},
		"panic": {panic: true},
	}
	for name, parser := range cases {
		t.Run(name, func(t *testing.T) {
			n := newTestNormalizer(parser)

			article := n.NormalizeSource(context.Background(), source("broken", "---\ntitle: x\n---\nbody"))

			if article.ID != "broken" {
				t.Fatalf("expected original id, got %q", article.ID)
			}
			if article.Title != "parse error" || article.Summary != "parse error" || article.Content != "parse error" {
				t.Fatalf("expected sentinel fields, got %#v", article)
			}
			if article.HTML != "<p>parse error</p>" || article.Category != UncategorizedID {
				t.Fatalf("expected sentinel html/category, got %q %q", article.HTML, article.Category)
			}
			if !article.Date.Equal(fixedNow) {
				t.Fatalf("expected sentinel dated at the clock, got %s", article.Date)
			}
		})
	}
}
