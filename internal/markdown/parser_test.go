package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type bracketHighlighter struct {
	calls []string
}

func (h *bracketHighlighter) Highlight(code, language string) string {
	h.calls = append(h.calls, language)
	return "[" + language + "]" + strings.TrimSpace(code)
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_HardWraps(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{HardWraps: true})

	html, err := parser.Parse([]byte("line one\nline two"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_RoutesFencedCodeThroughHighlighter(t *testing.T) {
	highlighter := &bracketHighlighter{}
	parser := NewGoldmarkParser(interfaces.ParseOptions{}, WithHighlighter(highlighter))

	html, err := parser.Parse([]byte("```go\nfmt.Println(1)\n```\n\n```\nplain\n```\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, `<pre><code class="language-go">[go]fmt.Println(1)</code></pre>`) {
		t.Fatalf("expected highlighted go block, got %q", got)
	}
	if !strings.Contains(got, `<pre><code>[]plain</code></pre>`) {
		t.Fatalf("expected untagged block to reach highlighter, got %q", got)
	}
	if len(highlighter.calls) != 2 {
		t.Fatalf("expected 2 highlight calls, got %v", highlighter.calls)
	}
}

func TestGoldmarkParser_SafeModeEscapesRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{SafeMode: true})

	html, err := parser.Parse([]byte("<script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("expected raw HTML to be omitted in safe mode, got %q", string(html))
	}
}

func TestCollectExtensionsIgnoresUnknownAndDuplicates(t *testing.T) {
	exts := collectExtensions([]string{"table", " TABLE ", "nope", "footnote"})
	if len(exts) != 2 {
		t.Fatalf("expected 2 extensions, got %d", len(exts))
	}
}
