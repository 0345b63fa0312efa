package highlight

import (
	"bytes"
	"strings"
	"testing"
)

func TestHighlightEscapesAndMarksTokens(t *testing.T) {
	h := New(Config{})

	out := h.Highlight(`fmt.Println("<b>")`, "go")

	if strings.Contains(out, "<b>") {
		t.Fatalf("expected code to be escaped, got %q", out)
	}
	if !strings.Contains(out, "&lt;b&gt;") && !strings.Contains(out, "&#34;&lt;b&gt;&#34;") {
		t.Fatalf("expected escaped markup, got %q", out)
	}
	if !strings.Contains(out, "class=") {
		t.Fatalf("expected class based markup, got %q", out)
	}
	if strings.Contains(out, "<pre") {
		t.Fatalf("expected no surrounding pre, got %q", out)
	}
}

func TestHighlightInlineStyles(t *testing.T) {
	h := New(Config{Inline: true})

	out := h.Highlight("package main", "go")

	if !strings.Contains(out, "style=") {
		t.Fatalf("expected inline styles, got %q", out)
	}
}

func TestHighlightUnknownLanguageStillEscapes(t *testing.T) {
	h := New(Config{})

	out := h.Highlight("a < b && c > d", "no-such-language")

	if strings.Contains(out, "a < b") {
		t.Fatalf("expected escaped output, got %q", out)
	}
	if !strings.Contains(out, "&lt;") {
		t.Fatalf("expected escaped output, got %q", out)
	}
}

func TestNewUnknownStyleFallsBack(t *testing.T) {
	h := New(Config{Style: "definitely-not-a-style"})
	if h.StyleName() == "" {
		t.Fatalf("expected fallback style to be resolved")
	}

	var buf bytes.Buffer
	if err := h.WriteCSS(&buf); err != nil {
		t.Fatalf("WriteCSS: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected stylesheet output")
	}
}
