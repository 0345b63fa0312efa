// Package highlight renders fenced code blocks as syntax highlighted HTML.
package highlight

import (
	"bytes"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultStyle is used when no style is configured or the name is unknown.
const DefaultStyle = "github"

// Config selects the chroma style and output mode.
type Config struct {
	Style string
	// Inline emits style attributes instead of CSS classes.
	Inline bool
}

// Option customises a Highlighter.
type Option func(*Highlighter)

// WithLogger overrides the logger used to report lexer failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(h *Highlighter) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Highlighter implements interfaces.Highlighter on top of chroma.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	logger    interfaces.Logger
}

var _ interfaces.Highlighter = (*Highlighter)(nil)

// New builds a Highlighter. The output never includes the surrounding <pre>
// element; callers own the block wrapper.
func New(cfg Config, opts ...Option) *Highlighter {
	name := strings.TrimSpace(cfg.Style)
	if name == "" {
		name = DefaultStyle
	}
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}

	h := &Highlighter{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(!cfg.Inline),
			chromahtml.PreventSurroundingPre(true),
		),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Highlight returns highlighted markup for code. Unknown languages are
// detected from the code itself; any failure yields the escaped code.
func (h *Highlighter) Highlight(code, language string) string {
	lexer := lexers.Get(strings.TrimSpace(language))
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		h.logger.Warn("highlight.tokenise_failed", "language", language, "error", err)
		return html.EscapeString(code)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		h.logger.Warn("highlight.format_failed", "language", language, "error", err)
		return html.EscapeString(code)
	}
	return buf.String()
}

// WriteCSS writes the stylesheet matching the configured style. It is only
// needed when classes are emitted.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

// StyleName reports the resolved chroma style.
func (h *Highlighter) StyleName() string {
	return h.style.Name
}
