package interfaces

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Parser instances are reusable across goroutines.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// Highlighter turns a fenced code block into highlighted HTML markup. The
// returned markup is inserted verbatim inside <pre><code>, so implementations
// must escape the code they do not decorate. An empty or unknown language
// hint is a request for automatic detection; failure to detect returns the
// escaped code unchanged.
type Highlighter interface {
	Highlight(code, language string) string
}
