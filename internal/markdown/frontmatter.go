package markdown

import (
	"bytes"
	"errors"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

// Metadata holds the key/value pairs found in an article header. Values are
// either string scalars or []string lists; unrecognised keys are retained.
type Metadata map[string]any

// String returns the scalar stored under key.
func (m Metadata) String(key string) (string, bool) {
	value, ok := m[key].(string)
	return value, ok
}

// List returns the list stored under key.
func (m Metadata) List(key string) ([]string, bool) {
	value, ok := m[key].([]string)
	return value, ok
}

// First returns the first scalar found under any of the supplied keys.
func (m Metadata) First(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := m.String(key); ok {
			return value, true
		}
	}
	return "", false
}

var (
	// headerPattern anchors the header at the very start of the source and
	// requires the closing delimiter; without it no header is recognised.
	headerPattern  = regexp.MustCompile(`^---[ \t]*\r?\n([\s\S]*?)\r?\n---[ \t]*(?:\r?\n|$)`)
	leadingHeading = regexp.MustCompile(`(?m)^#+[ \t]+.*$`)

	headerFormat = frontmatter.NewFormat("---", "---", unmarshalHeader)

	errHeaderTarget = errors.New("markdown: header target must be *Metadata")
)

// ExtractMetadata splits an article source into its header metadata and
// markdown body. Sources without a complete header yield empty metadata and
// the trimmed source as content. When a header is present, the first
// markdown heading line of the body is dropped since the title lives in the
// metadata.
func ExtractMetadata(source []byte) (Metadata, string) {
	match := headerPattern.FindSubmatch(source)
	if match == nil {
		return Metadata{}, strings.TrimSpace(string(source))
	}

	meta := Metadata{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, headerFormat)
	if err != nil || bytes.HasPrefix(bytes.TrimSpace(body), []byte("---")) {
		// frontmatter disagreed with the anchored match; trust the match
		meta = parseHeader(string(match[1]))
		body = source[len(match[0]):]
	}

	content := strings.TrimSpace(string(body))
	if loc := leadingHeading.FindStringIndex(content); loc != nil {
		content = content[:loc[0]] + content[loc[1]:]
	}
	return meta, strings.TrimSpace(content)
}

func unmarshalHeader(data []byte, v any) error {
	target, ok := v.(*Metadata)
	if !ok || target == nil {
		return errHeaderTarget
	}
	*target = parseHeader(string(data))
	return nil
}

// parseHeader reads `key: value` lines. Lines without a colon are skipped,
// `[a, "b"]` values become lists and malformed lists become empty lists.
func parseHeader(block string) Metadata {
	meta := Metadata{}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" || key == "---" {
			continue
		}
		value = unquote(strings.TrimSpace(value))

		if strings.HasPrefix(value, "[") {
			meta[key] = parseList(value)
			continue
		}
		meta[key] = value
	}
	return meta
}

func parseList(value string) []string {
	if len(value) < 2 || !strings.HasPrefix(value, "[") || !strings.HasSuffix(value, "]") {
		return []string{}
	}
	inner := value[1 : len(value)-1]
	if strings.ContainsAny(inner, "[]") {
		return []string{}
	}

	items := []string{}
	for _, item := range strings.Split(inner, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, unquote(item))
	}
	return items
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}
