package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultSummaryLength is the summary length, in characters, used when the
// caller does not ask for a specific one.
const DefaultSummaryLength = 150

// SummaryEllipsis is appended to summaries that had to be truncated.
const SummaryEllipsis = "..."

// sentenceTerminals are the marks a truncated summary is cut back to.
const sentenceTerminals = "，。！？、.!?"

var (
	summaryHeadings   = regexp.MustCompile(`(?m)^#+\s+[^\n]+`)
	summaryCodeFences = regexp.MustCompile("```[\\s\\S]*?```")
	summaryLinks      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	summaryMarkers    = regexp.MustCompile("[#*`_]")
	summaryWhitespace = regexp.MustCompile(`\s+`)
)

// ExtractSummary derives a plain text summary from a markdown body. Headings
// and fenced code are dropped, links keep their text and emphasis markers are
// removed. Text longer than length runes is cut, trimmed back to the last
// sentence mark when there is one, and suffixed with SummaryEllipsis, so the
// result never exceeds length plus the ellipsis.
func ExtractSummary(body string, length int) string {
	if length <= 0 {
		length = DefaultSummaryLength
	}

	plain := summaryHeadings.ReplaceAllString(body, "")
	plain = summaryCodeFences.ReplaceAllString(plain, "")
	plain = summaryLinks.ReplaceAllString(plain, "$1")
	plain = summaryMarkers.ReplaceAllString(plain, "")
	plain = summaryWhitespace.ReplaceAllString(plain, " ")
	plain = strings.TrimSpace(plain)

	if utf8.RuneCountInString(plain) <= length {
		return plain
	}

	cut := string([]rune(plain)[:length])
	if idx := strings.LastIndexAny(cut, sentenceTerminals); idx >= 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ") + SummaryEllipsis
}
