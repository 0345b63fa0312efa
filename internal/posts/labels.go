package posts

import (
	"net/url"
	"strings"
)

// NormalizeLabel maps an arbitrary category or tag onto the label charset:
// percent-encode, replace '%' with '-', lowercase.
func NormalizeLabel(value string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(value)), "+", "%20")
	return strings.ToLower(strings.ReplaceAll(encoded, "%", "-"))
}

// Labels combines categories and tags into normalized labels, dropping empty
// values and duplicates while keeping first occurrence order.
func Labels(categories, tags []string) []string {
	out := make([]string, 0, len(categories)+len(tags))
	seen := make(map[string]struct{}, cap(out))
	for _, group := range [][]string{categories, tags} {
		for _, value := range group {
			label := NormalizeLabel(value)
			if label == "" {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
		}
	}
	return out
}
