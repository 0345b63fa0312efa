package posts

import (
	"reflect"
	"regexp"
	"testing"
)

var labelCharset = regexp.MustCompile(`^[a-z0-9._~-]+$`)

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"Go":            "go",
		"web dev":       "web-20dev",
		"C++":           "c-2b-2b",
		"Hello, World!": "hello-2c-20world-21",
		"前端":            "-e5-89-8d-e7-ab-af",
		"  spaced  ":    "spaced",
		"":              "",
	}
	for input, want := range cases {
		got := NormalizeLabel(input)
		if got != want {
			t.Fatalf("NormalizeLabel(%q) = %q, want %q", input, got, want)
		}
		if got != "" && !labelCharset.MatchString(got) {
			t.Fatalf("NormalizeLabel(%q) produced disallowed characters: %q", input, got)
		}
		if again := NormalizeLabel(input); again != got {
			t.Fatalf("NormalizeLabel(%q) not deterministic: %q vs %q", input, got, again)
		}
	}
}

func TestLabels_DedupesAndDropsEmpty(t *testing.T) {
	got := Labels([]string{"frontend", "Frontend", ""}, []string{"go", "  ", "web dev", "go"})

	want := []string{"frontend", "go", "web-20dev"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Labels = %v, want %v", got, want)
	}
}
