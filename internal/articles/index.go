package articles

import (
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultFeaturedCategory is promoted to the front of category listings.
const DefaultFeaturedCategory = "frontend"

// DefaultCategoryNames maps the known category ids to their display names.
func DefaultCategoryNames() map[string]string {
	return map[string]string{
		"frontend":  "前端开发",
		"backend":   "后端开发",
		"devops":    "DevOps",
		"algorithm": "算法",
	}
}

// Index computes the category and tag aggregates of an article collection.
// It holds configuration only and is safe for concurrent use.
type Index struct {
	names    map[string]string
	featured string
}

// NewIndex builds an Index. Nil names fall back to DefaultCategoryNames.
func NewIndex(names map[string]string, featured string) *Index {
	if names == nil {
		names = DefaultCategoryNames()
	}
	copied := make(map[string]string, len(names))
	for id, name := range names {
		copied[id] = name
	}
	return &Index{names: copied, featured: featured}
}

// CategoryName returns the display name for id, or id itself when unknown.
func (x *Index) CategoryName(id string) string {
	if name, ok := x.names[id]; ok && name != "" {
		return name
	}
	return id
}

// Categories counts articles per category id in encounter order and moves
// the featured category, when present, to the front.
func (x *Index) Categories(list []*interfaces.Article) []interfaces.Category {
	order, counts := tally(list, func(article *interfaces.Article) []string {
		return article.Categories
	})

	out := make([]interfaces.Category, 0, len(order))
	for _, id := range order {
		entry := interfaces.Category{ID: id, Name: x.CategoryName(id), Count: counts[id]}
		if id == x.featured && x.featured != "" {
			out = append([]interfaces.Category{entry}, out...)
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Tags counts articles per tag in encounter order.
func (x *Index) Tags(list []*interfaces.Article) []interfaces.Tag {
	order, counts := tally(list, func(article *interfaces.Article) []string {
		return article.Tags
	})

	out := make([]interfaces.Tag, 0, len(order))
	for _, id := range order {
		out = append(out, interfaces.Tag{ID: id, Name: id, Count: counts[id]})
	}
	return out
}

func tally(list []*interfaces.Article, values func(*interfaces.Article) []string) ([]string, map[string]int) {
	var order []string
	counts := map[string]int{}
	for _, article := range list {
		if article == nil {
			continue
		}
		seen := map[string]struct{}{}
		for _, id := range values(article) {
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if _, ok := counts[id]; !ok {
				order = append(order, id)
			}
			counts[id]++
		}
	}
	return order, counts
}
