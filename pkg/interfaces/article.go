package interfaces

import (
	"context"
	"time"
)

// Article is an immutable snapshot derived from a single markdown source.
// HTML is a pure function of Content and Summary is never empty.
type Article struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Date       time.Time      `json:"date"`
	Author     string         `json:"author,omitempty"`
	Category   string         `json:"category"`
	Categories []string       `json:"categories"`
	Tags       []string       `json:"tags"`
	ReadTime   string         `json:"readTime"`
	Summary    string         `json:"summary"`
	Content    string         `json:"content"`
	HTML       string         `json:"html"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// HasCategory reports whether the article lists the supplied category id.
func (a *Article) HasCategory(id string) bool {
	if a == nil {
		return false
	}
	for _, category := range a.Categories {
		if category == id {
			return true
		}
	}
	return false
}

// HasTag reports whether the article carries the supplied tag.
func (a *Article) HasTag(tag string) bool {
	if a == nil {
		return false
	}
	for _, candidate := range a.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}

// Category is a derived aggregate counting the articles that reference it.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryDetail pairs a category aggregate with its articles.
type CategoryDetail struct {
	Category
	Articles []*Article `json:"articles"`
}

// Tag is a derived aggregate counting the articles that carry it.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagDetail pairs a tag aggregate with its articles.
type TagDetail struct {
	Tag
	Articles []*Article `json:"articles"`
}

// ArticleReader exposes the read side of the article collection.
type ArticleReader interface {
	List(ctx context.Context) ([]*Article, error)
	Get(ctx context.Context, id string) (*Article, error)
	ByCategory(ctx context.Context, id string) ([]*Article, error)
	ByTag(ctx context.Context, tag string) ([]*Article, error)
	Categories(ctx context.Context) ([]Category, error)
	Category(ctx context.Context, id string) (*CategoryDetail, error)
	Tags(ctx context.Context) ([]Tag, error)
	Tag(ctx context.Context, id string) (*TagDetail, error)
}
