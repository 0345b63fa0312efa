package articles

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeArticleNotFound  = "ARTICLE_NOT_FOUND"
	textCodeCategoryNotFound = "CATEGORY_NOT_FOUND"
	textCodeTagNotFound      = "TAG_NOT_FOUND"
)

// NotFoundError is returned when an article, category or tag id is unknown.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func notFound(resource, key, textCode string) error {
	nf := &NotFoundError{Resource: resource, Key: key}
	return goerrors.Wrap(nf, goerrors.CategoryNotFound, nf.Error()).WithTextCode(textCode)
}
