package posts

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ValidateInput ensures a post carries a title.
func ValidateInput(input interfaces.PostInput) error {
	input.Title = strings.TrimSpace(input.Title)
	return validation.ValidateStruct(&input,
		validation.Field(&input.Title, validation.Required.Error("title is required")),
	)
}

// ValidateID ensures an upstream issue number is positive.
func ValidateID(id int) error {
	return validation.Validate(id, validation.Required.Error("id is required"), validation.Min(1).Error("id must be positive"))
}
