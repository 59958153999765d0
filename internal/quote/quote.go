// Package quote defines the quote record, its normalization and validation rules,
// the identity keys used to detect duplicates, and the error taxonomy shared by
// the rest of quoted.
package quote

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/text/unicode/norm"
)

// Quote is a single text record and the category it is filed under.
type Quote struct {
	Text     string `json:"text" yaml:"text" toml:"text" validate:"required"`
	Category string `json:"category" yaml:"category" toml:"category" validate:"required"`
}

var validate = validator.New()

// New normalizes text and category and validates the result.
func New(text, category string) (Quote, error) {
	q := Normalize(Quote{Text: text, Category: category})
	if err := Validate(q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

// Normalize trims surrounding whitespace and applies NFC so that visually equal
// strings compare equal.
func Normalize(q Quote) Quote {
	return Quote{
		Text:     norm.NFC.String(strings.TrimSpace(q.Text)),
		Category: norm.NFC.String(strings.TrimSpace(q.Category)),
	}
}

// Validate reports ErrValidation when either field is empty after trimming.
func Validate(q Quote) error {
	trimmed := Quote{Text: strings.TrimSpace(q.Text), Category: strings.TrimSpace(q.Category)}
	if err := validate.Struct(trimmed); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
		}
		return goerr.Wrap(ErrValidation, "quote text and category are required",
			goerr.V("fields", fields))
	}
	return nil
}

// Defaults returns the seed set used when nothing has been persisted yet.
func Defaults() []Quote {
	return []Quote{
		{Text: "The best way to predict the future is to invent it.", Category: "Inspiration"},
		{Text: "Life is 10% what happens to us and 90% how we react to it.", Category: "Life"},
		{Text: "Do not take life too seriously. You will never get out of it alive.", Category: "Humor"},
	}
}

// Clone returns an independent copy of quotes.
func Clone(quotes []Quote) []Quote {
	if len(quotes) == 0 {
		return nil
	}
	dup := make([]Quote, len(quotes))
	copy(dup, quotes)
	return dup
}
