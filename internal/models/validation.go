package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// cartDateLayouts are tried in order when reading a remote cart date.
var cartDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseCartDate parses an ISO-8601 cart date.
func ParseCartDate(value string) (time.Time, bool) {
	for _, layout := range cartDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RegisterValidations adds the `cartdate` tag to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("cartdate", func(fl validator.FieldLevel) bool {
		_, ok := ParseCartDate(fl.Field().String())
		return ok
	})
}
