package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nguyentranbao-ct/storefront/internal/models"
)

type Validator struct {
	validate *validator.Validate
}

// NewValidator names fields after their json, param, query or header tag and
// knows the cart date format.
func NewValidator() *Validator {
	validate := validator.New()

	commonTags := []string{
		"json",
		"param",
		"query",
		"header",
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range commonTags {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})

	if err := models.RegisterValidations(validate); err != nil {
		panic(err)
	}

	return &Validator{
		validate: validate,
	}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// FormatValidationError renders validator failures as "field: rule" pairs.
// Other errors keep their message.
func FormatValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field(), rule)
	}
	return strings.Join(msgs, "; ")
}
