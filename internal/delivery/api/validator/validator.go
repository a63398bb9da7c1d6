// Package validator adapts go-playground/validator to echo.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// New returns a validator with the shop's custom tags registered.
func New() echo.Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterTags(v)

	return &CustomValidator{validator: v}
}

// Validate runs struct tag validation.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// RegisterTags adds the shop-specific validation tags.
func RegisterTags(v *validator.Validate) {
	// indian_phone accepts 10 digits with or without the +91 prefix.
	_ = v.RegisterValidation("indian_phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) == 13 && s[:3] == "+91" {
			s = s[3:]
		}
		if len(s) != 10 {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}

		return true
	})
}
