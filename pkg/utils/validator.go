package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "admin", "librarian", "viewer":
			return true
		}
		return false
	})

	return v
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
