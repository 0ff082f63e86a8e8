package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a validator with the notblank tag registered
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("notblank", notBlank)
	return &CustomValidator{v: v}
}

// Validate checks i and folds field failures into one error
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid request: %s", strings.Join(fields, ", "))
}

// notBlank rejects strings made only of whitespace
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
