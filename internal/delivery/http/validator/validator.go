// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	domainerrors "knowledgeos/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator instance for echo.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates a CustomValidator with struct tag validation enabled.
func New() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Failures surface as the domain
// validation error so the error handler maps them to a 400.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	return nil
}
