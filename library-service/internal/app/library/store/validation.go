package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	minRating = 0
	maxRating = 5
)

func newValidator() *validator.Validate {
	// Без WithRequiredStructEnabled тег required не проверяет time.Time
	return validator.New(validator.WithRequiredStructEnabled())
}

func (s *EntityStore) validateDraft(draft any) error {
	if err := s.validate.Struct(draft); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "validation failed"
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		msg := fieldError.Field() + " is " + fieldError.Tag()
		if fieldError.Param() != "" {
			msg += "=" + fieldError.Param()
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, ", ")
}
