package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"loanlens/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct tag validation and folds failures into
// domain.ErrValidation with a readable field list.
func validateInput(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(parts, "; "))
}
