package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"forecastbot/internal/types"
)

// wrapValidation converts validator failures into AppErrors so missing
// fields surface as 400s with field names instead of opaque 500s.
func wrapValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "request validation failed", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return types.NewAppErrorWithDetails(
		types.ErrCodeValidationMissingField,
		fmt.Sprintf("missing or invalid field(s): %s", strings.Join(fields, ", ")),
		err,
		map[string]any{"fields": fields},
	)
}
