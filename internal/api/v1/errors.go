package v1

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/aicrm/internal/dispatch"
	"github.com/gosuda/aicrm/internal/domain"
)

// validationError maps a domain.FieldError to a 422 pointing at the field.
func validationError(err error) error {
	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		return huma.Error422UnprocessableEntity(err.Error())
	}

	detail := &huma.ErrorDetail{
		Message:  fe.Reason,
		Location: "body." + fe.Field,
	}
	if fe.Value != "" {
		detail.Value = fe.Value
	}
	return huma.Error422UnprocessableEntity("validation failed", detail)
}

// internalError logs the cause and returns a 500 that carries only the
// stable internal code.
func internalError(op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("api: request failed")
	return huma.Error500InternalServerError(dispatch.ErrCodeInternal)
}
