package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/zerror"
)

// Envelope is the body of every response.
type Envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	// Error is the stable error code, set only on failures.
	Error *string `json:"error,omitempty"`
}

const InternalServerErrorCode = "INTERNAL_SERVER_ERROR"

var internalServerErr = Envelope{
	Status:  http.StatusInternalServerError,
	Success: false,
	Message: "an unknown error occurred",
	Error:   ptr.New(InternalServerErrorCode),
}

func OK(status int, message string, data any) Envelope {
	return Envelope{
		Status:  status,
		Success: true,
		Message: message,
		Data:    data,
	}
}

// FromError maps err to a failure envelope. Errors that carry no code become a
// generic 500 so internal details never reach the client.
func FromError(err error) Envelope {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return Envelope{
			Status:  ZErrorStatusToHTTPStatus(zErr.Status()),
			Success: false,
			Message: zErr.Msg(),
			Error:   ptr.New(zErr.Code()),
		}
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		msgs := make([]string, len(validationErrs))
		for i, fe := range validationErrs {
			msgs[i] = fmt.Sprintf("%s: %s", fe.Field(), validator.ValidationErrorMessage(fe))
		}

		return Envelope{
			Status:  http.StatusBadRequest,
			Success: false,
			Message: strings.Join(msgs, "; "),
			Error:   ptr.New(apperr.ValidationErrorCode),
		}
	}

	if isOpenAPIRequestErr(err) {
		return Envelope{
			Status:  http.StatusBadRequest,
			Success: false,
			Message: err.Error(),
			Error:   ptr.New(apperr.ValidationErrorCode),
		}
	}

	return internalServerErr
}

// Write encodes env as JSON with env.Status as the HTTP status.
func Write(w http.ResponseWriter, env Envelope) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)

	if err := json.NewEncoder(w).Encode(env); err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return nil
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isOpenAPIRequestErr(err error) bool {
	var (
		e1 *openapi3filter.RequestError
		e2 *openapi3filter.ValidationError
	)

	return errors.As(err, &e1) || errors.As(err, &e2)
}
