package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "borrow-system/pkg/errors"
)

type HttpResponse struct {
	Status     bool        `json:"status"`
	Body       interface{} `json:"body,omitempty"`
	Message    string      `json:"message"`
	TotalCount *uint64     `json:"total_count,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, totalCount ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(totalCount) > 0 {
		response.TotalCount = &totalCount[0]
	}
	return ctx.JSON(code, response)
}

var errorStatusList = map[error]int{
	apperrors.ErrNotFound:                 http.StatusNotFound,
	apperrors.ErrBadRequest:               http.StatusBadRequest,
	apperrors.ErrUnauthorized:             http.StatusUnauthorized,
	apperrors.ErrForbidden:                http.StatusForbidden,
	apperrors.ErrInvalidCredentials:       http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:          http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:        http.StatusUnauthorized,
	apperrors.ErrInvalidToken:             http.StatusUnauthorized,
	apperrors.ErrTokenExpired:             http.StatusUnauthorized,
	apperrors.ErrTokenNotYetValid:         http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:         http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:        http.StatusUnauthorized,
	apperrors.ErrActorNotFoundInContext:   http.StatusUnauthorized,
	apperrors.ErrIllegalTransition:        http.StatusConflict,
	apperrors.ErrInsufficientAvailability: http.StatusConflict,
}

func ErrorResponse(ctx echo.Context, err error) error {
	message := err.Error()
	code := http.StatusInternalServerError

	var httpErr *apperrors.HttpError
	var inputErr *apperrors.InvalidInputError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &inputErr):
		code = http.StatusBadRequest
		message = inputErr.Message
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if m, ok := echoErr.Message.(string); ok {
			message = m
		}
	default:
		for sentinel, statusCode := range errorStatusList {
			if errors.Is(err, sentinel) {
				code = statusCode
				break
			}
		}
	}

	response := &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	}
	return ctx.JSON(code, response)
}
