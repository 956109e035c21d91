package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"
)

// statusForCode maps the error taxonomy onto HTTP status codes. Client-side
// game-rule failures (validation, eligibility, funds, no route) are all 400:
// the response body's error code tells the client which rule fired.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeRequirementsNotMet,
		apperrors.ErrCodeInsufficientFunds,
		apperrors.ErrCodeNoRoute:
		return http.StatusBadRequest
	case apperrors.ErrCodeAccessDenied:
		return http.StatusForbidden
	case apperrors.ErrCodeTimeout, apperrors.ErrCodeCanceled:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError renders a taxonomy error. Anything outside the taxonomy is a
// 500 with a generic body; the details go to the log, never to the client.
func WriteAppError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		if logger != nil {
			logger.ErrorContext(r.Context(), "unexpected handler error",
				"method", r.Method, "path", r.URL.Path, "err", err)
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: string(apperrors.ErrCodeInternal),
			Err:     errors.New("internal server error"),
		})
		return
	}

	status := statusForCode(appErr.Code)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.ErrorContext(r.Context(), "handler error",
			"method", r.Method, "path", r.URL.Path, "code", appErr.Code, "err", err)
	}

	body := map[string]string{
		"error":   string(appErr.Code),
		"message": appErr.Message,
	}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	WriteJSON(w, status, body)
}
