package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/auth"
	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/importer"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres/repository"
	"github.com/aliskhannn/brain-recall/internal/service"
)

var errStatus = []struct {
	err    error
	status int
}{
	{repository.ErrTopicNotFound, http.StatusNotFound},
	{repository.ErrQuestionNotFound, http.StatusNotFound},
	{repository.ErrUserNotFound, http.StatusNotFound},
	{service.ErrThemeNotFound, http.StatusNotFound},
	{repository.ErrEmailTaken, http.StatusConflict},
	{repository.ErrTelegramChatTaken, http.StatusConflict},
	{entities.ErrAlreadyAnswered, http.StatusConflict},
	{service.ErrQuestionInactive, http.StatusConflict},
	{service.ErrReviewLocked, http.StatusForbidden},
	{service.ErrResetDisabled, http.StatusForbidden},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrValidation, http.StatusUnprocessableEntity},
	{entities.ErrInvalidOption, http.StatusUnprocessableEntity},
	{entities.ErrInvalidOptions, http.StatusUnprocessableEntity},
	{importer.ErrUnsupportedFormat, http.StatusUnprocessableEntity},
	{service.ErrGeneratorUnavailable, http.StatusServiceUnavailable},
}

// errorHandler writes every error as {"detail": ...}. Unknown errors are
// logged and hidden behind a generic message.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, detail := http.StatusInternalServerError, "internal server error"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				detail = msg
			} else {
				detail = http.StatusText(status)
			}
		default:
			matched := false
			for _, m := range errStatus {
				if errors.Is(err, m.err) {
					status, detail, matched = m.status, err.Error(), true
					break
				}
			}
			if !matched {
				logger.Error("request failed",
					zap.String("method", c.Request().Method),
					zap.String("path", c.Path()),
					zap.Error(err),
				)
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, errorResponse{Detail: detail})
		}
		if writeErr != nil {
			logger.Error("write error response", zap.Error(writeErr))
		}
	}
}
