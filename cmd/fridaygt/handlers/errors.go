package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {"error": reason, "message": text}. Internal failures never leak their cause.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := classify(err)
		l := logger.FromContext(c.Request().Context(), log)
		if status >= http.StatusInternalServerError {
			l.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"reason", body.Error,
				"error", err)
		} else {
			l.Debug("request rejected",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"reason", body.Error,
				"error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			l.Error("failed to write error response", "error", err)
		}
	}
}

func classify(err error) (int, models.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		reason := strings.ReplaceAll(strings.ToLower(http.StatusText(he.Code)), " ", "_")
		switch he.Code {
		case http.StatusBadRequest, http.StatusUnsupportedMediaType:
			reason = ordering.ReasonInvalidBody
		case http.StatusNotFound:
			reason = ordering.ReasonNotFound
		}
		return he.Code, models.ErrorResponse{Error: reason, Message: fmt.Sprint(he.Message)}
	}

	kind := ordering.KindOf(err)
	return ordering.StatusCode(kind), models.ErrorResponse{
		Error:   ordering.ReasonOf(err),
		Message: ordering.MessageOf(err),
	}
}
