package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/geotag_api/internal/apperr"
	"github.com/Skotchmaster/geotag_api/internal/logging"
	"github.com/Skotchmaster/geotag_api/internal/middleware/auth"
)

const (
	MsgForbidden        = "Forbidden"
	MsgMethodNotAllowed = "Method Not Allowed"
)

// ErrorHandler renders every error as {"message": ...}. Taxonomy errors keep
// their own status and message; framework errors get the generic bodies.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := render(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", werr)
	}
}

func render(err error) (int, map[string]any) {
	if ae, ok := apperr.As(err); ok {
		return ae.Status, ae.Body()
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return he.Code, message(auth.MsgPageNotFound)
		case http.StatusForbidden:
			return he.Code, message(MsgForbidden)
		case http.StatusMethodNotAllowed:
			return he.Code, message(MsgMethodNotAllowed)
		}
		if he.Code >= http.StatusInternalServerError {
			return http.StatusInternalServerError, message(apperr.MsgInternal)
		}
		if msg, ok := he.Message.(string); ok {
			return he.Code, message(msg)
		}
		return he.Code, message(http.StatusText(he.Code))
	}

	return http.StatusInternalServerError, message(apperr.MsgInternal)
}

func message(msg string) map[string]any {
	return map[string]any{"message": msg}
}
