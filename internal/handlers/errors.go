package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const serverErrorMessage = "Server error"

// NewHTTPErrorHandler renders every failure as {success:false, message}.
// Causes of 5xx responses are logged and never sent to the client.
func NewHTTPErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := serverErrorMessage
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if code < http.StatusInternalServerError {
				message = fmt.Sprint(he.Message)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).Error("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, echo.Map{"success": false, "message": message})
		}
		if werr != nil {
			logger.WithError(werr).Warn("failed to write error response")
		}
	}
}

// serverError hides err behind a generic 500 while keeping it for the log
func serverError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, serverErrorMessage).SetInternal(err)
}

// lookupError maps repositories.ErrNotFound onto a 404 carrying notFound
func lookupError(err error, notFound string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return serverError(err)
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

// bindAndValidate binds the request into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("Invalid request payload")
	}
	return c.Validate(req)
}
