package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebridge/carebridge"
)

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error  string                      `json:"error"`
	Fields carebridge.ValidationErrors `json:"fields"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func BadRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// ValidationFailed reports every rejected field to the caller.
func ValidationFailed(c echo.Context, errs carebridge.ValidationErrors) error {
	return c.JSON(http.StatusBadRequest, validationResponse{
		Error:  "validation failed",
		Fields: errs,
	})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func Conflict(c echo.Context, err error) error {
	return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
}

// Unauthorized terminates the request with an empty body. All rejection
// causes look identical to the caller.
func Unauthorized(c echo.Context) error {
	return c.NoContent(http.StatusUnauthorized)
}

func InternalError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
