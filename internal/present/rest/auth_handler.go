package rest

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carebridge/carebridge"
	"github.com/carebridge/carebridge/internal/present/rest/presenter"
	"github.com/carebridge/carebridge/internal/usecase"
)

// AuthHandler exposes the auth service's two operations: credential
// login and bearer-token validation.
type AuthHandler struct {
	auth *usecase.AuthUsecase
}

func NewAuthHandler(auth *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.handleHealth)
	e.POST("/login", h.handleLogin)
	e.GET("/validate", h.handleValidate)
}

func (h *AuthHandler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *AuthHandler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req carebridge.LoginRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	if errs := req.Validate(); errs != nil {
		return presenter.ValidationFailed(c, errs)
	}

	token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		// wrong password and unknown user are indistinguishable
		return presenter.Unauthorized(c)
	}

	return presenter.OK(c, carebridge.LoginResponse{Token: token})
}

func (h *AuthHandler) handleValidate(c echo.Context) error {
	ctx := c.Request().Context()

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return presenter.Unauthorized(c)
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if err := h.auth.Validate(ctx, token); err != nil {
		return presenter.Unauthorized(c)
	}

	return presenter.OK(c, echo.Map{"status": "valid"})
}
