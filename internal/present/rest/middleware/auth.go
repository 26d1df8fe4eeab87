package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/carebridge/carebridge/internal/present/rest/presenter"
)

var tracer = otel.Tracer("auth")

// Introspector validates a bearer token by delegation. The gate never
// inspects the token locally and never caches the outcome.
type Introspector interface {
	Validate(ctx context.Context, authHeader string) error
}

type AuthMiddleware struct {
	introspector Introspector
}

func NewAuthMiddleware(introspector Introspector) *AuthMiddleware {
	return &AuthMiddleware{
		introspector: introspector,
	}
}

// RequireValidToken gates the chain behind one introspection round trip.
// Missing or malformed headers are rejected locally with no remote call;
// every remote outcome short of success is the same 401, so callers
// cannot tell an invalid token from an unreachable auth service.
func (s *AuthMiddleware) RequireValidToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireValidToken")
		defer span.End()

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)

		if !strings.HasPrefix(authHeader, "Bearer ") {
			span.RecordError(fmt.Errorf("missing or malformed authorization header"))
			return presenter.Unauthorized(c)
		}

		if err := s.introspector.Validate(ctx, authHeader); err != nil {
			span.RecordError(errors.Wrap(err, "AuthMiddleware.RequireValidToken: introspection failed"))
			return presenter.Unauthorized(c)
		}

		// hand the request on untouched; downstream owns any identity
		// extraction beyond validity
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
