package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/carebridge/carebridge/internal/config"
	"github.com/carebridge/carebridge/internal/infra/gateway"
	authmw "github.com/carebridge/carebridge/internal/present/rest/middleware"
	"github.com/carebridge/carebridge/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, "api-gateway", conf.Trace)
	if err != nil {
		slog.Error("failed to setup tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdown(ctx)

	authTarget, err := url.Parse(conf.Gateway.AuthURL)
	if err != nil {
		slog.Error("invalid authUrl", slog.String("error", err.Error()))
		os.Exit(1)
	}
	patientTarget, err := url.Parse(conf.Gateway.PatientURL)
	if err != nil {
		slog.Error("invalid patientUrl", slog.String("error", err.Error()))
		os.Exit(1)
	}

	introspector := gateway.NewIntrospectionClient(conf.Gateway.AuthURL)
	auth := authmw.NewAuthMiddleware(introspector)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Trace.Enable {
		e.Use(otelecho.Middleware("api-gateway"))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// login and validate pass through without the gate; everything else
	// pays one introspection round trip before it is forwarded
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{
			{URL: authTarget},
		}),
		Rewrite: map[string]string{
			"/auth/*": "/$1",
		},
	}))

	patients := e.Group("/patients")
	patients.Use(auth.RequireValidToken)
	patients.Use(middleware.Proxy(middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{
		{URL: patientTarget},
	})))

	e.Logger.Fatal(e.Start(conf.Gateway.Listen))
}
