package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/carebridge/carebridge/internal/config"
	"github.com/carebridge/carebridge/internal/domain"
	"github.com/carebridge/carebridge/internal/infra/database"
	"github.com/carebridge/carebridge/internal/infra/repository"
	"github.com/carebridge/carebridge/internal/present/rest"
	"github.com/carebridge/carebridge/internal/service"
	"github.com/carebridge/carebridge/internal/telemetry"
	"github.com/carebridge/carebridge/internal/usecase"
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

	shutdown, err := telemetry.Setup(ctx, "auth-service", conf.Trace)
	if err != nil {
		slog.Error("failed to setup tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdown(ctx)

	db, err := database.NewPostgres(conf.Auth.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = database.MigrateAuth(db)
	if err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var ttl time.Duration
	if conf.Auth.TokenTTL != "" {
		ttl, err = time.ParseDuration(conf.Auth.TokenTTL)
		if err != nil {
			slog.Error("invalid tokenTTL", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	users := repository.NewUserRepository(db)
	tokens := service.NewTokenService(conf.Auth.JwtSecret, ttl)
	authUC := usecase.NewAuthUsecase(users, tokens)

	if conf.Auth.AdminEmail != "" {
		_, err := authUC.Register(ctx, conf.Auth.AdminEmail, conf.Auth.AdminPassword, "ADMIN")
		if err != nil && !errors.Is(err, domain.ErrConflict) {
			slog.Error("failed to seed admin user", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	h := rest.NewAuthHandler(authUC)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Trace.Enable {
		e.Use(otelecho.Middleware("auth-service"))
	}

	h.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Auth.Listen))
}
