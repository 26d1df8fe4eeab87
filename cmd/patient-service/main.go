package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/carebridge/carebridge/internal/config"
	"github.com/carebridge/carebridge/internal/infra/database"
	"github.com/carebridge/carebridge/internal/infra/gateway"
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

	shutdown, err := telemetry.Setup(ctx, "patient-service", conf.Trace)
	if err != nil {
		slog.Error("failed to setup tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdown(ctx)

	db, err := database.NewPostgres(conf.Patient.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = database.MigratePatient(db)
	if err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Patient.RedisAddr, conf.Patient.RedisDB)

	var mc *memcache.Client
	if conf.Patient.MemcachedAddr != "" {
		mc = database.NewMemcached(conf.Patient.MemcachedAddr)
	}

	patientRepo := repository.NewPatientRepository(db, mc)
	billing := gateway.NewBillingClient(conf.Patient.BillingURL)
	signal := service.NewSignalService(rdb, conf.Patient.EventChannel)

	patientUC := usecase.NewPatientUsecase(patientRepo, billing, signal)

	h := rest.NewHandler(patientUC, signal)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Trace.Enable {
		e.Use(otelecho.Middleware("patient-service"))
	}

	h.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Patient.Listen))
}
