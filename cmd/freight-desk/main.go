package main

import (
	"fmt"
	"os"

	"github.com/nurpe/freight-desk/internal/auth"
	"github.com/nurpe/freight-desk/internal/backend"
	"github.com/nurpe/freight-desk/internal/config"
	"github.com/nurpe/freight-desk/internal/db"
	"github.com/nurpe/freight-desk/internal/excel"
	"github.com/nurpe/freight-desk/internal/form"
	httphandler "github.com/nurpe/freight-desk/internal/http"
	"github.com/nurpe/freight-desk/internal/http/middleware"
	"github.com/nurpe/freight-desk/internal/logger"
	"github.com/nurpe/freight-desk/internal/metrics"
	"github.com/nurpe/freight-desk/internal/pdf"
	"github.com/nurpe/freight-desk/internal/repository"
	"github.com/nurpe/freight-desk/internal/service"
	"github.com/nurpe/freight-desk/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err := httphandler.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	orderRepo := repository.NewOrderRepository(database)
	quoteRepo := repository.NewQuoteRepository(database)
	exportRepo := repository.NewExportRepository(database)

	appMetrics := metrics.New()
	forms := form.NewRegistry(nil)
	backendClient := backend.NewClient(cfg.Backend, log)

	services := httphandler.Services{
		Orders: service.NewOrderService(orderRepo, backendClient, forms, appMetrics, log),
		Quotes: service.NewQuoteService(orderRepo, quoteRepo, backendClient, forms, appMetrics, cfg, log),
		Forms:  service.NewFormService(forms, appMetrics),
		Stats:  service.NewStatsService(orderRepo, quoteRepo),
		Exports: service.NewExportService(service.ExportServiceDeps{
			Orders:   orderRepo,
			Quotes:   quoteRepo,
			Logs:     exportRepo,
			Excel:    excel.NewGenerator(),
			PDF:      pdf.NewGenerator(),
			Observer: appMetrics,
		}, cfg, log),
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(services, session.NewGate(nil), appMetrics, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg, appMetrics, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting freight desk")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
