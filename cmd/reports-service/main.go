package main

import (
	"fmt"
	"os"

	"github.com/dialaride/reports-service/internal/auth"
	"github.com/dialaride/reports-service/internal/config"
	"github.com/dialaride/reports-service/internal/db"
	"github.com/dialaride/reports-service/internal/excel"
	httphandler "github.com/dialaride/reports-service/internal/http"
	"github.com/dialaride/reports-service/internal/http/middleware"
	"github.com/dialaride/reports-service/internal/logger"
	"github.com/dialaride/reports-service/internal/pdf"
	"github.com/dialaride/reports-service/internal/repository"
	"github.com/dialaride/reports-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	reportRepo := repository.NewReportRepository(database, cfg.Reports.TripStatuses)
	reportService := service.NewReportService(reportRepo, excel.NewGenerator(), pdf.NewGenerator(), cfg)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(reportService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting reports service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
