package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apiinterpret "finsight/pkg/api/interpret"
	"finsight/pkg/config"
	"finsight/pkg/core/interpret"
	"finsight/pkg/core/store"
)

func main() {
	godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	configPath := os.Getenv("FINSIGHT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("config load failed")
	}

	interpreter := interpret.NewInterpreter(interpret.Options{
		DefaultTaxRate:         cfg.Analysis.DefaultTaxRate,
		MinAnnualPeriods:       cfg.Analysis.MinAnnualPeriods,
		PreferredAnnualPeriods: cfg.Analysis.PreferredAnnualPeriods,
		MaxRecommendations:     cfg.Analysis.MaxRecommendations,
	}, log.Logger)

	var repo store.ReportRepository
	if cfg.Database.URL != "" || os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background(), cfg.Database.URL); err != nil {
			log.Warn().Err(err).Msg("database unavailable, persistence disabled")
		} else {
			repo = store.NewReportRepo()
			defer store.Close()
		}
	}

	handler := apiinterpret.NewHandler(interpreter, repo, cfg.Analysis.Timeout.Std(), log.Logger)
	http.HandleFunc("/api/interpret", handler.HandleInterpret)
	http.HandleFunc("/api/reports/", handler.HandleGetReport)

	addr := ":" + cfg.Server.Port
	log.Info().
		Str("addr", addr).
		Bool("persistence", repo != nil).
		Msg("API server starting")
	log.Info().Msg("  - POST /api/interpret")
	log.Info().Msg("  - GET  /api/reports/{symbol}")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
