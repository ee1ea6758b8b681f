package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"finsight/pkg/config"
	"finsight/pkg/core/interpret"
	"finsight/pkg/core/store"
	"finsight/pkg/models"
)

func main() {
	var (
		jsonOut    bool
		save       bool
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:           "finsight",
		Short:         "Plain-language interpretation of company financial statements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <statements.json>",
		Short: "Analyze a statements file and print the interpretation",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly 1 statements JSON file argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			godotenv.Load()
			viper.AutomaticEnv()

			logger := zerolog.Nop()
			if viper.GetBool("VERBOSE") {
				logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			statements, err := loadStatements(args[0])
			if err != nil {
				return err
			}

			interpreter := interpret.NewInterpreter(interpret.Options{
				DefaultTaxRate:         cfg.Analysis.DefaultTaxRate,
				MinAnnualPeriods:       cfg.Analysis.MinAnnualPeriods,
				PreferredAnnualPeriods: cfg.Analysis.PreferredAnnualPeriods,
				MaxRecommendations:     cfg.Analysis.MaxRecommendations,
			}, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Analysis.Timeout.Std())
			defer cancel()

			report, err := interpreter.Interpret(ctx, statements)
			if err != nil {
				return err
			}

			if save {
				if err := store.InitDB(ctx, cfg.Database.URL); err != nil {
					return fmt.Errorf("save requested but database unavailable: %w", err)
				}
				defer store.Close()
				if err := store.NewReportRepo().Save(ctx, report); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Saved report %s for %s\n", report.ID, report.Symbol)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			renderReport(os.Stdout, report)
			return nil
		},
	}

	analyzeCmd.Flags().BoolVar(&jsonOut, "json", false, "print the full report as JSON")
	analyzeCmd.Flags().BoolVar(&save, "save", false, "persist the report to the database")
	analyzeCmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the config file")
	rootCmd.AddCommand(analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadStatements(path string) (*models.FinancialStatements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var statements models.FinancialStatements
	if err := json.Unmarshal(data, &statements); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &statements, nil
}
