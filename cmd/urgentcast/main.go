// The urgentcast CLI runs the daily urgent-exception forecast as a batch job:
// three input CSVs in, one predictions CSV out.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"urgentcast/internal/config"
	"urgentcast/internal/dataset"
	"urgentcast/internal/forecast"
)

var (
	flagConfig     string
	flagExceptions string
	flagProductive string
	flagPredict    string
	flagOut        string
)

func main() {
	root := &cobra.Command{
		Use:   "urgentcast",
		Short: "Forecast daily urgent labor exceptions per job family",
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Train on historical CSVs and write predictions for a future period",
		RunE:  runForecast,
	}
	run.Flags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config")
	run.Flags().StringVar(&flagExceptions, "exceptions", "", "exception hours CSV (training)")
	run.Flags().StringVar(&flagProductive, "productive", "", "productive hours CSV (training)")
	run.Flags().StringVar(&flagPredict, "predict", "", "productive hours CSV for the period to predict")
	run.Flags().StringVarP(&flagOut, "out", "o", "urgent_predictions.csv", "output CSV path")
	run.MarkFlagRequired("exceptions")
	run.MarkFlagRequired("productive")
	run.MarkFlagRequired("predict")

	root.AddCommand(run)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runForecast(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	exceptions, err := dataset.ReadExceptionsFile(flagExceptions)
	if err != nil {
		return fmt.Errorf("reading exceptions: %w", err)
	}
	productive, err := dataset.ReadProductiveHoursFile(flagProductive, "productive")
	if err != nil {
		return fmt.Errorf("reading productive hours: %w", err)
	}
	productivePred, err := dataset.ReadProductiveHoursFile(flagPredict, "productive_pred")
	if err != nil {
		return fmt.Errorf("reading prediction productive hours: %w", err)
	}

	runner := forecast.NewRunner(cfg.Partitions, cfg.Training, cfg.UrgentCategories)
	result := runner.Run(exceptions, productive, productivePred)

	for _, p := range result.Partitions {
		if p.Error != "" {
			logger.Warn("partition could not be modeled",
				zap.String("job_family", p.JobFamily),
				zap.String("error", p.Error))
		} else {
			logger.Info("partition forecast complete",
				zap.String("job_family", p.JobFamily),
				zap.Int("days", len(p.Predictions)))
		}
	}
	if len(result.Predictions) == 0 {
		return fmt.Errorf("no partition produced predictions")
	}

	if dir := filepath.Dir(flagOut); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	out, err := os.Create(flagOut)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := dataset.WritePredictions(out, result.Predictions); err != nil {
		return fmt.Errorf("writing predictions: %w", err)
	}

	logger.Info("predictions written",
		zap.String("path", flagOut),
		zap.Int("rows", len(result.Predictions)))
	return nil
}
