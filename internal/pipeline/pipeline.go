// Package pipeline wires the load, clean, scale, train, and score
// stages into one synchronous batch run.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/mansour0303/billscan/internal/anomaly"
	"github.com/mansour0303/billscan/internal/config"
	"github.com/mansour0303/billscan/internal/dataset"
	"github.com/mansour0303/billscan/internal/net"
	"github.com/mansour0303/billscan/internal/scale"
)

// Result bundles everything a run produces.
type Result struct {
	Table   *dataset.Table
	Scaler  *scale.StandardScaler
	Model   *net.Autoencoder
	History *net.History
	Report  *anomaly.Report
}

// Run executes the full pipeline on one in-memory dataset. Every failure
// is a hard stop; there are no retries in an offline batch analysis.
func Run(cfg *config.Config, log *slog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := dataset.Load(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	log.Info("loaded dataset", "path", cfg.InputPath, "rows", table.NumRows(), "columns", len(table.Columns()))

	before := table.NumRows()
	if err := table.DropIncomplete(cfg.RequiredColumns); err != nil {
		return nil, err
	}
	log.Info("dropped incomplete rows", "dropped", before-table.NumRows(), "remaining", table.NumRows())

	if err := table.CoerceNumeric(cfg.NumericColumns); err != nil {
		return nil, err
	}
	// Fail fast on residual missing values instead of feeding NaNs into
	// training.
	if err := table.VerifyComplete(cfg.NumericColumns); err != nil {
		return nil, err
	}

	scaler := scale.NewStandardScaler()
	if err := scaler.FitTransform(table, cfg.NumericColumns); err != nil {
		return nil, err
	}
	log.Info("standardized numeric columns", "columns", len(cfg.NumericColumns))

	data, err := table.Matrix(cfg.NumericColumns)
	if err != nil {
		return nil, err
	}

	model, err := net.NewAutoencoder(len(cfg.NumericColumns), cfg.EncodingDim, cfg.LearningRate, cfg.Seed)
	if err != nil {
		return nil, err
	}

	callbacks := []net.Callback{net.EpochLogger{Log: log, Interval: 10}}
	if cfg.HistoryPath != "" {
		callbacks = append(callbacks, net.NewCSVLogger(cfg.HistoryPath))
	}

	history, err := model.Fit(data, net.FitOptions{
		Epochs:             cfg.Epochs,
		BatchSize:          cfg.BatchSize,
		ValidationFraction: cfg.ValidationFraction,
		Callbacks:          callbacks,
	})
	if err != nil {
		return nil, err
	}
	log.Info("training finished",
		"epochs", len(history.TrainLoss),
		"final_loss", history.TrainLoss[len(history.TrainLoss)-1])

	reconstructed, err := model.Predict(data)
	if err != nil {
		return nil, err
	}

	report, err := anomaly.NewReport(data, reconstructed, cfg.ThresholdMultiplier)
	if err != nil {
		return nil, err
	}
	log.Info("scoring finished",
		"run_id", report.RunID,
		"threshold", report.Threshold,
		"anomalies", report.AnomalyCount(),
		"rows", len(report.Entries))

	if cfg.ReportPath != "" {
		if err := report.WriteCSV(cfg.ReportPath); err != nil {
			return nil, err
		}
		log.Info("wrote report", "path", cfg.ReportPath)
	}
	if cfg.ModelPath != "" {
		if err := model.Save(cfg.ModelPath); err != nil {
			return nil, fmt.Errorf("pipeline: save model: %w", err)
		}
		log.Info("saved model", "path", cfg.ModelPath)
	}

	return &Result{
		Table:   table,
		Scaler:  scaler,
		Model:   model,
		History: history,
		Report:  report,
	}, nil
}
