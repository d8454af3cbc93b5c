// Command billscan flags anomalous provider-billing records by
// reconstruction error from a small autoencoder.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mansour0303/billscan/internal/config"
	"github.com/mansour0303/billscan/internal/dataset"
	"github.com/mansour0303/billscan/internal/pipeline"
)

var (
	cfgFile string
	verbose bool

	flagEncodingDim int
	flagEpochs      int
	flagBatchSize   int
	flagMultiplier  float64
	flagSeed        int64
	flagReportPath  string
	flagModelPath   string
)

var rootCmd = &cobra.Command{
	Use:   "billscan",
	Short: "Autoencoder-based anomaly detection for provider billing data",
	Long: `billscan loads a delimited provider-billing table, cleans and
standardizes its numeric columns, trains a single-hidden-layer
autoencoder, and flags rows whose reconstruction error exceeds
mean + k*stddev of the error distribution.`,
}

var detectCmd = &cobra.Command{
	Use:   "detect <input.csv>",
	Short: "Run the full pipeline and write the anomaly report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args[0])
		if err != nil {
			return err
		}

		result, err := pipeline.Run(cfg, newLogger())
		if err != nil {
			return err
		}

		fmt.Printf("run %s: %d of %d rows flagged (threshold %.6f)\n",
			result.Report.RunID, result.Report.AnomalyCount(),
			len(result.Report.Entries), result.Report.Threshold)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.csv>",
	Short: "Load and clean the dataset, then print a column summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args[0])
		if err != nil {
			return err
		}

		table, err := dataset.Load(cfg.InputPath)
		if err != nil {
			return err
		}
		loaded := table.NumRows()
		if err := table.DropIncomplete(cfg.RequiredColumns); err != nil {
			return err
		}
		if err := table.CoerceNumeric(cfg.NumericColumns); err != nil {
			return err
		}

		fmt.Printf("rows: %d loaded, %d after cleaning\n", loaded, table.NumRows())
		fmt.Printf("columns: %d total, %d numeric\n", len(table.Columns()), len(cfg.NumericColumns))
		for _, col := range cfg.NumericColumns {
			missing := 0
			for r := 0; r < table.NumRows(); r++ {
				v, err := table.Cell(r, col)
				if err != nil {
					return err
				}
				if v.Missing {
					missing++
				}
			}
			fmt.Printf("  %-60s unparseable: %d\n", col, missing)
		}
		return nil
	},
}

func loadConfig(cmd *cobra.Command, inputPath string) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg.InputPath = inputPath

	// Flags override config file and env values when set.
	f := cmd.Flags()
	if f.Changed("encoding-dim") {
		cfg.EncodingDim = flagEncodingDim
	}
	if f.Changed("epochs") {
		cfg.Epochs = flagEpochs
	}
	if f.Changed("batch-size") {
		cfg.BatchSize = flagBatchSize
	}
	if f.Changed("multiplier") {
		cfg.ThresholdMultiplier = flagMultiplier
	}
	if f.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if f.Changed("report") {
		cfg.ReportPath = flagReportPath
	}
	if f.Changed("model") {
		cfg.ModelPath = flagModelPath
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	detectCmd.Flags().IntVar(&flagEncodingDim, "encoding-dim", 0, "width of the compressed representation (overrides config)")
	detectCmd.Flags().IntVar(&flagEpochs, "epochs", 0, "training epochs (overrides config)")
	detectCmd.Flags().IntVar(&flagBatchSize, "batch-size", 0, "minibatch size (overrides config)")
	detectCmd.Flags().Float64Var(&flagMultiplier, "multiplier", 0, "threshold stddev multiplier (overrides config)")
	detectCmd.Flags().Int64Var(&flagSeed, "seed", 0, "random seed for reproducible runs (overrides config)")
	detectCmd.Flags().StringVar(&flagReportPath, "report", "", "report CSV output path (overrides config)")
	detectCmd.Flags().StringVar(&flagModelPath, "model", "", "save trained model to this path (overrides config)")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
