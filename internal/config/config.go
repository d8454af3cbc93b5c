// Package config holds the tunable settings for a scoring run.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config collects every knob of the pipeline. All hyperparameters are
// configuration, not constants in the code that uses them.
type Config struct {
	// InputPath is the delimited provider-billing file to score.
	InputPath string `mapstructure:"input_path" yaml:"input_path"`

	// RequiredColumns: rows missing a value in any of these are dropped.
	RequiredColumns []string `mapstructure:"required_columns" yaml:"required_columns"`
	// NumericColumns are coerced to float64 and standardized; they form
	// the model input, in this order.
	NumericColumns []string `mapstructure:"numeric_columns" yaml:"numeric_columns"`

	// EncodingDim compresses input to this width before reconstruction.
	EncodingDim int `mapstructure:"encoding_dim" yaml:"encoding_dim"`
	// Epochs is the number of passes over the training rows.
	Epochs int `mapstructure:"epochs" yaml:"epochs"`
	// BatchSize is the minibatch size during training.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
	// LearningRate for the Adam optimizer.
	LearningRate float64 `mapstructure:"learning_rate" yaml:"learning_rate"`
	// ValidationFraction of rows held out for loss monitoring only.
	ValidationFraction float64 `mapstructure:"validation_fraction" yaml:"validation_fraction"`
	// ThresholdMultiplier scales the error stddev above the mean to set
	// the anomaly cutoff.
	ThresholdMultiplier float64 `mapstructure:"threshold_multiplier" yaml:"threshold_multiplier"`
	// Seed fixes weight initialization and shuffling for reproducible runs.
	Seed int64 `mapstructure:"seed" yaml:"seed"`

	// ReportPath receives the per-row error CSV.
	ReportPath string `mapstructure:"report_path" yaml:"report_path"`
	// ModelPath, when set, receives the trained model (gob).
	ModelPath string `mapstructure:"model_path" yaml:"model_path"`
	// HistoryPath, when set, receives per-epoch training losses (CSV).
	HistoryPath string `mapstructure:"history_path" yaml:"history_path"`
}

// cmsNumericColumns is the default schema: the seven utilization and
// payment columns of the CMS provider-utilization extract. The raw file
// carries them as text with thousands separators.
var cmsNumericColumns = []string{
	"Number of Services",
	"Number of Medicare Beneficiaries",
	"Number of Distinct Medicare Beneficiary/Per Day Services",
	"Average Medicare Allowed Amount",
	"Average Submitted Charge Amount",
	"Average Medicare Payment Amount",
	"Average Medicare Standardized Amount",
}

// Load reads configuration from file, env, and defaults.
// Precedence: env (BILLSCAN_*) > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BILLSCAN")
	v.AutomaticEnv()

	v.SetDefault("required_columns", cmsNumericColumns)
	v.SetDefault("numeric_columns", cmsNumericColumns)
	v.SetDefault("encoding_dim", 14)
	v.SetDefault("epochs", 50)
	v.SetDefault("batch_size", 32)
	v.SetDefault("learning_rate", 0.001)
	v.SetDefault("validation_fraction", 0.1)
	v.SetDefault("threshold_multiplier", 2.0)
	v.SetDefault("seed", 42)
	v.SetDefault("report_path", "anomaly_report.csv")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to path as YAML.
func Save(c *Config, path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks ranges before the pipeline runs.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("config: input_path is required")
	}
	if len(c.NumericColumns) == 0 {
		return fmt.Errorf("config: numeric_columns must not be empty")
	}
	if c.EncodingDim < 1 {
		return fmt.Errorf("config: encoding_dim must be >= 1, got %d", c.EncodingDim)
	}
	if c.Epochs < 1 {
		return fmt.Errorf("config: epochs must be >= 1, got %d", c.Epochs)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("config: batch_size must be >= 1, got %d", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("config: learning_rate must be > 0, got %g", c.LearningRate)
	}
	if c.ValidationFraction < 0 || c.ValidationFraction >= 1 {
		return fmt.Errorf("config: validation_fraction must be in [0, 1), got %g", c.ValidationFraction)
	}
	if c.ThresholdMultiplier < 0 {
		return fmt.Errorf("config: threshold_multiplier must be >= 0, got %g", c.ThresholdMultiplier)
	}
	return nil
}
