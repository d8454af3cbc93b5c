// Package scale standardizes numeric table columns to zero mean and
// unit variance.
package scale

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/mansour0303/billscan/internal/dataset"
)

// ErrDegenerateColumn indicates a column whose standard deviation is zero
// or non-finite. Standardizing such a column would divide by zero.
var ErrDegenerateColumn = errors.New("scale: column has degenerate standard deviation")

// ErrNotFitted indicates Transform was called before Fit.
var ErrNotFitted = errors.New("scale: scaler has not been fitted")

// ColumnStats holds the fitted statistics for one column.
type ColumnStats struct {
	Name   string
	Mean   float64
	StdDev float64
}

// StandardScaler rescales columns to (x - mean) / stddev using statistics
// computed over all rows at fit time. StdDev is the sample standard
// deviation (1/(n-1) normalization), matching gonum's stat.StdDev default.
type StandardScaler struct {
	stats []ColumnStats
}

// NewStandardScaler returns an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes mean and standard deviation per column over every row of
// the table. A column with zero or non-finite standard deviation fails
// with ErrDegenerateColumn.
func (s *StandardScaler) Fit(t *dataset.Table, columns []string) error {
	fitted := make([]ColumnStats, 0, len(columns))
	buf := make([]float64, t.NumRows())

	for _, col := range columns {
		for r := 0; r < t.NumRows(); r++ {
			v, err := t.Cell(r, col)
			if err != nil {
				return err
			}
			if !v.Numeric || v.Missing {
				return fmt.Errorf("scale: column %q is not fully numeric at row %d", col, r)
			}
			buf[r] = v.Num
		}

		mean, std := stat.MeanStdDev(buf, nil)
		if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
			return fmt.Errorf("%w: %q", ErrDegenerateColumn, col)
		}
		fitted = append(fitted, ColumnStats{Name: col, Mean: mean, StdDev: std})
	}

	s.stats = fitted
	return nil
}

// Transform rewrites each fitted column in place as (x - mean) / stddev.
// Row count and column order are untouched.
func (s *StandardScaler) Transform(t *dataset.Table) error {
	if len(s.stats) == 0 {
		return ErrNotFitted
	}

	for _, cs := range s.stats {
		for r := 0; r < t.NumRows(); r++ {
			v, err := t.Cell(r, cs.Name)
			if err != nil {
				return err
			}
			if err := t.SetNum(r, cs.Name, (v.Num-cs.Mean)/cs.StdDev); err != nil {
				return err
			}
		}
	}
	return nil
}

// FitTransform fits the scaler and transforms the same table.
func (s *StandardScaler) FitTransform(t *dataset.Table, columns []string) error {
	if err := s.Fit(t, columns); err != nil {
		return err
	}
	return s.Transform(t)
}

// InverseTransform maps one standardized sample back to original units.
// The sample must have one value per fitted column, in fit order.
func (s *StandardScaler) InverseTransform(sample []float64) ([]float64, error) {
	if len(s.stats) == 0 {
		return nil, ErrNotFitted
	}
	if len(sample) != len(s.stats) {
		return nil, fmt.Errorf("scale: sample has %d values, scaler fitted on %d columns", len(sample), len(s.stats))
	}

	out := make([]float64, len(sample))
	for i, cs := range s.stats {
		out[i] = sample[i]*cs.StdDev + cs.Mean
	}
	return out, nil
}

// Stats returns the fitted per-column statistics in fit order.
func (s *StandardScaler) Stats() []ColumnStats {
	return s.stats
}
