// Package anomaly scores reconstruction errors and flags outliers.
package anomaly

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/mansour0303/billscan/internal/loss"
)

// DefaultMultiplier is the standard-deviation multiplier for the anomaly
// cutoff: threshold = mean + DefaultMultiplier * stddev.
const DefaultMultiplier = 2.0

// ErrShapeMismatch indicates original and reconstructed data differ in
// row count or row width.
var ErrShapeMismatch = errors.New("anomaly: original and reconstruction have different shapes")

// ErrNoErrors indicates an empty error distribution; a threshold cannot
// be derived from it.
var ErrNoErrors = errors.New("anomaly: empty error distribution")

// Score computes the per-row mean squared error between each original
// sample and its reconstruction.
func Score(original, reconstructed [][]float64) ([]float64, error) {
	if len(original) != len(reconstructed) {
		return nil, fmt.Errorf("%w: %d rows vs %d rows", ErrShapeMismatch, len(original), len(reconstructed))
	}

	mse := loss.MSE{}
	errs := make([]float64, len(original))
	for i := range original {
		if len(original[i]) != len(reconstructed[i]) {
			return nil, fmt.Errorf("%w: row %d has width %d vs %d", ErrShapeMismatch, i, len(original[i]), len(reconstructed[i]))
		}
		errs[i] = mse.Forward(reconstructed[i], original[i])
	}
	return errs, nil
}

// Threshold derives the anomaly cutoff mean + multiplier*stddev over the
// full error distribution, using the population standard deviation
// (1/n). The whole distribution must be in memory; scoring is batch,
// not streaming.
func Threshold(errs []float64, multiplier float64) (float64, error) {
	if len(errs) == 0 {
		return 0, ErrNoErrors
	}
	mean := stat.Mean(errs, nil)
	std := stat.PopStdDev(errs, nil)
	return mean + multiplier*std, nil
}

// Flag marks every error strictly greater than the threshold. Errors
// equal to the threshold are not anomalies.
func Flag(errs []float64, threshold float64) []bool {
	flags := make([]bool, len(errs))
	for i, e := range errs {
		flags[i] = e > threshold
	}
	return flags
}
