package net

import (
	"errors"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/mansour0303/billscan/internal/loss"
)

// syntheticData builds rows whose six columns are correlated mixtures of
// two latent factors, bounded to (0, 1) for the sigmoid decoder.
func syntheticData(n int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	mix := [][2]float64{{0.9, 0.1}, {0.7, 0.3}, {0.5, 0.5}, {0.3, 0.7}, {0.1, 0.9}, {0.8, 0.2}}

	data := make([][]float64, n)
	for i := range data {
		x := rng.Float64()
		y := rng.Float64()
		row := make([]float64, len(mix))
		for j, m := range mix {
			row[j] = 0.1 + 0.8*(m[0]*x+m[1]*y)
		}
		data[i] = row
	}
	return data
}

// shuffleColumns permutes each column independently across rows,
// destroying the correlations while keeping per-column distributions.
func shuffleColumns(data [][]float64, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	n := len(data)
	d := len(data[0])

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, d)
	}
	for j := 0; j < d; j++ {
		perm := rng.Perm(n)
		for i := 0; i < n; i++ {
			out[i][j] = data[perm[i]][j]
		}
	}
	return out
}

func meanReconstructionError(t *testing.T, a *Autoencoder, data [][]float64) float64 {
	t.Helper()
	recon, err := a.Predict(data)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	mse := loss.MSE{}
	var total float64
	for i := range data {
		total += mse.Forward(recon[i], data[i])
	}
	return total / float64(len(data))
}

// TestAutoencoderPredictShape tests that reconstructions match the
// input shape.
func TestAutoencoderPredictShape(t *testing.T) {
	a, err := NewAutoencoder(6, 2, 0.01, 1)
	if err != nil {
		t.Fatalf("NewAutoencoder failed: %v", err)
	}

	data := syntheticData(10, 1)
	recon, err := a.Predict(data)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if len(recon) != len(data) {
		t.Fatalf("reconstruction rows = %d, want %d", len(recon), len(data))
	}
	for i := range recon {
		if len(recon[i]) != len(data[i]) {
			t.Errorf("row %d width = %d, want %d", i, len(recon[i]), len(data[i]))
		}
	}
}

// TestAutoencoderDimensionMismatch tests that mis-sized data fails on
// both Fit and Predict.
func TestAutoencoderDimensionMismatch(t *testing.T) {
	a, err := NewAutoencoder(6, 2, 0.01, 1)
	if err != nil {
		t.Fatalf("NewAutoencoder failed: %v", err)
	}

	bad := [][]float64{{1, 2, 3}}
	if _, err := a.Predict(bad); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Predict error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := a.Fit(bad, FitOptions{Epochs: 1, BatchSize: 1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Fit error = %v, want ErrDimensionMismatch", err)
	}
}

// TestAutoencoderInvalidOptions tests Fit option validation.
func TestAutoencoderInvalidOptions(t *testing.T) {
	a, _ := NewAutoencoder(6, 2, 0.01, 1)
	data := syntheticData(10, 1)

	cases := []FitOptions{
		{Epochs: 0, BatchSize: 4},
		{Epochs: 5, BatchSize: 0},
		{Epochs: 5, BatchSize: 4, ValidationFraction: 1.0},
		{Epochs: 5, BatchSize: 4, ValidationFraction: -0.1},
	}
	for i, opts := range cases {
		if _, err := a.Fit(data, opts); err == nil {
			t.Errorf("case %d: expected error for options %+v", i, opts)
		}
	}
}

// TestAutoencoderLearnsStructure tests that after adequate training the
// model reconstructs its training data no worse than a column-shuffled
// copy of the same data.
func TestAutoencoderLearnsStructure(t *testing.T) {
	data := syntheticData(200, 7)

	a, err := NewAutoencoder(6, 2, 0.01, 42)
	if err != nil {
		t.Fatalf("NewAutoencoder failed: %v", err)
	}

	history, err := a.Fit(data, FitOptions{Epochs: 300, BatchSize: 16, ValidationFraction: 0.1})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if len(history.TrainLoss) != 300 {
		t.Fatalf("history has %d epochs, want 300", len(history.TrainLoss))
	}

	trained := meanReconstructionError(t, a, data)
	if trained < 0 || math.IsNaN(trained) {
		t.Fatalf("training error = %v, want non-negative real", trained)
	}

	noise := meanReconstructionError(t, a, shuffleColumns(data, 8))
	if trained > noise {
		t.Errorf("model reconstructs noise better than its training data: %v > %v", trained, noise)
	}
}

// TestAutoencoderReproducibility tests that a fixed seed and fixed
// hyperparameters produce the same reconstructions across runs.
func TestAutoencoderReproducibility(t *testing.T) {
	data := syntheticData(60, 11)
	opts := FitOptions{Epochs: 30, BatchSize: 8, ValidationFraction: 0.2}

	run := func() [][]float64 {
		a, err := NewAutoencoder(6, 3, 0.01, 99)
		if err != nil {
			t.Fatalf("NewAutoencoder failed: %v", err)
		}
		if _, err := a.Fit(data, opts); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		recon, err := a.Predict(data)
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		return recon
	}

	first := run()
	second := run()

	for i := range first {
		for j := range first[i] {
			if math.Abs(first[i][j]-second[i][j]) > 1e-9 {
				t.Fatalf("runs diverge at (%d, %d): %v vs %v", i, j, first[i][j], second[i][j])
			}
		}
	}
}

// TestAutoencoderSaveLoad tests that a reloaded model predicts the same
// values as the one that was saved.
func TestAutoencoderSaveLoad(t *testing.T) {
	data := syntheticData(40, 5)

	a, err := NewAutoencoder(6, 2, 0.01, 3)
	if err != nil {
		t.Fatalf("NewAutoencoder failed: %v", err)
	}
	if _, err := a.Fit(data, FitOptions{Epochs: 20, BatchSize: 8}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.bin")
	if err := a.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if loaded.InputDim() != 6 || loaded.EncodingDim() != 2 {
		t.Fatalf("loaded dims = (%d, %d), want (6, 2)", loaded.InputDim(), loaded.EncodingDim())
	}

	want, err := a.Predict(data)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	got, err := loaded.Predict(data)
	if err != nil {
		t.Fatalf("Predict on loaded model failed: %v", err)
	}

	for i := range want {
		for j := range want[i] {
			if math.Abs(want[i][j]-got[i][j]) > 1e-9 {
				t.Fatalf("loaded model diverges at (%d, %d): %v vs %v", i, j, want[i][j], got[i][j])
			}
		}
	}
}

// TestAutoencoderEncodeWidth tests the latent representation width.
func TestAutoencoderEncodeWidth(t *testing.T) {
	a, _ := NewAutoencoder(6, 2, 0.01, 1)

	latent, err := a.Encode(syntheticData(1, 1)[0])
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(latent) != 2 {
		t.Errorf("latent width = %d, want 2", len(latent))
	}

	if _, err := a.Encode([]float64{1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Encode error = %v, want ErrDimensionMismatch", err)
	}
}
