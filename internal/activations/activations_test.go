package activations

import (
	"math"
	"testing"
)

// TestReLU tests ReLU activation and derivative.
func TestReLU(t *testing.T) {
	r := ReLU{}

	if got := r.Activate(2.5); got != 2.5 {
		t.Errorf("ReLU(2.5) = %v, want 2.5", got)
	}
	if got := r.Activate(-1.0); got != 0 {
		t.Errorf("ReLU(-1.0) = %v, want 0", got)
	}
	if got := r.Derivative(3.0); got != 1 {
		t.Errorf("ReLU'(3.0) = %v, want 1", got)
	}
	if got := r.Derivative(-3.0); got != 0 {
		t.Errorf("ReLU'(-3.0) = %v, want 0", got)
	}
}

// TestSigmoid tests sigmoid activation and derivative.
func TestSigmoid(t *testing.T) {
	s := Sigmoid{}

	if got := s.Activate(0); got != 0.5 {
		t.Errorf("Sigmoid(0) = %v, want 0.5", got)
	}
	// Sigmoid output is bounded to (0, 1).
	if got := s.Activate(100); got > 1 || got < 0.99 {
		t.Errorf("Sigmoid(100) = %v, want close to 1", got)
	}
	// Derivative at 0 is 0.25.
	if got := s.Derivative(0); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("Sigmoid'(0) = %v, want 0.25", got)
	}
}

// TestTanh tests tanh activation and derivative.
func TestTanh(t *testing.T) {
	th := Tanh{}

	if got := th.Activate(0); got != 0 {
		t.Errorf("Tanh(0) = %v, want 0", got)
	}
	if got := th.Derivative(0); got != 1 {
		t.Errorf("Tanh'(0) = %v, want 1", got)
	}
}

// TestLeakyReLU tests LeakyReLU with a custom alpha.
func TestLeakyReLU(t *testing.T) {
	l := NewLeakyReLU(0.1)

	if got := l.Activate(-10); math.Abs(got-(-1.0)) > 1e-12 {
		t.Errorf("LeakyReLU(-10) = %v, want -1", got)
	}
	if got := l.Derivative(-10); got != 0.1 {
		t.Errorf("LeakyReLU'(-10) = %v, want 0.1", got)
	}
}
