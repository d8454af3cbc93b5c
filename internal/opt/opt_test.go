package opt

import (
	"math"
	"testing"
)

// TestSGDStep tests the plain gradient descent update.
func TestSGDStep(t *testing.T) {
	s := SGD{LearningRate: 0.1}

	params := []float64{1.0, -1.0}
	gradients := []float64{1.0, -1.0}

	updated := s.Step(params, gradients)
	if updated[0] != 0.9 || updated[1] != -0.9 {
		t.Errorf("SGD step = %v, want [0.9 -0.9]", updated)
	}
	// Original slice is untouched.
	if params[0] != 1.0 {
		t.Errorf("params mutated: %v", params)
	}
}

// TestAdamStepDirection tests that Adam moves parameters against the
// gradient.
func TestAdamStepDirection(t *testing.T) {
	a := NewAdam(0.01)

	params := []float64{1.0}
	gradients := []float64{2.0}

	updated := a.Step(params, gradients)
	if updated[0] >= params[0] {
		t.Errorf("Adam step did not descend: %v -> %v", params[0], updated[0])
	}
}

// TestAdamConvergesOnQuadratic tests Adam minimizing f(x) = x^2.
func TestAdamConvergesOnQuadratic(t *testing.T) {
	a := NewAdam(0.1)

	params := []float64{3.0}
	for i := 0; i < 500; i++ {
		gradients := []float64{2 * params[0]}
		params = a.Step(params, gradients)
	}

	if math.Abs(params[0]) > 0.2 {
		t.Errorf("Adam did not converge on x^2: x = %v", params[0])
	}
}

// TestAdamResetsOnSizeChange tests that the moment buffers re-size when
// the parameter count changes.
func TestAdamResetsOnSizeChange(t *testing.T) {
	a := NewAdam(0.01)

	a.Step([]float64{1, 2}, []float64{0.1, 0.1})
	updated := a.Step([]float64{1, 2, 3}, []float64{0.1, 0.1, 0.1})

	if len(updated) != 3 {
		t.Errorf("updated length = %d, want 3", len(updated))
	}
}
