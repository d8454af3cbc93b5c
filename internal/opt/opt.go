// Package opt provides optimization algorithms.
package opt

import "math"

// Optimizer updates network parameters based on gradients.
type Optimizer interface {
	// Step computes updated parameters: params - lr * gradients
	// Returns a new slice with updated values
	Step(params, gradients []float64) []float64
}

// SGD (Stochastic Gradient Descent) optimizer.
type SGD struct {
	LearningRate float64
}

// Step computes updated parameters: params - lr * gradients
func (s SGD) Step(params, gradients []float64) []float64 {
	result := make([]float64, len(params))
	for i := range params {
		result[i] = params[i] - s.LearningRate*gradients[i]
	}
	return result
}

// Adam optimizer with bias-corrected first and second moment estimates.
type Adam struct {
	LearningRate float64
	Beta1        float64 // Exponential decay rate for first moment
	Beta2        float64 // Exponential decay rate for second moment
	Epsilon      float64 // Small constant for numerical stability

	m []float64 // first moment, lazily sized to the parameter count
	v []float64 // second moment
	t int       // step counter for bias correction
}

// NewAdam creates a new Adam optimizer with default decay rates.
func NewAdam(learningRate float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Step computes updated parameters using Adam. Moment buffers are keyed
// by parameter count, so one Adam instance must not be shared across
// layers of different sizes.
func (a *Adam) Step(params, gradients []float64) []float64 {
	n := len(params)
	if len(a.m) != n {
		a.m = make([]float64, n)
		a.v = make([]float64, n)
		a.t = 0
	}
	a.t++

	c1 := 1 - math.Pow(a.Beta1, float64(a.t))
	c2 := 1 - math.Pow(a.Beta2, float64(a.t))

	result := make([]float64, n)
	for i := 0; i < n; i++ {
		g := gradients[i]
		a.m[i] = a.Beta1*a.m[i] + (1-a.Beta1)*g
		a.v[i] = a.Beta2*a.v[i] + (1-a.Beta2)*g*g

		mHat := a.m[i] / c1
		vHat := a.v[i] / c2
		result[i] = params[i] - a.LearningRate*mHat/(math.Sqrt(vHat)+a.Epsilon)
	}
	return result
}
