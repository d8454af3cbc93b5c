// Package layer provides the dense layer used by the reconstruction model.
package layer

import (
	"math"
	"math/rand"

	"github.com/mansour0303/billscan/internal/activations"
)

// Layer is a neural network layer.
type Layer interface {
	Forward(x []float64) []float64
	Backward(grad []float64) []float64
	Params() []float64
	SetParams([]float64)
	Gradients() []float64
	InSize() int
	OutSize() int
}

// Dense is a fully connected layer with contiguous weight storage and
// pre-allocated buffers so the training loop does not allocate.
type Dense struct {
	// Row-major: weight for output o, input i is weights[o*in + i]
	weights []float64
	biases  []float64
	act     activations.Activation
	outSize int
	inSize  int

	inputBuf  []float64
	outputBuf []float64
	preActBuf []float64
	gradWBuf  []float64
	gradBBuf  []float64
	gradInBuf []float64
	dzBuf     []float64
}

// NewDense creates a dense layer with Xavier-initialized weights drawn
// from rng. Passing a seeded rng makes layer construction, and therefore
// whole training runs, reproducible.
func NewDense(in, out int, act activations.Activation, rng *rand.Rand) *Dense {
	weights := make([]float64, out*in)
	biases := make([]float64, out)

	scale := math.Sqrt(2.0 / (float64(in) + float64(out)))
	for i := range weights {
		weights[i] = rng.Float64()*2*scale - scale
	}
	for i := range biases {
		biases[i] = rng.Float64()*0.2 - 0.1
	}

	return &Dense{
		weights:   weights,
		biases:    biases,
		act:       act,
		outSize:   out,
		inSize:    in,
		inputBuf:  make([]float64, in),
		outputBuf: make([]float64, out),
		preActBuf: make([]float64, out),
		gradWBuf:  make([]float64, out*in),
		gradBBuf:  make([]float64, out),
		gradInBuf: make([]float64, in),
		dzBuf:     make([]float64, out),
	}
}

// Forward computes act(Wx + b) into the layer's reusable output buffer.
func (d *Dense) Forward(x []float64) []float64 {
	copy(d.inputBuf, x)

	outSize := d.outSize
	inSize := d.inSize
	weights := d.weights
	biases := d.biases
	input := d.inputBuf
	preAct := d.preActBuf
	output := d.outputBuf

	for o := 0; o < outSize; o++ {
		sum := biases[o]
		wBase := o * inSize
		for i := 0; i < inSize; i++ {
			sum += weights[wBase+i] * input[i]
		}
		preAct[o] = sum
		output[o] = d.act.Activate(sum)
	}

	return output[:outSize]
}

// Backward computes gradients for weights, biases, and input.
func (d *Dense) Backward(grad []float64) []float64 {
	outSize := d.outSize
	inSize := d.inSize
	weights := d.weights
	input := d.inputBuf
	dz := d.dzBuf
	gradW := d.gradWBuf
	gradB := d.gradBBuf
	gradIn := d.gradInBuf

	// dz = dL/d(output) * act'(z)
	for o := 0; o < outSize; o++ {
		dz[o] = grad[o] * d.act.Derivative(d.preActBuf[o])
		gradB[o] = dz[o]
	}

	// dL/dW[o, i] = dz[o] * input[i]
	for o := 0; o < outSize; o++ {
		dzo := dz[o]
		wBase := o * inSize
		for i := 0; i < inSize; i++ {
			gradW[wBase+i] = dzo * input[i]
		}
	}

	// dL/dx[i] = sum_o(dz[o] * W[o, i])
	for i := 0; i < inSize; i++ {
		sum := 0.0
		for o := 0; o < outSize; o++ {
			sum += dz[o] * weights[o*inSize+i]
		}
		gradIn[i] = sum
	}

	return gradIn[:inSize]
}

// Params returns weights then biases as one flattened copy.
func (d *Dense) Params() []float64 {
	params := make([]float64, 0, len(d.weights)+len(d.biases))
	params = append(params, d.weights...)
	params = append(params, d.biases...)
	return params
}

// SetParams updates weights and biases from a flattened slice (in-place).
func (d *Dense) SetParams(params []float64) {
	copy(d.weights, params[:len(d.weights)])
	copy(d.biases, params[len(d.weights):])
}

// Gradients returns weight then bias gradients as one flattened copy.
func (d *Dense) Gradients() []float64 {
	gradients := make([]float64, 0, len(d.gradWBuf)+len(d.gradBBuf))
	gradients = append(gradients, d.gradWBuf...)
	gradients = append(gradients, d.gradBBuf...)
	return gradients
}

// InSize returns the layer input width.
func (d *Dense) InSize() int { return d.inSize }

// OutSize returns the layer output width.
func (d *Dense) OutSize() int { return d.outSize }
