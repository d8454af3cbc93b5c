// Package net provides the reconstruction network and its training loop.
package net

import (
	"errors"

	"github.com/mansour0303/billscan/internal/layer"
	"github.com/mansour0303/billscan/internal/loss"
	"github.com/mansour0303/billscan/internal/opt"
)

// ErrDimensionMismatch indicates data whose width does not match the
// dimension the model was constructed with.
var ErrDimensionMismatch = errors.New("net: input width does not match model dimension")

// Network is a stack of layers that can be forwarded and backwarded.
type Network struct {
	layers []layer.Layer
	loss   loss.Loss
	opts   []opt.Optimizer

	// Pre-allocated gradient buffer for training
	lossGradBuf []float64
}

// New creates a network. newOpt is called once per layer: stateful
// optimizers such as Adam keep per-parameter moments, so instances must
// not be shared between layers.
func New(layers []layer.Layer, lossFn loss.Loss, newOpt func() opt.Optimizer) *Network {
	opts := make([]opt.Optimizer, len(layers))
	for i := range layers {
		opts[i] = newOpt()
	}
	return &Network{
		layers: layers,
		loss:   lossFn,
		opts:   opts,
	}
}

// Forward performs a forward pass through all layers. The returned slice
// aliases the last layer's output buffer and is only valid until the
// next forward pass.
func (n *Network) Forward(x []float64) []float64 {
	curr := x
	for i := range n.layers {
		curr = n.layers[i].Forward(curr)
	}
	return curr
}

// Backward performs a backward pass through all layers.
func (n *Network) Backward(grad []float64) []float64 {
	curr := grad
	for i := len(n.layers) - 1; i >= 0; i-- {
		curr = n.layers[i].Backward(curr)
	}
	return curr
}

// Step performs one optimization step per layer.
func (n *Network) Step() {
	for i, l := range n.layers {
		updated := n.opts[i].Step(l.Params(), l.Gradients())
		l.SetParams(updated)
	}
}

// Train performs a training step on a single sample.
func (n *Network) Train(x []float64, y []float64) float64 {
	yPred := n.Forward(x)
	l := n.loss.Forward(yPred, y)

	yPredLen := len(yPred)
	if cap(n.lossGradBuf) < yPredLen {
		n.lossGradBuf = make([]float64, yPredLen)
	}
	grad := n.lossGradBuf[:yPredLen]

	if backwardInPlace, ok := n.loss.(loss.BackwardInPlacer); ok {
		backwardInPlace.BackwardInPlace(yPred, y, grad)
	} else {
		grad = n.loss.Backward(yPred, y)
	}

	_ = n.Backward(grad)
	n.Step()

	return l
}

// TrainBatch performs training on a batch of samples. Per-sample
// gradients are accumulated, averaged over the batch, and applied in a
// single optimization step per layer.
func (n *Network) TrainBatch(batchX [][]float64, batchY [][]float64) float64 {
	if len(batchX) == 0 {
		return 0
	}
	batchSize := float64(len(batchX))
	var totalLoss float64

	accum := make([][]float64, len(n.layers))
	for i, l := range n.layers {
		accum[i] = make([]float64, len(l.Params()))
	}

	for i := 0; i < len(batchX); i++ {
		yPred := n.Forward(batchX[i])
		totalLoss += n.loss.Forward(yPred, batchY[i])

		yPredLen := len(yPred)
		if cap(n.lossGradBuf) < yPredLen {
			n.lossGradBuf = make([]float64, yPredLen)
		}
		grad := n.lossGradBuf[:yPredLen]

		if backwardInPlace, ok := n.loss.(loss.BackwardInPlacer); ok {
			backwardInPlace.BackwardInPlace(yPred, batchY[i], grad)
		} else {
			grad = n.loss.Backward(yPred, batchY[i])
		}

		_ = n.Backward(grad)

		// Layer gradient buffers are overwritten on every backward
		// pass, so fold them into the accumulator here.
		for j, l := range n.layers {
			for k, g := range l.Gradients() {
				accum[j][k] += g
			}
		}
	}

	for i, l := range n.layers {
		grads := accum[i]
		for k := range grads {
			grads[k] /= batchSize
		}
		l.SetParams(n.opts[i].Step(l.Params(), grads))
	}

	return totalLoss / batchSize
}

// Evaluate computes the average loss over a dataset without training.
func (n *Network) Evaluate(x, y [][]float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var totalLoss float64
	for i := range x {
		pred := n.Forward(x[i])
		totalLoss += n.loss.Forward(pred, y[i])
	}
	return totalLoss / float64(len(x))
}

// Params returns all network parameters flattened (copy).
func (n *Network) Params() []float64 {
	var params []float64
	for _, l := range n.layers {
		params = append(params, l.Params()...)
	}
	return params
}

// Layers returns the network's layers slice.
func (n *Network) Layers() []layer.Layer {
	return n.layers
}

// InSize returns the input width of the first layer.
func (n *Network) InSize() int {
	return n.layers[0].InSize()
}
