package net

import (
	"math/rand"
	"testing"

	"github.com/mansour0303/billscan/internal/activations"
	"github.com/mansour0303/billscan/internal/layer"
	"github.com/mansour0303/billscan/internal/loss"
	"github.com/mansour0303/billscan/internal/opt"
)

func newTestNetwork(seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))
	layers := []layer.Layer{
		layer.NewDense(2, 3, activations.Tanh{}, rng),
		layer.NewDense(3, 1, activations.Sigmoid{}, rng),
	}
	return New(layers, loss.MSE{}, func() opt.Optimizer { return opt.SGD{LearningRate: 0.1} })
}

// TestNetworkForward tests forward pass output shape.
func TestNetworkForward(t *testing.T) {
	network := newTestNetwork(1)

	output := network.Forward([]float64{1.0, 2.0})
	if len(output) != 1 {
		t.Errorf("output length = %d, want 1", len(output))
	}
	if network.InSize() != 2 {
		t.Errorf("InSize = %d, want 2", network.InSize())
	}
}

// TestNetworkTrain tests a single training step.
func TestNetworkTrain(t *testing.T) {
	network := newTestNetwork(2)

	l := network.Train([]float64{0.0, 0.0}, []float64{0.0})
	if l < 0 {
		t.Errorf("loss should be non-negative, got %v", l)
	}
}

// TestNetworkTrainBatchReducesLoss tests that repeated minibatch steps
// reduce the loss on a learnable problem.
func TestNetworkTrainBatchReducesLoss(t *testing.T) {
	network := newTestNetwork(3)

	batchX := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	batchY := [][]float64{{0}, {1}, {1}, {0}}

	first := network.TrainBatch(batchX, batchY)
	var last float64
	for i := 0; i < 2000; i++ {
		last = network.TrainBatch(batchX, batchY)
	}

	if last >= first {
		t.Errorf("loss did not decrease: first %v, last %v", first, last)
	}
}

// TestNetworkEvaluate tests loss evaluation without training.
func TestNetworkEvaluate(t *testing.T) {
	network := newTestNetwork(4)

	x := [][]float64{{0.1, 0.2}, {0.3, 0.4}}
	before := network.Params()

	l := network.Evaluate(x, [][]float64{{0.5}, {0.5}})
	if l < 0 {
		t.Errorf("loss should be non-negative, got %v", l)
	}

	after := network.Params()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("Evaluate must not update parameters")
		}
	}
}

// TestNetworkTrainBatchEmpty tests the empty batch edge case.
func TestNetworkTrainBatchEmpty(t *testing.T) {
	network := newTestNetwork(5)
	if l := network.TrainBatch(nil, nil); l != 0 {
		t.Errorf("empty batch loss = %v, want 0", l)
	}
}
