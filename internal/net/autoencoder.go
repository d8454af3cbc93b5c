package net

import (
	"fmt"
	"math/rand"

	"github.com/mansour0303/billscan/internal/activations"
	"github.com/mansour0303/billscan/internal/layer"
	"github.com/mansour0303/billscan/internal/loss"
	"github.com/mansour0303/billscan/internal/opt"
)

// Autoencoder is a single-hidden-layer reconstruction model:
// Dense(D, H, ReLU) encoder followed by Dense(H, D, Sigmoid) decoder,
// trained to minimize mean-squared reconstruction error against its own
// input. H is fixed at construction and fully configurable; it is
// normally smaller than D but the model does not require it.
type Autoencoder struct {
	network     *Network
	encoder     *layer.Dense
	inputDim    int
	encodingDim int
	rng         *rand.Rand
}

// NewAutoencoder builds an untrained autoencoder. The seed drives weight
// initialization and all shuffling during Fit, so two models built and
// trained with the same seed and data produce the same reconstructions.
func NewAutoencoder(inputDim, encodingDim int, learningRate float64, seed int64) (*Autoencoder, error) {
	if inputDim < 1 {
		return nil, fmt.Errorf("net: input dimension must be >= 1, got %d", inputDim)
	}
	if encodingDim < 1 {
		return nil, fmt.Errorf("net: encoding dimension must be >= 1, got %d", encodingDim)
	}

	rng := rand.New(rand.NewSource(seed))
	encoder := layer.NewDense(inputDim, encodingDim, activations.ReLU{}, rng)
	decoder := layer.NewDense(encodingDim, inputDim, activations.Sigmoid{}, rng)

	network := New(
		[]layer.Layer{encoder, decoder},
		loss.MSE{},
		func() opt.Optimizer { return opt.NewAdam(learningRate) },
	)

	return &Autoencoder{
		network:     network,
		encoder:     encoder,
		inputDim:    inputDim,
		encodingDim: encodingDim,
		rng:         rng,
	}, nil
}

// InputDim returns the model's input width D.
func (a *Autoencoder) InputDim() int { return a.inputDim }

// EncodingDim returns the compressed width H.
func (a *Autoencoder) EncodingDim() int { return a.encodingDim }

// FitOptions controls a training run.
type FitOptions struct {
	Epochs             int
	BatchSize          int
	ValidationFraction float64 // held out for monitoring only, 0 disables
	Callbacks          []Callback
}

// History records per-epoch losses from a Fit run.
type History struct {
	TrainLoss      []float64
	ValidationLoss []float64 // empty when ValidationFraction is 0
}

// stopper is implemented by callbacks that can end training early.
type stopper interface {
	ShouldStop() bool
}

// Fit trains the autoencoder on data, using each row as both input and
// target. A ValidationFraction of rows, sampled once up front, is held
// out purely for monitoring; the remaining rows are reshuffled every
// epoch and consumed in minibatches.
func (a *Autoencoder) Fit(data [][]float64, opts FitOptions) (*History, error) {
	if err := a.checkWidths(data); err != nil {
		return nil, err
	}
	if opts.Epochs < 1 {
		return nil, fmt.Errorf("net: epochs must be >= 1, got %d", opts.Epochs)
	}
	if opts.BatchSize < 1 {
		return nil, fmt.Errorf("net: batch size must be >= 1, got %d", opts.BatchSize)
	}
	if opts.ValidationFraction < 0 || opts.ValidationFraction >= 1 {
		return nil, fmt.Errorf("net: validation fraction must be in [0, 1), got %g", opts.ValidationFraction)
	}

	perm := a.rng.Perm(len(data))
	numVal := int(opts.ValidationFraction * float64(len(data)))
	valIdx := perm[:numVal]
	trainIdx := append([]int(nil), perm[numVal:]...)

	valSet := make([][]float64, len(valIdx))
	for i, idx := range valIdx {
		valSet[i] = data[idx]
	}

	history := &History{}
	for _, cb := range opts.Callbacks {
		cb.OnTrainBegin()
	}

	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		a.rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})

		var epochLoss float64
		var numBatches int
		for start := 0; start < len(trainIdx); start += opts.BatchSize {
			end := start + opts.BatchSize
			if end > len(trainIdx) {
				end = len(trainIdx)
			}

			batch := make([][]float64, end-start)
			for i, idx := range trainIdx[start:end] {
				batch[i] = data[idx]
			}

			epochLoss += a.network.TrainBatch(batch, batch)
			numBatches++
		}
		if numBatches > 0 {
			epochLoss /= float64(numBatches)
		}

		valLoss := 0.0
		if len(valSet) > 0 {
			valLoss = a.network.Evaluate(valSet, valSet)
			history.ValidationLoss = append(history.ValidationLoss, valLoss)
		}
		history.TrainLoss = append(history.TrainLoss, epochLoss)

		stop := false
		for _, cb := range opts.Callbacks {
			cb.OnEpochEnd(epoch, epochLoss, valLoss)
			if s, ok := cb.(stopper); ok && s.ShouldStop() {
				stop = true
			}
		}
		if stop {
			break
		}
	}

	for _, cb := range opts.Callbacks {
		cb.OnTrainEnd()
	}
	return history, nil
}

// Predict returns a reconstruction for every row, same shape as the
// input. Validation rows held out during Fit are not excluded here.
func (a *Autoencoder) Predict(data [][]float64) ([][]float64, error) {
	if err := a.checkWidths(data); err != nil {
		return nil, err
	}

	out := make([][]float64, len(data))
	for i, sample := range data {
		// Forward returns an internal buffer; copy before the next pass.
		recon := a.network.Forward(sample)
		out[i] = append([]float64(nil), recon...)
	}
	return out, nil
}

// Encode returns the compressed H-wide representation of one sample.
func (a *Autoencoder) Encode(sample []float64) ([]float64, error) {
	if len(sample) != a.inputDim {
		return nil, fmt.Errorf("%w: got %d, model expects %d", ErrDimensionMismatch, len(sample), a.inputDim)
	}
	latent := a.encoder.Forward(sample)
	return append([]float64(nil), latent...), nil
}

func (a *Autoencoder) checkWidths(data [][]float64) error {
	for i, sample := range data {
		if len(sample) != a.inputDim {
			return fmt.Errorf("%w: row %d has width %d, model expects %d", ErrDimensionMismatch, i, len(sample), a.inputDim)
		}
	}
	return nil
}
