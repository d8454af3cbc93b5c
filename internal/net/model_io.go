package net

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// modelFile is the gob-encoded on-disk form of a trained autoencoder.
// Optimizer state is not persisted; a loaded model predicts but resumes
// training from fresh moments.
type modelFile struct {
	InputDim    int
	EncodingDim int
	Params      []float64
}

// Save writes the trained model to a file.
func (a *Autoencoder) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("net: create model file: %w", err)
	}
	defer file.Close()

	return a.EncodeTo(file)
}

// EncodeTo writes the model to w using gob encoding.
func (a *Autoencoder) EncodeTo(w io.Writer) error {
	mf := modelFile{
		InputDim:    a.inputDim,
		EncodingDim: a.encodingDim,
		Params:      a.network.Params(),
	}
	if err := gob.NewEncoder(w).Encode(mf); err != nil {
		return fmt.Errorf("net: encode model: %w", err)
	}
	return nil
}

// LoadModel reads a model previously written by Save.
func LoadModel(filename string) (*Autoencoder, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("net: open model file: %w", err)
	}
	defer file.Close()

	return DecodeModel(file)
}

// DecodeModel reads a gob-encoded model from r.
func DecodeModel(r io.Reader) (*Autoencoder, error) {
	var mf modelFile
	if err := gob.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("net: decode model: %w", err)
	}

	// Seed is irrelevant here: the decoded parameters overwrite the
	// fresh initialization.
	a, err := NewAutoencoder(mf.InputDim, mf.EncodingDim, 0.001, 0)
	if err != nil {
		return nil, err
	}

	offset := 0
	for _, l := range a.network.Layers() {
		n := len(l.Params())
		if offset+n > len(mf.Params) {
			return nil, fmt.Errorf("net: model file holds %d parameters, need %d", len(mf.Params), offset+n)
		}
		l.SetParams(mf.Params[offset : offset+n])
		offset += n
	}
	if offset != len(mf.Params) {
		return nil, fmt.Errorf("net: model file holds %d parameters, expected %d", len(mf.Params), offset)
	}

	return a, nil
}
