package net

import (
	"encoding/csv"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"
)

// Callback observes a training run.
type Callback interface {
	OnTrainBegin()
	OnEpochEnd(epoch int, trainLoss, valLoss float64)
	OnTrainEnd()
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (BaseCallback) OnTrainBegin()                                   {}
func (BaseCallback) OnEpochEnd(epoch int, trainLoss, valLoss float64) {}
func (BaseCallback) OnTrainEnd()                                     {}

// EpochLogger logs training progress through a structured logger.
type EpochLogger struct {
	BaseCallback
	Log      *slog.Logger
	Interval int
}

func (c EpochLogger) OnEpochEnd(epoch int, trainLoss, valLoss float64) {
	if c.Interval > 0 && epoch%c.Interval == 0 {
		c.Log.Info("epoch finished", "epoch", epoch, "train_loss", trainLoss, "val_loss", valLoss)
	}
}

// EarlyStopping ends training when the monitored loss has stopped
// improving for Patience consecutive epochs. Validation loss is
// monitored when available, training loss otherwise.
type EarlyStopping struct {
	BaseCallback
	Patience int
	MinDelta float64

	bestLoss     float64
	numBadEpochs int
	stopped      bool
}

// NewEarlyStopping creates an EarlyStopping callback.
func NewEarlyStopping(patience int, minDelta float64) *EarlyStopping {
	return &EarlyStopping{
		Patience: patience,
		MinDelta: minDelta,
		bestLoss: math.MaxFloat64,
	}
}

func (c *EarlyStopping) OnEpochEnd(epoch int, trainLoss, valLoss float64) {
	monitored := trainLoss
	if valLoss > 0 {
		monitored = valLoss
	}

	if monitored < c.bestLoss-c.MinDelta {
		c.bestLoss = monitored
		c.numBadEpochs = 0
	} else {
		c.numBadEpochs++
	}

	if c.numBadEpochs >= c.Patience {
		c.stopped = true
	}
}

// ShouldStop reports whether training should end early.
func (c *EarlyStopping) ShouldStop() bool { return c.stopped }

// CSVLogger appends per-epoch losses to a CSV file for offline review.
type CSVLogger struct {
	BaseCallback
	Filename string

	file   *os.File
	writer *csv.Writer
	start  time.Time
}

// NewCSVLogger creates a CSVLogger writing to filename.
func NewCSVLogger(filename string) *CSVLogger {
	return &CSVLogger{Filename: filename}
}

func (c *CSVLogger) OnTrainBegin() {
	file, err := os.OpenFile(c.Filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		slog.Warn("csv logger disabled", "file", c.Filename, "error", err)
		return
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()

	c.writer.Write([]string{"epoch", "train_loss", "val_loss", "time_seconds"})
	c.writer.Flush()
}

func (c *CSVLogger) OnEpochEnd(epoch int, trainLoss, valLoss float64) {
	if c.writer == nil {
		return
	}
	c.writer.Write([]string{
		strconv.Itoa(epoch),
		strconv.FormatFloat(trainLoss, 'f', 6, 64),
		strconv.FormatFloat(valLoss, 'f', 6, 64),
		strconv.FormatFloat(time.Since(c.start).Seconds(), 'f', 3, 64),
	})
	c.writer.Flush()
}

func (c *CSVLogger) OnTrainEnd() {
	if c.file != nil {
		c.writer.Flush()
		c.file.Close()
	}
}
