package anomaly

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Entry is the scored result for one table row.
type Entry struct {
	Row     int
	Error   float64
	Flagged bool
}

// Report holds the outcome of one scoring run. Read-only once built.
type Report struct {
	RunID      string
	CreatedAt  time.Time
	Threshold  float64
	Multiplier float64
	Entries    []Entry
}

// NewReport scores, thresholds and flags in one pass over the full
// dataset.
func NewReport(original, reconstructed [][]float64, multiplier float64) (*Report, error) {
	errs, err := Score(original, reconstructed)
	if err != nil {
		return nil, err
	}
	threshold, err := Threshold(errs, multiplier)
	if err != nil {
		return nil, err
	}
	flags := Flag(errs, threshold)

	entries := make([]Entry, len(errs))
	for i := range errs {
		entries[i] = Entry{Row: i, Error: errs[i], Flagged: flags[i]}
	}

	return &Report{
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Threshold:  threshold,
		Multiplier: multiplier,
		Entries:    entries,
	}, nil
}

// AnomalyCount returns how many rows were flagged.
func (r *Report) AnomalyCount() int {
	count := 0
	for _, e := range r.Entries {
		if e.Flagged {
			count++
		}
	}
	return count
}

// WriteCSV writes one line per scored row plus a header.
func (r *Report) WriteCSV(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("anomaly: create report file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"row", "reconstruction_error", "anomaly"}); err != nil {
		return fmt.Errorf("anomaly: write report header: %w", err)
	}
	for _, e := range r.Entries {
		rec := []string{
			strconv.Itoa(e.Row),
			strconv.FormatFloat(e.Error, 'f', 8, 64),
			strconv.FormatBool(e.Flagged),
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("anomaly: write report row %d: %w", e.Row, err)
		}
	}
	return nil
}
