package dataset

import (
	"math"
	"strconv"
	"strings"
)

// DropIncomplete removes every row with a missing value in any of the
// required columns. The surviving rows keep their relative order.
func (t *Table) DropIncomplete(required []string) error {
	idx, err := t.resolve(required)
	if err != nil {
		return err
	}

	kept := t.rows[:0]
	for _, row := range t.rows {
		complete := true
		for _, j := range idx {
			if row[j].Missing {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	return nil
}

// CoerceNumeric rewrites the named columns as floating point values.
// Thousands separators are stripped before parsing. A cell that still
// fails to parse, or parses to a non-finite value, becomes missing
// rather than an error; callers re-check with VerifyComplete before
// feeding the table downstream.
func (t *Table) CoerceNumeric(columns []string) error {
	idx, err := t.resolve(columns)
	if err != nil {
		return err
	}

	for _, row := range t.rows {
		for _, j := range idx {
			cell := &row[j]
			if cell.Missing {
				cell.Numeric = true
				continue
			}
			s := strings.ReplaceAll(strings.TrimSpace(cell.Raw), ",", "")
			f, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
				cell.Numeric = true
				cell.Missing = true
				continue
			}
			cell.Num = f
			cell.Numeric = true
		}
	}
	return nil
}

// VerifyComplete fails if any of the named columns still holds a missing
// value. Run after CoerceNumeric and before normalization so that NaNs
// never reach training.
func (t *Table) VerifyComplete(columns []string) error {
	idx, err := t.resolve(columns)
	if err != nil {
		return err
	}

	for r, row := range t.rows {
		for _, j := range idx {
			if row[j].Missing || !row[j].Numeric {
				return errMissingAt(r, t.columns[j])
			}
		}
	}
	return nil
}
