package firs

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Sequencer hands out strictly increasing values per sequence name. Both
// FIRStore and FIRTx satisfy it.
type Sequencer interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

// Numberer assigns human readable FIR numbers of the form PREFIX-YEAR-NNNN.
// The counter lives in the store and restarts every calendar year, so two
// concurrent callers can never be handed the same value.
type Numberer struct {
	Prefix string
	Seq    Sequencer
}

// Assign returns the next FIR number for the year of at
func (n Numberer) Assign(ctx context.Context, at time.Time) (string, error) {
	year := at.Year()
	seq, err := n.Seq.NextSequence(ctx, SequenceName(year))
	if err != nil {
		return "", errors.Wrap(err, "failed to assign fir number")
	}
	return FormatNumber(n.prefix(), year, seq), nil
}

func (n Numberer) prefix() string {
	if n.Prefix == "" {
		return "FIR"
	}
	return n.Prefix
}

// SequenceName is the store counter backing FIR numbers for a year
func SequenceName(year int) string {
	return fmt.Sprintf("fir-%d", year)
}

// FormatNumber renders a FIR number, zero padding seq to four digits
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}
