package firs_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/police-fir-api/databases"
	"github.com/linesmerrill/police-fir-api/firs"
	"github.com/linesmerrill/police-fir-api/models"
	"github.com/linesmerrill/police-fir-api/query"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "FIR-2024-0007", firs.FormatNumber("FIR", 2024, 7))
	assert.Equal(t, "FIR-2024-12345", firs.FormatNumber("FIR", 2024, 12345))
	assert.Equal(t, "fir-2025", firs.SequenceName(2025))
}

func TestNumberer_AssignRestartsEachYear(t *testing.T) {
	store := databases.NewMemoryFIRStore()
	n := firs.Numberer{Seq: store}
	ctx := context.Background()

	first, err := n.Assign(ctx, time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	second, err := n.Assign(ctx, time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC))
	assert.NoError(t, err)
	third, err := n.Assign(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	assert.Equal(t, "FIR-2024-0001", first)
	assert.Equal(t, "FIR-2024-0002", second)
	assert.Equal(t, "FIR-2025-0001", third)
}

type failingSequencer struct{}

func (failingSequencer) NextSequence(context.Context, string) (int64, error) {
	return 0, errors.New("counter unavailable")
}

func TestNumberer_AssignPropagatesError(t *testing.T) {
	_, err := firs.Numberer{Prefix: "CASE", Seq: failingSequencer{}}.Assign(context.Background(), time.Now())
	assert.EqualError(t, err, "failed to assign fir number: counter unavailable")
}

func TestCreateFIR_ConcurrentNumbersAreUnique(t *testing.T) {
	s, _, _ := newTestService(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	const creators = 64

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]int)
		errs    []error
	)
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.CreateFIR(context.Background(), models.FIRRequest{
				IncidentType: "Theft",
				Description:  fmt.Sprintf("bicycle %d stolen", i),
			}, &citizen)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers[res.FIRNumber]++
		}(i)
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Len(t, numbers, creators)
	for number, seen := range numbers {
		assert.Equal(t, 1, seen, number)
	}
	for i := 1; i <= creators; i++ {
		assert.Contains(t, numbers, firs.FormatNumber("FIR", 2024, int64(i)))
	}
}

func TestCreateFIR_RetriesOnNumberCollision(t *testing.T) {
	s, store, _ := newTestService(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// a record imported with a number the counter has not reached yet
	err := store.WithTransaction(ctx, func(ctx context.Context, tx databases.FIRTx) error {
		return tx.InsertFIR(ctx, &models.FIR{FIRNumber: "FIR-2024-0001", Status: models.StatusPending})
	})
	assert.NoError(t, err)

	res, err := s.CreateFIR(ctx, models.FIRRequest{IncidentType: "Theft"}, &citizen)
	assert.NoError(t, err)
	assert.Equal(t, "FIR-2024-0002", res.FIRNumber)
}

func TestCreateFIR_NumberingExhausted(t *testing.T) {
	s, store, _ := newTestService(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	s.MaxNumberAttempts = 2
	ctx := context.Background()

	err := store.WithTransaction(ctx, func(ctx context.Context, tx databases.FIRTx) error {
		for _, n := range []string{"FIR-2024-0001", "FIR-2024-0002"} {
			if err := tx.InsertFIR(ctx, &models.FIR{FIRNumber: n, Status: models.StatusPending}); err != nil {
				return err
			}
		}
		return nil
	})
	assert.NoError(t, err)

	_, err = s.CreateFIR(ctx, models.FIRRequest{IncidentType: "Theft"}, &citizen)
	assert.True(t, errors.Is(err, firs.ErrNumberingExhausted))

	count, err := store.Count(ctx, query.All())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
