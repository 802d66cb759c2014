package databases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/police-fir-api/databases"
	"github.com/linesmerrill/police-fir-api/models"
	"github.com/linesmerrill/police-fir-api/query"
)

func seed(t *testing.T, store *databases.MemoryFIRStore, firs ...models.FIR) {
	err := store.WithTransaction(context.Background(), func(ctx context.Context, tx databases.FIRTx) error {
		for i := range firs {
			if err := tx.InsertFIR(ctx, &firs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestMemoryFIRStore_FailedTransactionLeavesNoTrace(t *testing.T) {
	store := databases.NewMemoryFIRStore()
	ctx := context.Background()

	err := store.WithTransaction(ctx, func(ctx context.Context, tx databases.FIRTx) error {
		fir := &models.FIR{FIRNumber: "FIR-2024-0001"}
		if err := tx.InsertFIR(ctx, fir); err != nil {
			return err
		}
		if err := tx.InsertHistory(ctx, &models.FIRHistory{FIRID: fir.ID, Action: models.ActionCreated}); err != nil {
			return err
		}
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	_, err = store.FindByNumber(ctx, "FIR-2024-0001")
	assert.True(t, errors.Is(err, databases.ErrNotFound))
	history, err := store.History(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, history)

	// the id counter rolled back with the rest
	seed(t, store, models.FIR{FIRNumber: "FIR-2024-0002"})
	fir, err := store.FindByNumber(ctx, "FIR-2024-0002")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), fir.ID)
}

func TestMemoryFIRStore_UniqueNumber(t *testing.T) {
	store := databases.NewMemoryFIRStore()
	seed(t, store, models.FIR{FIRNumber: "FIR-2024-0001"})

	err := store.WithTransaction(context.Background(), func(ctx context.Context, tx databases.FIRTx) error {
		return tx.InsertFIR(ctx, &models.FIR{FIRNumber: "FIR-2024-0001"})
	})
	assert.True(t, errors.Is(err, databases.ErrConflict))
}

func TestMemoryFIRStore_HistoryRequiresFIR(t *testing.T) {
	store := databases.NewMemoryFIRStore()

	err := store.WithTransaction(context.Background(), func(ctx context.Context, tx databases.FIRTx) error {
		return tx.InsertHistory(ctx, &models.FIRHistory{FIRID: 99, Action: models.ActionNote})
	})
	assert.True(t, errors.Is(err, databases.ErrNotFound))

	err = store.WithTransaction(context.Background(), func(ctx context.Context, tx databases.FIRTx) error {
		return tx.UpdateFIR(ctx, &models.FIR{ID: 99})
	})
	assert.True(t, errors.Is(err, databases.ErrNotFound))
}

func TestMemoryFIRStore_ReadsAreCopies(t *testing.T) {
	store := databases.NewMemoryFIRStore()
	seed(t, store, models.FIR{FIRNumber: "FIR-2024-0001", ActionNotes: []string{"first"}})

	fir, err := store.FindByID(context.Background(), 1)
	assert.NoError(t, err)
	fir.ActionNotes[0] = "changed"
	fir.Status = models.StatusClosed

	again, err := store.FindByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{"first"}, again.ActionNotes)
	assert.Empty(t, again.Status)
}

func TestMemoryFIRStore_FindPageAndCount(t *testing.T) {
	store := databases.NewMemoryFIRStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var firs []models.FIR
	for i := 0; i < 7; i++ {
		status := models.StatusPending
		if i%2 == 0 {
			status = models.StatusApproved
		}
		firs = append(firs, models.FIR{
			FIRNumber:    time.Duration(i).String(),
			Status:       status,
			IncidentType: []string{"Theft", "Fraud"}[i%2],
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}
	seed(t, store, firs...)
	ctx := context.Background()

	page, total, err := store.FindPage(ctx, query.All(), query.ByCreatedAtDesc, query.NewPageable(1, 3))
	assert.NoError(t, err)
	assert.Equal(t, int64(7), total)
	if assert.Len(t, page, 3) {
		assert.Equal(t, base.Add(3*time.Hour), page[0].CreatedAt)
		assert.Equal(t, base.Add(time.Hour), page[2].CreatedAt)
	}

	page, _, err = store.FindPage(ctx, query.All(), query.ByCreatedAtDesc, query.NewPageable(5, 3))
	assert.NoError(t, err)
	assert.Empty(t, page)

	approved, err := store.Count(ctx, query.Eq("status", string(models.StatusApproved)))
	assert.NoError(t, err)
	assert.Equal(t, int64(4), approved)

	byType, err := store.CountByIncidentType(ctx)
	assert.NoError(t, err)
	assert.Equal(t, map[string]int64{"Theft": 4, "Fraud": 3}, byType)
}

func TestMemoryFIRStore_HistoryNewestFirst(t *testing.T) {
	store := databases.NewMemoryFIRStore()
	seed(t, store, models.FIR{FIRNumber: "FIR-2024-0001"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := store.WithTransaction(context.Background(), func(ctx context.Context, tx databases.FIRTx) error {
		for _, e := range []models.FIRHistory{
			{FIRID: 1, Action: models.ActionCreated, Timestamp: at},
			{FIRID: 1, Action: models.ActionStatusChange, Timestamp: at.Add(time.Minute)},
			{FIRID: 1, Action: models.ActionComment, Timestamp: at.Add(time.Minute)},
		} {
			e := e
			if err := tx.InsertHistory(ctx, &e); err != nil {
				return err
			}
		}
		return nil
	})
	assert.NoError(t, err)

	history, err := store.History(context.Background(), 1)
	assert.NoError(t, err)
	var got []string
	for _, h := range history {
		got = append(got, h.Action)
	}
	assert.Equal(t, []string{models.ActionComment, models.ActionStatusChange, models.ActionCreated}, got)
}

func TestMemoryFIRStore_Sequences(t *testing.T) {
	store := databases.NewMemoryFIRStore()
	ctx := context.Background()

	a, _ := store.NextSequence(ctx, "fir-2024")
	b, _ := store.NextSequence(ctx, "fir-2024")
	c, _ := store.NextSequence(ctx, "fir-2025")
	assert.Equal(t, []int64{1, 2, 1}, []int64{a, b, c})
}

func TestMemoryUserDatabase(t *testing.T) {
	users := databases.NewMemoryUserDatabase(
		models.User{ID: 1, Name: "a", Role: models.RoleCitizen},
		models.User{ID: 2, Name: "b", Role: models.RolePolice},
	)
	users.Add(models.User{ID: 3, Name: "c", Role: models.RolePolice})
	ctx := context.Background()

	total, err := users.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)

	police, err := users.CountByRole(ctx, models.RolePolice)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), police)

	u, err := users.FindByID(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, "b", u.Name)

	_, err = users.FindByID(ctx, 9)
	assert.True(t, errors.Is(err, databases.ErrNotFound))
}
