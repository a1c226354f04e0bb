package repository_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	equipmentModel "toolhub/internal/domains/equipment/model"
	"toolhub/internal/domains/reservation/model"
	"toolhub/internal/domains/reservation/repository"
	gDto "toolhub/shared/dto"
	"toolhub/shared/failure"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	parsed, _ := time.Parse(time.DateOnly, value)

	return parsed
}

func reservation(equipmentID, start, end string) model.Reservation {
	return model.Reservation{
		ID:            uuid.NewString(),
		EquipmentKind: equipmentModel.KindElectric,
		EquipmentID:   equipmentID,
		Requester:     "alice",
		StartDate:     day(start),
		EndDate:       day(end),
		Status:        model.StatusActive,
	}
}

func insert(ctx context.Context, store repository.Reservation, r model.Reservation) error {
	return store.WithinEquipmentTx(ctx, r.EquipmentKind, r.EquipmentID, func(ctx context.Context, tx repository.Tx) error {
		return tx.Insert(ctx, r)
	})
}

func TestInMemory_InsertEnforcesOverlap(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemory()

	require.NoError(t, insert(ctx, store, reservation("E1", "2024-06-01", "2024-06-05")))

	err := insert(ctx, store, reservation("E1", "2024-06-05", "2024-06-08"))
	assert.True(t, failure.IsType(err, failure.TypeConflict), "got %v", err)

	assert.NoError(t, insert(ctx, store, reservation("E1", "2024-06-06", "2024-06-08")))
	assert.NoError(t, insert(ctx, store, reservation("E2", "2024-06-01", "2024-06-05")))

	total, err := store.Count(ctx, model.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestInMemory_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemory()
	first := reservation("E1", "2024-06-01", "2024-06-05")
	boom := errors.New("boom")

	err := store.WithinEquipmentTx(ctx, first.EquipmentKind, first.EquipmentID, func(ctx context.Context, tx repository.Tx) error {
		require.NoError(t, tx.Insert(ctx, first))

		active, err := tx.ActiveByEquipment(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 1)

		return boom
	})

	assert.ErrorIs(t, err, boom)

	_, found, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemory_UpdateAndCancel(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemory()
	first := reservation("E1", "2024-06-01", "2024-06-05")
	second := reservation("E1", "2024-06-10", "2024-06-12")

	require.NoError(t, insert(ctx, store, first))
	require.NoError(t, insert(ctx, store, second))

	err := store.WithinEquipmentTx(ctx, first.EquipmentKind, first.EquipmentID, func(ctx context.Context, tx repository.Tx) error {
		return tx.Update(ctx, second.ID, map[string]any{model.FieldStartDate: day("2024-06-05")})
	})
	assert.True(t, failure.IsType(err, failure.TypeConflict), "got %v", err)

	now := time.Now()
	err = store.WithinEquipmentTx(ctx, first.EquipmentKind, first.EquipmentID, func(ctx context.Context, tx repository.Tx) error {
		return tx.Update(ctx, first.ID, map[string]any{
			model.FieldStatus:       string(model.StatusCancelled),
			model.FieldCancelledAt:  now,
			model.FieldCancelReason: "rain",
		})
	})
	require.NoError(t, err)

	got, found, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.Equal(t, "rain", *got.CancelReason)

	// The cancelled range is free again.
	assert.NoError(t, insert(ctx, store, reservation("E1", "2024-06-02", "2024-06-03")))
}

func TestInMemory_GetAllPagination(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemory()

	for _, start := range []string{"2024-06-20", "2024-06-01", "2024-06-10"} {
		require.NoError(t, insert(ctx, store, reservation("E1", start, start)))
	}

	params := gDto.QueryParams{Page: 1, Limit: 2, SortBy: model.FieldStartDate, SortDir: gDto.SortDirAsc}

	page, err := store.GetAll(ctx, params, model.Filter{})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, day("2024-06-01"), page[0].StartDate)
	assert.Equal(t, day("2024-06-10"), page[1].StartDate)

	params.Page = 2
	page, err = store.GetAll(ctx, params, model.Filter{})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, day("2024-06-20"), page[0].StartDate)

	params.Page = 3
	page, err = store.GetAll(ctx, params, model.Filter{})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestInMemory_CountByEquipment(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemory()

	require.NoError(t, insert(ctx, store, reservation("E1", "2024-06-01", "2024-06-01")))
	require.NoError(t, insert(ctx, store, reservation("E1", "2024-06-03", "2024-06-03")))
	require.NoError(t, insert(ctx, store, reservation("E2", "2024-06-01", "2024-06-01")))

	counts, err := store.CountByEquipment(ctx, model.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []model.EquipmentCount{
		{EquipmentKind: equipmentModel.KindElectric, EquipmentID: "E1", Total: 2},
		{EquipmentKind: equipmentModel.KindElectric, EquipmentID: "E2", Total: 1},
	}, counts)
}

func TestInMemory_ConcurrentInsertsOneWins(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemory()

	const writers = 16

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)

	for range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := store.WithinEquipmentTx(ctx, equipmentModel.KindElectric, "E1", func(ctx context.Context, tx repository.Tx) error {
				active, err := tx.ActiveByEquipment(ctx)
				if err != nil {
					return err
				}

				candidate := reservation("E1", "2024-06-01", "2024-06-05")
				if model.HasConflict(active, candidate.StartDate, candidate.EndDate, "") {
					return failure.Conflict("equipment already booked in that period")
				}

				return tx.Insert(ctx, candidate)
			})

			switch {
			case err == nil:
				succeeded.Add(1)
			case failure.IsType(err, failure.TypeConflict):
				conflicts.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(writers-1), conflicts.Load())
}
