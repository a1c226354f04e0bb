package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	equipmentModel "toolhub/internal/domains/equipment/model"
	"toolhub/internal/domains/reservation/model"
	"toolhub/shared/failure"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func day(value string) time.Time {
	parsed, _ := time.Parse(time.DateOnly, value)

	return parsed
}

func TestToFilterGroup(t *testing.T) {
	group := toFilterGroup(model.Filter{
		EquipmentKind: equipmentModel.KindElectric,
		EquipmentID:   "E1",
		Statuses:      []model.Status{model.StatusActive, model.StatusCompleted},
		StartFrom:     day("2024-06-01"),
		StartTo:       day("2024-06-30"),
		Today:         day("2024-06-10"),
	})

	where, args := group.GetWhereClause()

	assert.Equal(t,
		"(reservations.equipment_kind = :equipment_kind AND reservations.equipment_id = :equipment_id AND "+
			"((reservations.status = :status_active AND reservations.end_date >= :today_active) OR "+
			"(reservations.status = :status_completed AND reservations.end_date <= :yesterday_completed)) AND "+
			"reservations.start_date >= :start_from AND reservations.start_date <= :start_to)",
		where,
	)
	assert.Equal(t, map[string]any{
		"equipment_kind":      "electric",
		"equipment_id":        "E1",
		"status_active":       "active",
		"today_active":        "2024-06-10",
		"status_completed":    "active",
		"yesterday_completed": "2024-06-09",
		"start_from":          "2024-06-01",
		"start_to":            "2024-06-30",
	}, args)
}

func TestToFilterGroup_Cancelled(t *testing.T) {
	group := toFilterGroup(model.Filter{Statuses: []model.Status{model.StatusCancelled}, Today: day("2024-06-10")})

	where, args := group.GetWhereClause()

	assert.Equal(t, "(((reservations.status = :status_cancelled)))", where)
	assert.Equal(t, map[string]any{"status_cancelled": "cancelled"}, args)
}

func TestToFilterGroup_Empty(t *testing.T) {
	group := toFilterGroup(model.Filter{Today: day("2024-06-10")})

	assert.True(t, group.IsEmpty())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
	}{
		{name: "exclusion violation", err: fmt.Errorf("failed to insert data: %w", &pq.Error{Code: "23P01"}), wantType: failure.TypeConflict},
		{name: "check violation", err: &pq.Error{Code: "23514"}, wantType: failure.TypeValidation},
		{name: "other pq error", err: &pq.Error{Code: "08006"}, wantType: failure.TypeInternal},
		{name: "plain error", err: errors.New("broken pipe"), wantType: failure.TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, failure.GetType(mapError(tt.err)))
		})
	}

	assert.NoError(t, mapError(nil))
}

func TestSortCounts(t *testing.T) {
	counts := []model.EquipmentCount{
		{EquipmentKind: equipmentModel.KindManual, EquipmentID: "M1", Total: 1},
		{EquipmentKind: equipmentModel.KindElectric, EquipmentID: "E2", Total: 3},
		{EquipmentKind: equipmentModel.KindElectric, EquipmentID: "E1", Total: 1},
	}

	sortCounts(counts)

	assert.Equal(t, "E2", counts[0].EquipmentID)
	assert.Equal(t, "E1", counts[1].EquipmentID)
	assert.Equal(t, "M1", counts[2].EquipmentID)
}
