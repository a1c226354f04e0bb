package model

import (
	"fmt"
	"slices"
	"time"

	equipmentModel "toolhub/internal/domains/equipment/model"
	"toolhub/shared/model"
	"toolhub/shared/timezone"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID            = "id"
	FieldEquipmentKind = "equipment_kind"
	FieldEquipmentID   = "equipment_id"
	FieldRequester     = "requester"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldStatus        = "status"
	FieldObservations  = "observations"
	FieldCancelReason  = "cancel_reason"
	FieldCancelledAt   = "cancelled_at"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCancelled || s == StatusCompleted
}

type Reservation struct {
	ID            string              `db:"id"`
	EquipmentKind equipmentModel.Kind `db:"equipment_kind"`
	EquipmentID   string              `db:"equipment_id"`
	Requester     string              `db:"requester"`
	StartDate     time.Time           `db:"start_date"`
	EndDate       time.Time           `db:"end_date"`
	Status        Status              `db:"status"`
	Observations  *string             `db:"observations"`
	CancelReason  *string             `db:"cancel_reason"`
	CancelledAt   *time.Time          `db:"cancelled_at"`
	model.Metadata
}

// EffectiveStatus derives completion lazily: an active reservation whose end date is
// before today is completed, without that ever being written.
func (r Reservation) EffectiveStatus(today time.Time) Status {
	if r.Status == StatusActive && timezone.DateOnly(r.EndDate).Before(timezone.DateOnly(today)) {
		return StatusCompleted
	}

	return r.Status
}

func (r Reservation) EquipmentKey() string {
	return EquipmentKey(r.EquipmentKind, r.EquipmentID)
}

// EquipmentKey identifies one physical item. Ids are only unique within a kind.
func EquipmentKey(kind equipmentModel.Kind, equipmentID string) string {
	return fmt.Sprintf("%s:%s", kind, equipmentID)
}

// LockKey is the name of the per-equipment write lock.
func LockKey(kind equipmentModel.Kind, equipmentID string) string {
	return EntityName + ":" + EquipmentKey(kind, equipmentID)
}

// Filter is the typed query over reservations. Zero values are ignored.
// Statuses are matched against the effective status as of Today.
type Filter struct {
	ID            string
	EquipmentKind equipmentModel.Kind
	EquipmentID   string
	Requester     string
	Statuses      []Status
	StartFrom     time.Time
	StartTo       time.Time
	EndFrom       time.Time
	EndTo         time.Time
	Today         time.Time
}

func (f Filter) Match(r Reservation) bool {
	switch {
	case f.ID != "" && r.ID != f.ID:
		return false
	case f.EquipmentKind != "" && r.EquipmentKind != f.EquipmentKind:
		return false
	case f.EquipmentID != "" && r.EquipmentID != f.EquipmentID:
		return false
	case f.Requester != "" && r.Requester != f.Requester:
		return false
	case len(f.Statuses) > 0 && !slices.Contains(f.Statuses, r.EffectiveStatus(f.Today)):
		return false
	}

	start := timezone.DateOnly(r.StartDate)
	end := timezone.DateOnly(r.EndDate)

	return inRange(start, f.StartFrom, f.StartTo) && inRange(end, f.EndFrom, f.EndTo)
}

func inRange(value, from, to time.Time) bool {
	if !from.IsZero() && value.Before(timezone.DateOnly(from)) {
		return false
	}

	if !to.IsZero() && value.After(timezone.DateOnly(to)) {
		return false
	}

	return true
}

// MonthRange returns the first and last calendar day of month/year.
func MonthRange(month, year int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	return first, first.AddDate(0, 1, -1)
}

// EquipmentCount is the number of reservations held by one item.
type EquipmentCount struct {
	EquipmentKind equipmentModel.Kind
	EquipmentID   string
	Total         int
}
