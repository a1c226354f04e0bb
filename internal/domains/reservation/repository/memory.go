package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	equipmentModel "toolhub/internal/domains/equipment/model"
	"toolhub/internal/domains/reservation/model"
	"toolhub/shared/constant"
	gDto "toolhub/shared/dto"
	"toolhub/shared/failure"
	"toolhub/shared/timezone"
)

type memoryStore struct {
	mu   sync.RWMutex
	rows map[string]model.Reservation

	keysMu sync.Mutex
	keys   map[string]*sync.Mutex
}

// NewInMemory returns a store held in process memory. Transactions on one item are
// serialised and every write is checked against the overlap rule, as the database
// exclusion constraint does.
func NewInMemory() Reservation {
	return &memoryStore{
		rows: map[string]model.Reservation{},
		keys: map[string]*sync.Mutex{},
	}
}

func (m *memoryStore) keyLock(key string) *sync.Mutex {
	m.keysMu.Lock()
	defer m.keysMu.Unlock()

	lock, ok := m.keys[key]
	if !ok {
		lock = &sync.Mutex{}
		m.keys[key] = lock
	}

	return lock
}

func (m *memoryStore) snapshot() []model.Reservation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Collect(maps.Values(m.rows))
}

func (m *memoryStore) Get(_ context.Context, id string) (model.Reservation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res, ok := m.rows[id]

	return res, ok, nil
}

func (m *memoryStore) match(filter model.Filter) []model.Reservation {
	res := []model.Reservation{}

	for _, r := range m.snapshot() {
		if filter.Match(r) {
			res = append(res, r)
		}
	}

	return res
}

func compareBy(field string, a, b model.Reservation) int {
	switch field {
	case model.FieldStartDate:
		return a.StartDate.Compare(b.StartDate)
	case model.FieldEndDate:
		return a.EndDate.Compare(b.EndDate)
	case model.FieldRequester:
		return strings.Compare(a.Requester, b.Requester)
	case model.FieldStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (m *memoryStore) GetAll(_ context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Reservation, error) {
	res := m.match(filter)

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = constant.FieldCreatedAt
	}

	slices.SortStableFunc(res, func(a, b model.Reservation) int {
		cmp := compareBy(sortBy, a, b)
		if cmp == 0 {
			cmp = strings.Compare(a.ID, b.ID)
		}

		if params.SortDir == gDto.SortDirDesc {
			return -cmp
		}

		return cmp
	})

	if params.Limit <= 0 {
		return res, nil
	}

	offset := 0
	if params.Page > 0 {
		offset = (params.Page - 1) * params.Limit
	}

	if offset >= len(res) {
		return []model.Reservation{}, nil
	}

	return res[offset:min(offset+params.Limit, len(res))], nil
}

func (m *memoryStore) Count(_ context.Context, filter model.Filter) (int, error) {
	return len(m.match(filter)), nil
}

func (m *memoryStore) CountByEquipment(_ context.Context, filter model.Filter) ([]model.EquipmentCount, error) {
	grouped := map[string]*model.EquipmentCount{}

	for _, r := range m.match(filter) {
		count, ok := grouped[r.EquipmentKey()]
		if !ok {
			count = &model.EquipmentCount{EquipmentKind: r.EquipmentKind, EquipmentID: r.EquipmentID}
			grouped[r.EquipmentKey()] = count
		}

		count.Total++
	}

	res := make([]model.EquipmentCount, 0, len(grouped))
	for _, count := range grouped {
		res = append(res, *count)
	}

	sortCounts(res)

	return res, nil
}

func (m *memoryStore) WithinEquipmentTx(ctx context.Context, kind equipmentModel.Kind, equipmentID string, fn func(ctx context.Context, tx Tx) error) error {
	lock := m.keyLock(model.LockKey(kind, equipmentID))
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	tx := &memoryTx{store: m, kind: kind, equipmentID: equipmentID, staged: map[string]model.Reservation{}}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	maps.Copy(m.rows, tx.staged)

	return nil
}

type memoryTx struct {
	store       *memoryStore
	kind        equipmentModel.Kind
	equipmentID string
	staged      map[string]model.Reservation
}

// view is the committed state of the item overlaid with this transaction's writes.
func (t *memoryTx) view() map[string]model.Reservation {
	rows := map[string]model.Reservation{}

	for _, r := range t.store.snapshot() {
		if r.EquipmentKind == t.kind && r.EquipmentID == t.equipmentID {
			rows[r.ID] = r
		}
	}

	maps.Copy(rows, t.staged)

	return rows
}

func (t *memoryTx) ActiveByEquipment(_ context.Context) ([]model.Reservation, error) {
	res := []model.Reservation{}

	for _, r := range t.view() {
		if r.Status == model.StatusActive {
			res = append(res, r)
		}
	}

	slices.SortFunc(res, func(a, b model.Reservation) int {
		return a.StartDate.Compare(b.StartDate)
	})

	return res, nil
}

func (t *memoryTx) GetForUpdate(_ context.Context, id string) (model.Reservation, bool, error) {
	if r, ok := t.staged[id]; ok {
		return r, true, nil
	}

	return t.store.Get(context.Background(), id)
}

// check enforces the date order and the overlap rule on the row about to be written.
func (t *memoryTx) check(r model.Reservation) error {
	if timezone.DateOnly(r.EndDate).Before(timezone.DateOnly(r.StartDate)) {
		return failure.BadRequestFromString("end_date must not be before start_date") //nolint:wrapcheck
	}

	if r.Status != model.StatusActive {
		return nil
	}

	rows := slices.Collect(maps.Values(t.view()))
	if model.HasConflict(rows, r.StartDate, r.EndDate, r.ID) {
		return failure.Conflict("equipment already booked in that period") //nolint:wrapcheck
	}

	return nil
}

func (t *memoryTx) Insert(_ context.Context, reservation model.Reservation) error {
	if reservation.EquipmentKind != t.kind || reservation.EquipmentID != t.equipmentID {
		return fmt.Errorf("reservation for %s inserted in transaction of %s", reservation.EquipmentKey(), model.EquipmentKey(t.kind, t.equipmentID))
	}

	if _, exists := t.view()[reservation.ID]; exists {
		return fmt.Errorf("failed to insert data (%s): duplicate id %s", model.EntityName, reservation.ID)
	}

	if err := t.check(reservation); err != nil {
		return err
	}

	t.staged[reservation.ID] = reservation

	return nil
}

func (t *memoryTx) Update(_ context.Context, id string, fields map[string]any) error {
	current, ok := t.view()[id]
	if !ok {
		return nil
	}

	next, err := applyFields(current, fields)
	if err != nil {
		return err
	}

	if err = t.check(next); err != nil {
		return err
	}

	t.staged[id] = next

	return nil
}

func optionalString(value any) (*string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case *string:
		return v, nil
	default:
		return nil, fmt.Errorf("unexpected value %T", value)
	}
}

// applyFields mirrors the column updates accepted by the database store.
func applyFields(r model.Reservation, fields map[string]any) (model.Reservation, error) {
	for key, value := range fields {
		var err error

		switch key {
		case model.FieldStartDate, model.FieldEndDate, constant.FieldModifiedAt:
			date, ok := value.(time.Time)
			if !ok {
				return r, fmt.Errorf("column %s expects a time, got %T", key, value)
			}

			switch key {
			case model.FieldStartDate:
				r.StartDate = date
			case model.FieldEndDate:
				r.EndDate = date
			default:
				r.ModifiedAt = date
			}
		case model.FieldCancelledAt:
			date, ok := value.(time.Time)
			if !ok {
				return r, fmt.Errorf("column %s expects a time, got %T", key, value)
			}

			r.CancelledAt = &date
		case model.FieldStatus:
			status, _ := value.(string)
			r.Status = model.Status(status)
		case constant.FieldModifiedBy:
			r.ModifiedBy, _ = value.(string)
		case model.FieldObservations:
			r.Observations, err = optionalString(value)
		case model.FieldCancelReason:
			r.CancelReason, err = optionalString(value)
		default:
			return r, fmt.Errorf("unknown column %s", key)
		}

		if err != nil {
			return r, fmt.Errorf("column %s: %w", key, err)
		}
	}

	return r, nil
}
