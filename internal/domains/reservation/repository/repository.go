package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"toolhub/infras/otel"
	"toolhub/infras/postgres"
	equipmentModel "toolhub/internal/domains/equipment/model"
	"toolhub/internal/domains/reservation/model"
	"toolhub/shared"
	"toolhub/shared/constant"
	gDto "toolhub/shared/dto"
	"toolhub/shared/failure"
	"toolhub/shared/logger"
	gRepo "toolhub/shared/repository"
	"toolhub/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	queryAdvisoryLock = "SELECT pg_advisory_xact_lock(hashtext($1))"
	groupByEquipment  = "CONCAT_WS('/', " + model.TableName + "." + model.FieldEquipmentKind + ", " + model.TableName + "." + model.FieldEquipmentID + ")"
)

// Tx is a write transaction scoped to a single equipment item. No other
// transaction on the same item runs until it ends.
type Tx interface {
	ActiveByEquipment(ctx context.Context) ([]model.Reservation, error)
	GetForUpdate(ctx context.Context, id string) (model.Reservation, bool, error)
	Insert(ctx context.Context, reservation model.Reservation) error
	Update(ctx context.Context, id string, fields map[string]any) error
}

type Reservation interface {
	Get(ctx context.Context, id string) (model.Reservation, bool, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Reservation, error)
	Count(ctx context.Context, filter model.Filter) (int, error)
	CountByEquipment(ctx context.Context, filter model.Filter) ([]model.EquipmentCount, error)
	// WithinEquipmentTx runs fn in one transaction. It commits when fn returns nil and
	// rolls back otherwise.
	WithinEquipmentTx(ctx context.Context, kind equipmentModel.Kind, equipmentID string, fn func(ctx context.Context, tx Tx) error) error
}

type repositoryImpl struct {
	repo gRepo.Repository[model.Reservation]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		repo: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel: otel,
	}
}

// mapError turns constraint violations into domain failures. The exclusion constraint
// is the last line against overlapping active reservations.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeExclusionViolation:
		return failure.Conflict("equipment already booked in that period") //nolint:wrapcheck
	case constant.PqErrorCodeCheckViolation:
		return failure.BadRequestFromString("end_date must not be before start_date") //nolint:wrapcheck
	default:
		return err
	}
}

func dateArg(t time.Time) string {
	return timezone.DateOnly(t).Format(time.DateOnly)
}

func eq(field string, value any) gDto.Filter {
	return gDto.Filter{Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: model.TableName}
}

// statusFilter matches the effective status: completion is derived from end_date.
func statusFilter(status model.Status, today time.Time) gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)
	argName := "status_" + string(status)

	if today.IsZero() || status == model.StatusCancelled {
		group.Add(gDto.Filter{ArgName: argName, Field: model.FieldStatus, Value: string(status), Operator: gDto.FilterOperatorEq, Table: model.TableName})

		return group
	}

	group.Add(gDto.Filter{ArgName: argName, Field: model.FieldStatus, Value: string(model.StatusActive), Operator: gDto.FilterOperatorEq, Table: model.TableName})

	switch status {
	case model.StatusActive:
		group.Add(gDto.Filter{ArgName: "today_active", Field: model.FieldEndDate, Value: dateArg(today), Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	case model.StatusCompleted:
		group.Add(gDto.Filter{ArgName: "yesterday_completed", Field: model.FieldEndDate, Value: dateArg(today.AddDate(0, 0, -1)), Operator: gDto.FilterOperatorLessEq, Table: model.TableName})
	}

	return group
}

func rangeFilter(argName, field string, value time.Time, operator string) gDto.Filter {
	return gDto.Filter{ArgName: argName, Field: field, Value: dateArg(value), Operator: operator, Table: model.TableName}
}

// toFilterGroup renders model.Filter. Zero fields add nothing.
func toFilterGroup(filter model.Filter) gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	if filter.ID != "" {
		group.Add(eq(model.FieldID, filter.ID))
	}

	if filter.EquipmentKind != "" {
		group.Add(eq(model.FieldEquipmentKind, string(filter.EquipmentKind)))
	}

	if filter.EquipmentID != "" {
		group.Add(eq(model.FieldEquipmentID, filter.EquipmentID))
	}

	if filter.Requester != "" {
		group.Add(eq(model.FieldRequester, filter.Requester))
	}

	if len(filter.Statuses) > 0 {
		statuses := gDto.NewFilterGroup(gDto.FilterGroupOperatorOr)
		for _, status := range filter.Statuses {
			statuses.Add(statusFilter(status, filter.Today))
		}

		group.Add(statuses)
	}

	if !filter.StartFrom.IsZero() {
		group.Add(rangeFilter("start_from", model.FieldStartDate, filter.StartFrom, gDto.FilterOperatorGreaterEq))
	}

	if !filter.StartTo.IsZero() {
		group.Add(rangeFilter("start_to", model.FieldStartDate, filter.StartTo, gDto.FilterOperatorLessEq))
	}

	if !filter.EndFrom.IsZero() {
		group.Add(rangeFilter("end_from", model.FieldEndDate, filter.EndFrom, gDto.FilterOperatorGreaterEq))
	}

	if !filter.EndTo.IsZero() {
		group.Add(rangeFilter("end_to", model.FieldEndDate, filter.EndTo, gDto.FilterOperatorLessEq))
	}

	return group
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (res model.Reservation, found bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if uuid.Validate(id) != nil {
		return res, false, nil
	}

	return r.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) (res []model.Reservation, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return r.repo.GetAll(ctx, params, toFilterGroup(filter)) //nolint:wrapcheck
}

func (r *repositoryImpl) Count(ctx context.Context, filter model.Filter) (total int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return r.repo.Count(ctx, toFilterGroup(filter)) //nolint:wrapcheck
}

func (r *repositoryImpl) CountByEquipment(ctx context.Context, filter model.Filter) (res []model.EquipmentCount, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CountByEquipment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	grouped, err := r.repo.CountBy(ctx, groupByEquipment, toFilterGroup(filter))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	res = make([]model.EquipmentCount, 0, len(grouped))

	for key, total := range grouped {
		kind, equipmentID, _ := strings.Cut(key, "/")

		res = append(res, model.EquipmentCount{
			EquipmentKind: equipmentModel.Kind(kind),
			EquipmentID:   equipmentID,
			Total:         total,
		})
	}

	sortCounts(res)

	return res, nil
}

// sortCounts orders by total descending, then by equipment.
func sortCounts(counts []model.EquipmentCount) {
	slices.SortFunc(counts, func(a, b model.EquipmentCount) int {
		if a.Total != b.Total {
			return b.Total - a.Total
		}

		return strings.Compare(model.EquipmentKey(a.EquipmentKind, a.EquipmentID), model.EquipmentKey(b.EquipmentKind, b.EquipmentID))
	})
}

func (r *repositoryImpl) WithinEquipmentTx(ctx context.Context, kind equipmentModel.Kind, equipmentID string, fn func(ctx context.Context, tx Tx) error) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.WithinEquipmentTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	sqlTx, err := r.repo.BeginTx(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to rollback reservation transaction")
		}
	}()

	// Serialises writers on the same item across every instance sharing the database,
	// whatever lock driver the service runs with.
	if _, err = sqlTx.ExecContext(ctx, queryAdvisoryLock, model.LockKey(kind, equipmentID)); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock equipment %s: %w", model.EquipmentKey(kind, equipmentID), err)
	}

	if err = fn(ctx, &txImpl{tx: sqlTx, repo: &r.repo, otel: r.otel, kind: kind, equipmentID: equipmentID}); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return mapError(fmt.Errorf("failed to commit reservation transaction: %w", err))
	}

	return nil
}

type txImpl struct {
	tx          *sqlx.Tx
	repo        *gRepo.Repository[model.Reservation]
	otel        otel.Otel
	kind        equipmentModel.Kind
	equipmentID string
}

func (t *txImpl) ActiveByEquipment(ctx context.Context) (res []model.Reservation, err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ActiveByEquipment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	// Stored status, not effective status: a finished reservation still blocks its own days.
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)
	group.Add(
		eq(model.FieldEquipmentKind, string(t.kind)),
		eq(model.FieldEquipmentID, t.equipmentID),
		eq(model.FieldStatus, string(model.StatusActive)),
	)

	params := gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: gDto.SortDirAsc}

	return t.repo.GetAllTx(ctx, t.tx, params, group) //nolint:wrapcheck
}

func (t *txImpl) GetForUpdate(ctx context.Context, id string) (res model.Reservation, found bool, err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetForUpdate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if uuid.Validate(id) != nil {
		return res, false, nil
	}

	return t.repo.GetTx(ctx, t.tx, shared.FilterByID(id, model.FieldID, model.TableName), true) //nolint:wrapcheck
}

func (t *txImpl) Insert(ctx context.Context, reservation model.Reservation) (err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if reservation.EquipmentKind != t.kind || reservation.EquipmentID != t.equipmentID {
		return fmt.Errorf("reservation for %s inserted in transaction of %s", reservation.EquipmentKey(), model.EquipmentKey(t.kind, t.equipmentID))
	}

	return mapError(t.repo.InsertTx(ctx, t.tx, reservation))
}

func (t *txImpl) Update(ctx context.Context, id string, fields map[string]any) (err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	values := maps.Clone(fields)

	for _, key := range []string{model.FieldStartDate, model.FieldEndDate} {
		if date, ok := values[key].(time.Time); ok {
			values[key] = dateArg(date)
		}
	}

	return mapError(t.repo.UpdateTx(ctx, t.tx, values, shared.FilterByID(id, model.FieldID, model.TableName)))
}
