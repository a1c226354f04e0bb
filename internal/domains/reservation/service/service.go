package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Reservation=MockReservationService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toolhub/config"
	"toolhub/infras/otel"
	auditModel "toolhub/internal/domains/audit/model"
	auditService "toolhub/internal/domains/audit/service"
	equipmentModel "toolhub/internal/domains/equipment/model"
	equipmentService "toolhub/internal/domains/equipment/service"
	"toolhub/internal/domains/reservation/model"
	"toolhub/internal/domains/reservation/model/dto"
	"toolhub/internal/domains/reservation/repository"
	"toolhub/shared"
	"toolhub/shared/cache"
	"toolhub/shared/constant"
	gDto "toolhub/shared/dto"
	"toolhub/shared/failure"
	"toolhub/shared/locker"
	"toolhub/shared/logger"
	"toolhub/shared/timezone"
	"toolhub/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	cacheCalendar   = "reservation:calendar"
	cacheDashboard  = "reservation:dashboard"
	cacheGeneration = "reservation:generation"

	auditEntityType = "Reservation"

	WarningAuditUnavailable = "audit log unavailable"

	opCreate = "create reservation"
	opUpdate = "update reservation"
	opCancel = "cancel reservation"
	opGet    = "get reservation"
	opList   = "list reservations"
)

var (
	errNotFound = failure.NotFound("reservation not found")
	errConflict = failure.Conflict("equipment already booked in that period")
)

// Reservation is the lifecycle of a booking: created active, optionally changed or
// cancelled, and completed once its end date has passed.
type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateReservationRequest) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelReservationRequest) (dto.ReservationResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	List(ctx context.Context, params gDto.QueryParams, req dto.ListReservationsRequest) (dto.GetReservationsResponse, error)
}

type serviceImpl struct {
	repo      repository.Reservation
	directory equipmentService.Directory
	locker    locker.Locker
	audit     auditService.Recorder
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	clock     func() time.Time
}

func New(
	repo repository.Reservation,
	directory equipmentService.Directory,
	locker locker.Locker,
	audit auditService.Recorder,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return NewWithClock(repo, directory, locker, audit, cfg, cache, otel, timezone.Now)
}

// NewWithClock is New with an explicit source of the current time.
func NewWithClock(
	repo repository.Reservation,
	directory equipmentService.Directory,
	locker locker.Locker,
	audit auditService.Recorder,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	clock func() time.Time,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		directory: directory,
		locker:    locker,
		audit:     audit,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		clock:     clock,
	}
}

// storageFailure keeps domain failures and hides everything else behind a generic message.
func storageFailure(err error, operation string) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	logger.ErrorWithStack(err)

	return failure.Storage(operation) //nolint:wrapcheck
}

// withEquipmentLock runs fn in a store transaction while holding the write lock of the item.
func (s *serviceImpl) withEquipmentLock(
	ctx context.Context,
	kind equipmentModel.Kind,
	equipmentID string,
	operation string,
	fn func(ctx context.Context, tx repository.Tx) error,
) error {
	lock, err := s.locker.Obtain(ctx, model.LockKey(kind, equipmentID))
	if err != nil {
		if errors.Is(err, locker.ErrNotObtained) {
			log.Warn().Str("equipment", model.EquipmentKey(kind, equipmentID)).Msg("equipment lock is busy")
		}

		return storageFailure(fmt.Errorf("failed to lock equipment: %w", err), operation)
	}

	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Str("equipment", model.EquipmentKey(kind, equipmentID)).Msg("failed to release equipment lock")
		}
	}()

	if err = s.repo.WithinEquipmentTx(ctx, kind, equipmentID, fn); err != nil {
		return storageFailure(err, operation)
	}

	return nil
}

// recordAudit never fails the caller: the write is already committed, so a failure is
// traced and returned as a warning for the response.
func (s *serviceImpl) recordAudit(ctx context.Context, action auditModel.Action, reservation model.Reservation, actor string, details map[string]any) []string {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordAudit")
	defer scope.End()

	err := s.audit.Record(ctx, auditModel.Event{
		Action:     action,
		EntityType: auditEntityType,
		EntityID:   reservation.ID,
		Actor:      actor,
		Timestamp:  s.clock(),
		Details:    details,
	})
	if err == nil {
		return nil
	}

	scope.TraceError(err)
	log.Error().Err(err).Str("reservation", reservation.ID).Str("action", string(action)).Msg("failed to record audit event")

	return []string{WarningAuditUnavailable}
}

// viewGeneration returns the version the cached views are keyed under. ok is false when
// the cache cannot be read, and the views then bypass it.
func viewGeneration(ctx context.Context, redisCache cache.RedisCache) (string, bool) {
	var generation string

	err := redisCache.Get(ctx, cacheGeneration, &generation)

	switch {
	case err == nil:
		return generation, true
	case errors.Is(err, cache.Nil):
		return "0", true
	default:
		log.Warn().Err(err).Msg("reservation view cache unavailable")

		return "", false
	}
}

// invalidateCaches moves the cached views to a new generation before the write returns.
// A view computed before the write can still be saved afterwards, but only under the old
// generation, which is never read again.
func (s *serviceImpl) invalidateCaches(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	if _, err := s.cache.Incr(ctx, cacheGeneration); err != nil {
		log.Error().Err(err).Msg("failed to bump reservation view generation")

		shared.InvalidateCaches(ctx, s.cache, cacheCalendar, cacheDashboard)
	}
}

func reservationDetails(r model.Reservation) map[string]any {
	return map[string]any{
		"equipment_kind": r.EquipmentKind.String(),
		"equipment_id":   r.EquipmentID,
		"requester":      r.Requester,
		"start_date":     r.StartDate.Format(time.DateOnly),
		"end_date":       r.EndDate.Format(time.DateOnly),
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateReservation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := req.Actor
	if actor == "" {
		actor = req.Requester
	}

	now := s.clock()

	reservation, err := req.ToModel(actor, now)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if _, err = s.directory.CheckAvailable(ctx, reservation.EquipmentKind, reservation.EquipmentID); err != nil {
		return res, err //nolint:wrapcheck
	}

	err = s.withEquipmentLock(ctx, reservation.EquipmentKind, reservation.EquipmentID, opCreate, func(ctx context.Context, tx repository.Tx) error {
		active, err := tx.ActiveByEquipment(ctx)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if existing, found := model.FindConflict(active, reservation.StartDate, reservation.EndDate, ""); found {
			log.Info().
				Str("equipment", reservation.EquipmentKey()).
				Str("conflicting", existing.ID).
				Msg("reservation rejected, period already booked")

			return errConflict
		}

		return tx.Insert(ctx, reservation) //nolint:wrapcheck
	})
	if err != nil {
		return res, err
	}

	res.FromModel(reservation, timezone.DateOnly(now))
	res.Warnings = s.recordAudit(ctx, auditModel.ActionCreate, reservation, actor, reservationDetails(reservation))

	s.invalidateCaches(ctx)

	return res, nil
}

// canChange reports whether actor may modify or cancel a reservation made by requester.
func canChange(requester, actor, role string) bool {
	return actor == requester || role == constant.RoleAdmin || role == constant.RoleSuperAdmin
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateReservation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("nothing to update") //nolint:wrapcheck
	}

	if req.Actor == "" {
		return res, failure.Forbidden("requester identity is required") //nolint:wrapcheck
	}

	current, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, storageFailure(err, opGet)
	}

	if !found {
		return res, errNotFound
	}

	if !canChange(current.Requester, req.Actor, req.Role) {
		return res, failure.Forbidden("only the requester or an administrator can change this reservation") //nolint:wrapcheck
	}

	now := s.clock()
	today := timezone.DateOnly(now)

	var updated model.Reservation

	err = s.withEquipmentLock(ctx, current.EquipmentKind, current.EquipmentID, opUpdate, func(ctx context.Context, tx repository.Tx) error {
		locked, found, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if !found {
			return errNotFound
		}

		if status := locked.EffectiveStatus(today); status != model.StatusActive {
			return failure.BadRequestFromString(fmt.Sprintf("%s reservation cannot be updated", status)) //nolint:wrapcheck
		}

		next, fields, err := req.Apply(locked, req.Actor, now)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if req.StartDate != nil || req.EndDate != nil {
			active, err := tx.ActiveByEquipment(ctx)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if model.HasConflict(active, next.StartDate, next.EndDate, id) {
				return errConflict
			}
		}

		if err = tx.Update(ctx, id, fields); err != nil {
			return err //nolint:wrapcheck
		}

		updated = next

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(updated, today)
	res.Warnings = s.recordAudit(ctx, auditModel.ActionUpdate, updated, req.Actor, reservationDetails(updated))

	s.invalidateCaches(ctx)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelReservation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	if req.Actor == "" {
		return res, failure.Forbidden("requester identity is required") //nolint:wrapcheck
	}

	current, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, storageFailure(err, opGet)
	}

	if !found {
		return res, errNotFound
	}

	if !canChange(current.Requester, req.Actor, req.Role) {
		return res, failure.Forbidden("only the requester or an administrator can cancel this reservation") //nolint:wrapcheck
	}

	errAlreadyCancelled := failure.AlreadyCancelled("reservation already cancelled")

	if current.Status == model.StatusCancelled {
		return res, errAlreadyCancelled
	}

	actor := req.Actor

	now := s.clock()
	today := timezone.DateOnly(now)

	var cancelled model.Reservation

	err = s.withEquipmentLock(ctx, current.EquipmentKind, current.EquipmentID, opCancel, func(ctx context.Context, tx repository.Tx) error {
		locked, found, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if !found {
			return errNotFound
		}

		switch locked.EffectiveStatus(today) {
		case model.StatusCancelled:
			return errAlreadyCancelled
		case model.StatusCompleted:
			return failure.BadRequestFromString("completed reservation cannot be cancelled") //nolint:wrapcheck
		}

		fields := req.ToFields(actor, now)
		if err = tx.Update(ctx, id, fields); err != nil {
			return err //nolint:wrapcheck
		}

		cancelled = locked
		cancelled.Status = model.StatusCancelled
		cancelled.CancelledAt = &now
		cancelled.CancelReason = nil
		cancelled.ModifiedAt = now
		cancelled.ModifiedBy = actor

		if reason, ok := fields[model.FieldCancelReason].(string); ok {
			cancelled.CancelReason = &reason
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	details := reservationDetails(cancelled)
	if cancelled.CancelReason != nil {
		details["reason"] = *cancelled.CancelReason
	}

	res.FromModel(cancelled, today)
	res.Warnings = s.recordAudit(ctx, auditModel.ActionCancel, cancelled, actor, details)

	s.invalidateCaches(ctx)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetReservation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, storageFailure(err, opGet)
	}

	if !found {
		return res, errNotFound
	}

	res.FromModel(reservation, timezone.DateOnly(s.clock()))

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, req dto.ListReservationsRequest) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListReservations")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	params.RestrictSort(dto.SortableFields, model.FieldStartDate, gDto.SortDirDesc)

	today := timezone.DateOnly(s.clock())
	filter := req.ToFilter(today)

	reservations, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		return res, storageFailure(err, opList)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return res, storageFailure(err, opList)
	}

	res.FromModels(reservations, total, params.Limit, today)

	return res, nil
}
