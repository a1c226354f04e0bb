package service

//go:generate go run go.uber.org/mock/mockgen -source=./calendar.go -destination=../mocks/calendar_mock.go -package=mocks

import (
	"context"
	"time"

	"toolhub/config"
	"toolhub/infras/otel"
	"toolhub/internal/domains/reservation/model"
	"toolhub/internal/domains/reservation/model/dto"
	"toolhub/internal/domains/reservation/repository"
	"toolhub/shared"
	"toolhub/shared/cache"
	"toolhub/shared/constant"
	gDto "toolhub/shared/dto"
	"toolhub/shared/timezone"
	"toolhub/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	defaultUpcomingWindowDays = 7

	opCalendar  = "load reservation calendar"
	opDashboard = "load reservation dashboard"
)

// Calendar serves the read-only views over reservations. Results are cached per day and
// per view generation, which every committed write advances.
type Calendar interface {
	ReservationsForEquipmentInMonth(ctx context.Context, req dto.CalendarRequest) (dto.CalendarResponse, error)
	DashboardStats(ctx context.Context, req dto.DashboardRequest) (dto.DashboardResponse, error)
}

type calendarImpl struct {
	repo  repository.Reservation
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	clock func() time.Time
}

func NewCalendar(repo repository.Reservation, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Calendar {
	return NewCalendarWithClock(repo, cfg, cache, otel, timezone.Now)
}

func NewCalendarWithClock(repo repository.Reservation, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, clock func() time.Time) Calendar {
	return &calendarImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		clock: clock,
	}
}

func (s *calendarImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save reservation view to cache")
		}
	}()
}

func (s *calendarImpl) ReservationsForEquipmentInMonth(ctx context.Context, req dto.CalendarRequest) (res dto.CalendarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReservationsForEquipmentInMonth")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	today := timezone.DateOnly(s.clock())

	generation, cached := viewGeneration(ctx, s.cache)
	cacheKey := shared.BuildCacheKey(cacheCalendar, generation, today.Format(time.DateOnly), req.Kind, req.EquipmentID, req.Year, req.Month)

	if cached {
		if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
			return res, nil
		}
	}

	params := gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: gDto.SortDirAsc}

	reservations, err := s.repo.GetAll(ctx, params, req.ToFilter(today))
	if err != nil {
		return res, storageFailure(err, opCalendar)
	}

	res.FromModels(req, reservations, today)

	if cached {
		s.save(ctx, cacheKey, res)
	}

	return res, nil
}

func (s *calendarImpl) windowDays(days int) int {
	switch {
	case days > 0:
		return days
	case s.cfg.Reservation.UpcomingWindowDays > 0:
		return s.cfg.Reservation.UpcomingWindowDays
	default:
		return defaultUpcomingWindowDays
	}
}

// DashboardStats counts reservations as of today. active_today covers today, upcoming
// starts within the next days, and completion is derived from the end date.
func (s *calendarImpl) DashboardStats(ctx context.Context, req dto.DashboardRequest) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DashboardStats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	today := timezone.DateOnly(s.clock())
	days := s.windowDays(req.Days)

	generation, cached := viewGeneration(ctx, s.cache)
	cacheKey := shared.BuildCacheKey(cacheDashboard, generation, today.Format(time.DateOnly), days)

	if cached {
		if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
			return res, nil
		}
	}

	counts := []struct {
		target *int
		filter model.Filter
	}{
		{target: &res.Total, filter: model.Filter{}},
		{target: &res.ActiveToday, filter: model.Filter{Statuses: []model.Status{model.StatusActive}, Today: today, StartTo: today, EndFrom: today}},
		{target: &res.Upcoming, filter: model.Filter{Statuses: []model.Status{model.StatusActive}, Today: today, StartFrom: today, StartTo: today.AddDate(0, 0, days)}},
		{target: &res.Completed, filter: model.Filter{Statuses: []model.Status{model.StatusCompleted}, Today: today}},
		{target: &res.Cancelled, filter: model.Filter{Statuses: []model.Status{model.StatusCancelled}, Today: today}},
	}

	for _, count := range counts {
		if *count.target, err = s.repo.Count(ctx, count.filter); err != nil {
			return dto.DashboardResponse{}, storageFailure(err, opDashboard)
		}
	}

	byEquipment, err := s.repo.CountByEquipment(ctx, model.Filter{})
	if err != nil {
		return dto.DashboardResponse{}, storageFailure(err, opDashboard)
	}

	res.Date = today.Format(time.DateOnly)
	res.UpcomingWindowDays = days
	res.SetByEquipment(byEquipment)

	if cached {
		s.save(ctx, cacheKey, res)
	}

	return res, nil
}
