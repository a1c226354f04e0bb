package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	otelMocks "toolhub/infras/otel/mocks"
	auditMocks "toolhub/internal/domains/audit/mocks"
	equipmentMocks "toolhub/internal/domains/equipment/mocks"
	equipmentModel "toolhub/internal/domains/equipment/model"
	"toolhub/internal/domains/reservation/mocks"
	"toolhub/internal/domains/reservation/model"
	"toolhub/internal/domains/reservation/model/dto"
	"toolhub/internal/domains/reservation/repository"
	"toolhub/internal/domains/reservation/service"
	"toolhub/shared/cache"
	cacheMocks "toolhub/shared/cache/mocks"
	"toolhub/shared/failure"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var today = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T, store repository.Reservation, kind equipmentModel.Kind, equipmentID string, start, end time.Time, status model.Status) model.Reservation {
	t.Helper()

	r := model.Reservation{
		ID:            uuid.NewString(),
		EquipmentKind: kind,
		EquipmentID:   equipmentID,
		Requester:     "alice",
		StartDate:     start,
		EndDate:       end,
		Status:        status,
	}

	err := store.WithinEquipmentTx(context.Background(), kind, equipmentID, func(ctx context.Context, tx repository.Tx) error {
		return tx.Insert(ctx, r)
	})
	require.NoError(t, err)

	return r
}

func missingCache(ctrl *gomock.Controller) *cacheMocks.MockRedisCache {
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockCache
}

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t.Add(9 * time.Hour) }
}

func TestCalendar_DashboardScenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := repository.NewInMemory()

	seed(t, store, equipmentModel.KindElectric, "E1", today.AddDate(0, 0, -1), today.AddDate(0, 0, 1), model.StatusActive)
	seed(t, store, equipmentModel.KindElectric, "E2", today.AddDate(0, 0, 3), today.AddDate(0, 0, 5), model.StatusActive)

	svc := service.NewCalendarWithClock(store, newConfig(), missingCache(ctrl), otelMocks.NewOtel(), clockAt(today))

	res, err := svc.DashboardStats(context.Background(), dto.DashboardRequest{Days: 7})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.ActiveToday)
	assert.Equal(t, 1, res.Upcoming)
	assert.Equal(t, 7, res.UpcomingWindowDays)
	assert.Equal(t, "2024-06-10", res.Date)
	assert.Zero(t, res.Completed)
	assert.Zero(t, res.Cancelled)
	assert.Len(t, res.ByEquipment, 2)
}

func TestCalendar_DashboardStatuses(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := repository.NewInMemory()

	seed(t, store, equipmentModel.KindElectric, "E1", today.AddDate(0, 0, -9), today.AddDate(0, 0, -8), model.StatusActive)
	seed(t, store, equipmentModel.KindElectric, "E1", today, today, model.StatusActive)
	seed(t, store, equipmentModel.KindElectric, "E1", today.AddDate(0, 0, 2), today.AddDate(0, 0, 2), model.StatusCancelled)
	seed(t, store, equipmentModel.KindManual, "M1", today.AddDate(0, 0, 8), today.AddDate(0, 0, 9), model.StatusActive)

	cfg := newConfig()
	cfg.Reservation.UpcomingWindowDays = 3

	svc := service.NewCalendarWithClock(store, cfg, missingCache(ctrl), otelMocks.NewOtel(), clockAt(today))

	res, err := svc.DashboardStats(context.Background(), dto.DashboardRequest{})

	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.ActiveToday)
	assert.Equal(t, 1, res.Upcoming, "today's reservation starts within the window, the cancelled one does not count")
	assert.Equal(t, 3, res.UpcomingWindowDays)
	assert.Equal(t, 1, res.Completed)
	assert.Equal(t, 1, res.Cancelled)
	assert.Equal(t, []dto.EquipmentCount{
		{EquipmentKind: "electric", EquipmentID: "E1", Total: 3},
		{EquipmentKind: "manual", EquipmentID: "M1", Total: 1},
	}, res.ByEquipment)

	wide, err := svc.DashboardStats(context.Background(), dto.DashboardRequest{Days: 30})
	require.NoError(t, err)
	assert.Equal(t, 2, wide.Upcoming)
}

func TestCalendar_ReservationsForEquipmentInMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := repository.NewInMemory()

	late := seed(t, store, equipmentModel.KindElectric, "E1", day(2024, 6, 20), day(2024, 6, 22), model.StatusActive)
	early := seed(t, store, equipmentModel.KindElectric, "E1", day(2024, 6, 2), day(2024, 6, 3), model.StatusCancelled)
	seed(t, store, equipmentModel.KindElectric, "E1", day(2024, 5, 30), day(2024, 6, 1), model.StatusActive)
	seed(t, store, equipmentModel.KindElectric, "E2", day(2024, 6, 5), day(2024, 6, 6), model.StatusActive)

	svc := service.NewCalendarWithClock(store, newConfig(), missingCache(ctrl), otelMocks.NewOtel(), clockAt(today))

	res, err := svc.ReservationsForEquipmentInMonth(context.Background(), dto.CalendarRequest{Kind: "electric", EquipmentID: "E1", Month: 6, Year: 2024})

	require.NoError(t, err)
	require.Len(t, res.Reservations, 2)
	assert.Equal(t, early.ID, res.Reservations[0].ID)
	assert.Equal(t, "cancelled", res.Reservations[0].Status)
	assert.Equal(t, late.ID, res.Reservations[1].ID)
	assert.Equal(t, 6, res.Month)

	_, err = svc.ReservationsForEquipmentInMonth(context.Background(), dto.CalendarRequest{Kind: "electric", EquipmentID: "E1", Month: 13, Year: 2024})
	assert.True(t, failure.IsType(err, failure.TypeValidation))
}

func TestCalendar_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.NewCalendarWithClock(repo, newConfig(), mockCache, otelMocks.NewOtel(), clockAt(today))

	mockCache.EXPECT().Get(gomock.Any(), "reservation:generation", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			generation, _ := value.(*string)
			*generation = "3"

			return nil
		})
	mockCache.EXPECT().Get(gomock.Any(), "reservation:dashboard:3:2024-06-10:7", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			res, _ := value.(*dto.DashboardResponse)
			res.Total = 42

			return nil
		})

	res, err := svc.DashboardStats(context.Background(), dto.DashboardRequest{})

	require.NoError(t, err)
	assert.Equal(t, 42, res.Total)
}

func TestCalendar_CacheUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := repository.NewInMemory()

	seed(t, store, equipmentModel.KindElectric, "E1", today, today, model.StatusActive)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), "reservation:generation", gomock.Any()).Return(errors.New("dial tcp: connection refused")).Times(2)

	svc := service.NewCalendarWithClock(store, newConfig(), mockCache, otelMocks.NewOtel(), clockAt(today))

	res, err := svc.DashboardStats(context.Background(), dto.DashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	month, err := svc.ReservationsForEquipmentInMonth(context.Background(), dto.CalendarRequest{Kind: "electric", EquipmentID: "E1", Month: 6, Year: 2024})
	require.NoError(t, err)
	assert.Len(t, month.Reservations, 1)
}

func newCachedViews(t *testing.T) (service.Reservation, service.Calendar, cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ot := otelMocks.NewOtel()
	redisCache := cache.NewRedisCache(client, ot)
	store := repository.NewInMemory()

	directory := equipmentMocks.NewMockDirectory(ctrl)
	directory.EXPECT().CheckAvailable(gomock.Any(), gomock.Any(), gomock.Any()).Return(equipmentModel.Equipment{}, nil).AnyTimes()

	recorder := auditMocks.NewMockRecorder(ctrl)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	reservations := service.NewWithClock(store, directory, noLocker{}, recorder, newConfig(), redisCache, ot, clockAt(today))
	calendar := service.NewCalendarWithClock(store, newConfig(), redisCache, ot, clockAt(today))

	return reservations, calendar, redisCache, mr
}

func TestCalendar_FreshAfterWrites(t *testing.T) {
	reservations, calendar, redisCache, mr := newCachedViews(t)
	ctx := context.Background()
	june := dto.CalendarRequest{Kind: "electric", EquipmentID: "E1", Month: 6, Year: 2024}

	before, err := calendar.DashboardStats(ctx, dto.DashboardRequest{})
	require.NoError(t, err)
	assert.Zero(t, before.Total)

	emptyMonth, err := calendar.ReservationsForEquipmentInMonth(ctx, june)
	require.NoError(t, err)
	assert.Empty(t, emptyMonth.Reservations)

	require.Eventually(t, func() bool {
		return mr.Exists("reservation:dashboard:0:2024-06-10:7") && mr.Exists("reservation:calendar:0:2024-06-10:electric:E1:2024:6")
	}, time.Second, 5*time.Millisecond)

	created, err := reservations.Create(ctx, createRequest("E1", "2024-06-10", "2024-06-12"))
	require.NoError(t, err)

	after, err := calendar.DashboardStats(ctx, dto.DashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, after.Total)
	assert.Equal(t, 1, after.ActiveToday)

	month, err := calendar.ReservationsForEquipmentInMonth(ctx, june)
	require.NoError(t, err)
	require.Len(t, month.Reservations, 1)
	assert.Equal(t, created.ID, month.Reservations[0].ID)

	// A view computed before the write and saved after it stays under the old generation.
	require.NoError(t, redisCache.Save(ctx, "reservation:dashboard:0:2024-06-10:7", dto.DashboardResponse{}, 60))

	again, err := calendar.DashboardStats(ctx, dto.DashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, again.Total)

	_, err = reservations.Cancel(ctx, created.ID, dto.CancelReservationRequest{Actor: "alice"})
	require.NoError(t, err)

	cancelled, err := calendar.DashboardStats(ctx, dto.DashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled.Cancelled)
	assert.Zero(t, cancelled.ActiveToday)

	month, err = calendar.ReservationsForEquipmentInMonth(ctx, june)
	require.NoError(t, err)
	require.Len(t, month.Reservations, 1)
	assert.Equal(t, "cancelled", month.Reservations[0].Status)
}

func TestCalendar_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockReservation(ctrl)
	svc := service.NewCalendarWithClock(repo, newConfig(), missingCache(ctrl), otelMocks.NewOtel(), clockAt(today))

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("connection refused"))

	_, err := svc.DashboardStats(context.Background(), dto.DashboardRequest{})

	assert.True(t, failure.IsType(err, failure.TypeStorage), "got %v", err)
	assert.Equal(t, "failed to load reservation dashboard", err.Error())
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
