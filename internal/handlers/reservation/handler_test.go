package reservation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"toolhub/infras/otel/mocks"
	reservationMocks "toolhub/internal/domains/reservation/mocks"
	"toolhub/internal/domains/reservation/model/dto"
	"toolhub/internal/handlers/reservation"
	"toolhub/shared/constant"
	gDto "toolhub/shared/dto"
	"toolhub/shared/failure"
	"toolhub/transport/http/middleware"
	"toolhub/transport/http/response"
)

type fixture struct {
	service  *reservationMocks.MockReservationService
	calendar *reservationMocks.MockCalendar
	router   http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	ot := mocks.NewOtel()

	f := fixture{
		service:  reservationMocks.NewMockReservationService(ctrl),
		calendar: reservationMocks.NewMockCalendar(ctrl),
	}

	identity := middleware.NewIdentityMiddleware(ot)
	handler := reservation.New(f.service, f.calendar, identity, ot)

	router := chi.NewRouter()
	router.Use(identity.Identify)
	handler.Router(router)

	f.router = router

	return f
}

func (f fixture) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var payload struct {
		Data T `json:"data"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	return payload.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.Error {
	t.Helper()

	var payload response.Error

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotNil(t, payload.Error)

	return payload
}

const validCreateBody = `{"equipment_kind":"electric","equipment_id":"E1","requester":"ana","start_date":"2025-03-01","end_date":"2025-03-05"}`

func TestHandler_CreateReservation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		headers    map[string]string
		setupMock  func(f fixture)
		wantStatus int
		wantType   string
	}{
		{
			name:    "created with caller as actor",
			body:    validCreateBody,
			headers: map[string]string{constant.RequestHeaderUserID: "u-1"},
			setupMock: func(f fixture) {
				f.service.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error) {
						assert.Equal(t, "u-1", req.Actor)
						assert.Equal(t, "E1", req.EquipmentID)

						return dto.ReservationResponse{ID: "r-1", Requester: req.Requester, Status: "active"}, nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed date rejected before the service",
			body:       `{"equipment_kind":"electric","equipment_id":"E1","requester":"ana","start_date":"01/03/2025","end_date":"2025-03-05"}`,
			setupMock:  func(_ fixture) {},
			wantStatus: http.StatusBadRequest,
			wantType:   failure.TypeValidation,
		},
		{
			name:       "unknown kind rejected",
			body:       `{"equipment_kind":"hydraulic","equipment_id":"E1","requester":"ana","start_date":"2025-03-01","end_date":"2025-03-05"}`,
			setupMock:  func(_ fixture) {},
			wantStatus: http.StatusBadRequest,
			wantType:   failure.TypeValidation,
		},
		{
			name:       "invalid json",
			body:       `{"equipment_kind":`,
			setupMock:  func(_ fixture) {},
			wantStatus: http.StatusBadRequest,
			wantType:   failure.TypeValidation,
		},
		{
			name: "overlap is a conflict",
			body: validCreateBody,
			setupMock: func(f fixture) {
				f.service.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(dto.ReservationResponse{}, failure.Conflict("equipment already booked in that period"))
			},
			wantStatus: http.StatusConflict,
			wantType:   failure.TypeConflict,
		},
		{
			name: "directory down",
			body: validCreateBody,
			setupMock: func(f fixture) {
				f.service.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(dto.ReservationResponse{}, failure.Collaborator("equipment directory"))
			},
			wantStatus: http.StatusBadGateway,
			wantType:   failure.TypeCollaborator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			rec := f.do(http.MethodPost, "/reservations", tt.body, tt.headers)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, decodeError(t, rec).Type)

				return
			}

			res := decodeData[dto.ReservationResponse](t, rec)
			assert.Equal(t, "r-1", res.ID)
			assert.Equal(t, "ana", res.Requester)
		})
	}
}

func TestHandler_GetReservations(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().
		List(gomock.Any(), gDto.QueryParams{Page: 2, Limit: 5}, dto.ListReservationsRequest{
			Kind:        "electric",
			EquipmentID: "E1",
			Status:      "completed",
		}).
		Return(dto.GetReservationsResponse{
			Reservations: []dto.ReservationResponse{{ID: "r-1", Status: "completed"}},
			TotalPage:    1,
			TotalData:    1,
		}, nil)

	rec := f.do(http.MethodGet, "/reservations?page=2&limit=5&kind=electric&equipment_id=E1&status=completed", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	res := decodeData[dto.GetReservationsResponse](t, rec)
	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.Reservations, 1)
	assert.Equal(t, "completed", res.Reservations[0].Status)
}

func TestHandler_GetReservationByID(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Get(gomock.Any(), "r-1").Return(dto.ReservationResponse{ID: "r-1"}, nil)
	f.service.EXPECT().Get(gomock.Any(), "missing").Return(dto.ReservationResponse{}, failure.NotFound("reservation not found"))

	rec := f.do(http.MethodGet, "/reservations/r-1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r-1", decodeData[dto.ReservationResponse](t, rec).ID)

	rec = f.do(http.MethodGet, "/reservations/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, failure.TypeNotFound, decodeError(t, rec).Type)
}

func TestHandler_UpdateReservation(t *testing.T) {
	body := `{"end_date":"2025-03-08"}`

	t.Run("caller required", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPatch, "/reservations/r-1", body, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, failure.TypeForbidden, decodeError(t, rec).Type)
	})

	t.Run("caller and role forwarded", func(t *testing.T) {
		f := newFixture(t)

		f.service.EXPECT().
			Update(gomock.Any(), "r-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, req dto.UpdateReservationRequest) (dto.ReservationResponse, error) {
				assert.Equal(t, "u-9", req.Actor)
				assert.Equal(t, constant.RoleAdmin, req.Role)
				require.NotNil(t, req.EndDate)
				assert.Equal(t, "2025-03-08", *req.EndDate)

				return dto.ReservationResponse{ID: "r-1", EndDate: "2025-03-08"}, nil
			})

		rec := f.do(http.MethodPatch, "/reservations/r-1", body, map[string]string{
			constant.RequestHeaderUserID:   "u-9",
			constant.RequestHeaderUserRole: " ADMIN ",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2025-03-08", decodeData[dto.ReservationResponse](t, rec).EndDate)
	})

	t.Run("not the requester", func(t *testing.T) {
		f := newFixture(t)

		f.service.EXPECT().Update(gomock.Any(), "r-1", gomock.Any()).
			Return(dto.ReservationResponse{}, failure.Forbidden("only the requester or an admin may change this reservation"))

		rec := f.do(http.MethodPatch, "/reservations/r-1", body, map[string]string{constant.RequestHeaderUserID: "u-2"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandler_CancelReservation(t *testing.T) {
	t.Run("caller required", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/reservations/r-1/cancel", "", nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, failure.TypeForbidden, decodeError(t, rec).Type)
	})

	t.Run("without body", func(t *testing.T) {
		f := newFixture(t)

		f.service.EXPECT().
			Cancel(gomock.Any(), "r-1", dto.CancelReservationRequest{Actor: "u-1", Role: constant.RoleUser}).
			Return(dto.ReservationResponse{ID: "r-1", Status: "cancelled"}, nil)

		rec := f.do(http.MethodPost, "/reservations/r-1/cancel", "", map[string]string{constant.RequestHeaderUserID: "u-1"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cancelled", decodeData[dto.ReservationResponse](t, rec).Status)
	})

	t.Run("with reason", func(t *testing.T) {
		f := newFixture(t)

		f.service.EXPECT().
			Cancel(gomock.Any(), "r-1", dto.CancelReservationRequest{Reason: "broken", Actor: "u-1", Role: constant.RoleSuperAdmin}).
			Return(dto.ReservationResponse{ID: "r-1", Status: "cancelled"}, nil)

		rec := f.do(http.MethodPost, "/reservations/r-1/cancel", `{"reason":"broken"}`, map[string]string{
			constant.RequestHeaderUserID:   "u-1",
			constant.RequestHeaderUserRole: "superadmin",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("repeated", func(t *testing.T) {
		f := newFixture(t)

		f.service.EXPECT().Cancel(gomock.Any(), "r-1", gomock.Any()).
			Return(dto.ReservationResponse{}, failure.AlreadyCancelled("reservation already cancelled"))

		rec := f.do(http.MethodPost, "/reservations/r-1/cancel", "", map[string]string{constant.RequestHeaderUserID: "u-1"})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, failure.TypeAlreadyCancelled, decodeError(t, rec).Type)
	})
}

func TestHandler_GetCalendar(t *testing.T) {
	f := newFixture(t)

	req := dto.CalendarRequest{Kind: "electric", EquipmentID: "E1", Month: 3, Year: 2025}
	f.calendar.EXPECT().
		ReservationsForEquipmentInMonth(gomock.Any(), req).
		Return(dto.CalendarResponse{EquipmentKind: "electric", EquipmentID: "E1", Month: 3, Year: 2025}, nil)

	rec := f.do(http.MethodGet, "/reservations/calendar?kind=electric&equipment_id=E1&month=3&year=2025", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeData[dto.CalendarResponse](t, rec).Month)
}

func TestHandler_GetDashboard(t *testing.T) {
	f := newFixture(t)

	f.calendar.EXPECT().
		DashboardStats(gomock.Any(), dto.DashboardRequest{Days: 7}).
		Return(dto.DashboardResponse{Date: "2025-03-10", Total: 2, Upcoming: 1, UpcomingWindowDays: 7}, nil)
	f.calendar.EXPECT().
		DashboardStats(gomock.Any(), dto.DashboardRequest{Days: -1}).
		Return(dto.DashboardResponse{}, failure.BadRequestFromString("days must be 0 or greater"))

	rec := f.do(http.MethodGet, "/reservations/dashboard?days=7", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	res := decodeData[dto.DashboardResponse](t, rec)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Upcoming)

	rec = f.do(http.MethodGet, "/reservations/dashboard?days=soon", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
