package reservation

import (
	"context"
	"net/http"

	"toolhub/infras/otel"
	"toolhub/internal/domains/reservation/model/dto"
	"toolhub/internal/domains/reservation/service"
	"toolhub/shared/constant"
	gDto "toolhub/shared/dto"
	"toolhub/shared/validator"
	"toolhub/transport/http/middleware"
	"toolhub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Reservation
	calendar service.Calendar
	identity middleware.Identity
	otel     otel.Otel
}

func New(service service.Reservation, calendar service.Calendar, identity middleware.Identity, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		calendar: calendar,
		identity: identity,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/calendar", handler.GetCalendar)
		routerGroup.Get("/dashboard", handler.GetDashboard)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.With(handler.identity.RequireIdentity).Patch("/{id}", handler.UpdateReservation)
		routerGroup.With(handler.identity.RequireIdentity).Post("/{id}/cancel", handler.CancelReservation)
	})
}

// caller returns the identity forwarded in X-User-ID and X-User-Role. The gateway in front
// of the API must overwrite both headers: the role alone grants admin rights.
func caller(ctx context.Context) (string, string) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return userID, role
}

// CreateReservation books an item for an inclusive range of days.
// @Summary Create a reservation
// @Description Reserve an available item. Fails with 409 when an active reservation of the same item overlaps the range.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Caller id forwarded by the gateway"
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Data[dto.ReservationResponse] "Created reservation"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	req.Actor, _ = caller(ctx)

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation created for " + res.Requester)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetReservations lists reservations with optional filters and pagination.
// @Summary Get reservations
// @Description List reservations. The status filter uses the effective status, so past active reservations count as completed.
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param kind query string false "Equipment kind (electric, manual)"
// @Param equipment_id query string false "Equipment id"
// @Param requester query string false "Requester"
// @Param status query string false "Status (active, cancelled, completed)"
// @Param month query int false "Start month (1-12)"
// @Param year query int false "Start year"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	req := dto.ListReservationsRequest{}
	req.FromRequest(r)

	res, err := handler.service.List(ctx, queryParams, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservations retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetReservationByID retrieves one reservation.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get reservation by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateReservation changes the dates or observations of an active reservation.
// @Summary Update a reservation
// @Description Only the requester or an admin may change a reservation. New dates are checked for conflicts, ignoring the reservation itself. X-User-ID and X-User-Role must be set by the gateway, never by the client.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller id forwarded by the gateway"
// @Param X-User-Role header string false "Caller role (user, admin, superadmin)"
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Update Reservation Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Updated reservation"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [patch]
func (handler *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateReservationRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	req.Actor, req.Role = caller(ctx)

	res, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation updated successfully by user " + req.Actor)

	response.WithJSON(w, http.StatusOK, res)
}

// CancelReservation cancels an active reservation. The body is optional.
// @Summary Cancel a reservation
// @Description Only the requester or an admin may cancel a reservation. A repeated cancellation answers 409 with type already_cancelled. X-User-ID and X-User-Role must be set by the gateway, never by the client.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller id forwarded by the gateway"
// @Param X-User-Role header string false "Caller role (user, admin, superadmin)"
// @Param id path string true "Reservation ID"
// @Param request body dto.CancelReservationRequest false "Cancel Reservation Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Cancelled reservation"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/cancel [post]
func (handler *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CancelReservationRequest{}
	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	req.Actor, req.Role = caller(ctx)

	res, err := handler.service.Cancel(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to cancel reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation cancelled")

	response.WithJSON(w, http.StatusOK, res)
}

// GetCalendar lists the reservations of one item starting within a month.
// @Summary Monthly calendar of an item
// @Tags Reservation
// @Produce json
// @Param kind query string true "Equipment kind (electric, manual)"
// @Param equipment_id query string true "Equipment id"
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Success 200 {object} response.Data[dto.CalendarResponse] "Reservations of the month"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/calendar [get]
func (handler *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCalendar")
	defer scope.End()

	req := dto.CalendarRequest{}
	req.FromRequest(r)

	res, err := handler.calendar.ReservationsForEquipmentInMonth(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation calendar")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetDashboard summarizes reservations as of today.
// @Summary Reservation dashboard
// @Tags Reservation
// @Produce json
// @Param days query int false "Upcoming window in days, defaults to the configured value"
// @Success 200 {object} response.Data[dto.DashboardResponse] "Dashboard counters"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/dashboard [get]
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	req := dto.DashboardRequest{}
	req.FromRequest(r)

	res, err := handler.calendar.DashboardStats(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation dashboard")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
