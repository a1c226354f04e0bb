package dto

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	equipmentModel "toolhub/internal/domains/equipment/model"
	"toolhub/internal/domains/reservation/model"
	"toolhub/shared"
	"toolhub/shared/constant"
	gDto "toolhub/shared/dto"
	"toolhub/shared/failure"
	gModel "toolhub/shared/model"
	"toolhub/shared/timezone"

	"github.com/google/uuid"
)

const (
	QueryParamKind        = "kind"
	QueryParamEquipmentID = "equipment_id"
	QueryParamRequester   = "requester"
	QueryParamStatus      = "status"
	QueryParamMonth       = "month"
	QueryParamYear        = "year"
	QueryParamDays        = "days"
)

var errDateOrder = failure.BadRequestFromString("end_date must not be before start_date")

// SortableFields are the columns a list request may order by.
var SortableFields = []string{
	model.FieldStartDate,
	model.FieldEndDate,
	model.FieldRequester,
	model.FieldStatus,
	constant.FieldCreatedAt,
}

// parseRange parses both calendar dates and checks their order.
func parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := timezone.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("start_date must be a YYYY-MM-DD date") //nolint:wrapcheck
	}

	endDate, err := timezone.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("end_date must be a YYYY-MM-DD date") //nolint:wrapcheck
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, errDateOrder
	}

	return startDate, endDate, nil
}

type CreateReservationRequest struct {
	EquipmentKind string  `json:"equipment_kind" validate:"required,oneof=electric manual"`
	EquipmentID   string  `json:"equipment_id"   validate:"required,notblank,max=64"`
	Requester     string  `json:"requester"      validate:"required,notblank,max=100"`
	StartDate     string  `json:"start_date"     validate:"required,dateonly"`
	EndDate       string  `json:"end_date"       validate:"required,dateonly"`
	Observations  *string `json:"observations"   validate:"omitempty,max=1000"`

	// Actor is the authenticated caller, taken from the request context.
	Actor string `json:"-"`
}

func (c *CreateReservationRequest) Kind() equipmentModel.Kind {
	return equipmentModel.Kind(c.EquipmentKind)
}

// ToModel builds a new active reservation. The dates are re-checked here so that a
// request that skipped struct validation still cannot produce an inverted range.
func (c *CreateReservationRequest) ToModel(actor string, now time.Time) (model.Reservation, error) {
	start, end, err := parseRange(c.StartDate, c.EndDate)
	if err != nil {
		return model.Reservation{}, err
	}

	var observations *string
	if c.Observations != nil && strings.TrimSpace(*c.Observations) != "" {
		trimmed := strings.TrimSpace(*c.Observations)
		observations = &trimmed
	}

	return model.Reservation{
		ID:            uuid.NewString(),
		EquipmentKind: c.Kind(),
		EquipmentID:   strings.TrimSpace(c.EquipmentID),
		Requester:     strings.TrimSpace(c.Requester),
		StartDate:     start,
		EndDate:       end,
		Status:        model.StatusActive,
		Observations:  observations,
		Metadata:      gModel.NewMetadata(actor, now),
	}, nil
}

// UpdateReservationRequest changes only the fields that are present.
type UpdateReservationRequest struct {
	StartDate    *string `json:"start_date"   validate:"omitempty,dateonly"`
	EndDate      *string `json:"end_date"     validate:"omitempty,dateonly"`
	Observations *string `json:"observations" validate:"omitempty,max=1000"`

	Actor string `json:"-"`
	Role  string `json:"-"`
}

func (u *UpdateReservationRequest) IsEmpty() bool {
	return u.StartDate == nil && u.EndDate == nil && u.Observations == nil
}

// Apply merges the request into current and returns the resulting reservation
// together with the changed columns.
func (u *UpdateReservationRequest) Apply(current model.Reservation, actor string, now time.Time) (model.Reservation, map[string]any, error) {
	next := current
	fields := map[string]any{}

	start := current.StartDate.Format(time.DateOnly)
	if u.StartDate != nil {
		start = *u.StartDate
	}

	end := current.EndDate.Format(time.DateOnly)
	if u.EndDate != nil {
		end = *u.EndDate
	}

	startDate, endDate, err := parseRange(start, end)
	if err != nil {
		return current, nil, err
	}

	if u.StartDate != nil {
		next.StartDate = startDate
		fields[model.FieldStartDate] = startDate
	}

	if u.EndDate != nil {
		next.EndDate = endDate
		fields[model.FieldEndDate] = endDate
	}

	if u.Observations != nil {
		// A blank value clears the observations.
		next.Observations = nil
		fields[model.FieldObservations] = nil

		if observations := strings.TrimSpace(*u.Observations); observations != "" {
			next.Observations = &observations
			fields[model.FieldObservations] = observations
		}
	}

	next.ModifiedAt = now
	next.ModifiedBy = actor
	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = actor

	return next, fields, nil
}

type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`

	Actor string `json:"-"`
	Role  string `json:"-"`
}

// ToFields returns the columns written by a cancellation.
func (c *CancelReservationRequest) ToFields(actor string, now time.Time) map[string]any {
	fields := map[string]any{
		model.FieldStatus:        string(model.StatusCancelled),
		model.FieldCancelReason:  nil,
		model.FieldCancelledAt:   now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	if reason := strings.TrimSpace(c.Reason); reason != "" {
		fields[model.FieldCancelReason] = reason
	}

	return fields
}

type ListReservationsRequest struct {
	Kind        string `json:"kind"         validate:"omitempty,oneof=electric manual"`
	EquipmentID string `json:"equipment_id" validate:"omitempty,max=64"`
	Requester   string `json:"requester"    validate:"omitempty,max=100"`
	Status      string `json:"status"       validate:"omitempty,oneof=active cancelled completed"`
	Month       int    `json:"month"        validate:"omitempty,min=1,max=12"`
	Year        int    `json:"year"         validate:"omitempty,min=1900,max=9999"`
}

func atoi(value string) int {
	if value == "" {
		return 0
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		// Out of every accepted range, so validation rejects it.
		return -1
	}

	return n
}

func (l *ListReservationsRequest) FromRequest(r *http.Request) {
	query := r.URL.Query()

	l.Kind = strings.TrimSpace(query.Get(QueryParamKind))
	l.EquipmentID = strings.TrimSpace(query.Get(QueryParamEquipmentID))
	l.Requester = strings.TrimSpace(query.Get(QueryParamRequester))
	l.Status = strings.TrimSpace(query.Get(QueryParamStatus))
	l.Month = atoi(query.Get(QueryParamMonth))
	l.Year = atoi(query.Get(QueryParamYear))
}

// ToFilter translates the request. A month without a year refers to the current year,
// a year without a month covers the whole year.
func (l *ListReservationsRequest) ToFilter(today time.Time) model.Filter {
	filter := model.Filter{
		EquipmentKind: equipmentModel.Kind(l.Kind),
		EquipmentID:   l.EquipmentID,
		Requester:     l.Requester,
		Today:         today,
	}

	if l.Status != "" {
		filter.Statuses = []model.Status{model.Status(l.Status)}
	}

	switch {
	case l.Month > 0:
		year := l.Year
		if year == 0 {
			year = today.Year()
		}

		filter.StartFrom, filter.StartTo = model.MonthRange(l.Month, year)
	case l.Year > 0:
		filter.StartFrom, _ = model.MonthRange(1, l.Year)
		_, filter.StartTo = model.MonthRange(12, l.Year)
	}

	return filter
}

type ReservationResponse struct {
	ID            string        `json:"id"`
	EquipmentKind string        `json:"equipment_kind"`
	EquipmentID   string        `json:"equipment_id"`
	Requester     string        `json:"requester"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	Status        string        `json:"status"`
	Observations  *string       `json:"observations"`
	CancelReason  *string       `json:"cancel_reason,omitempty"`
	CancelledAt   *string       `json:"cancelled_at,omitempty"`
	Metadata      gDto.Metadata `json:"metadata"`
	Warnings      []string      `json:"warnings,omitempty"`
}

// FromModel renders r with its effective status as of today.
func (r *ReservationResponse) FromModel(mod model.Reservation, today time.Time) {
	r.ID = mod.ID
	r.EquipmentKind = mod.EquipmentKind.String()
	r.EquipmentID = mod.EquipmentID
	r.Requester = mod.Requester
	r.StartDate = mod.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = mod.EndDate.Format(constant.DateOnlyFormat)
	r.Status = string(mod.EffectiveStatus(today))
	r.Observations = mod.Observations
	r.CancelReason = mod.CancelReason
	r.CancelledAt = nil

	if mod.CancelledAt != nil {
		cancelledAt := timezone.Format(*mod.CancelledAt, constant.DateFormat)
		r.CancelledAt = &cancelledAt
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int, today time.Time) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod, today)
	}
}

type CalendarRequest struct {
	Kind        string `json:"kind"         validate:"required,oneof=electric manual"`
	EquipmentID string `json:"equipment_id" validate:"required,notblank,max=64"`
	Month       int    `json:"month"        validate:"required,min=1,max=12"`
	Year        int    `json:"year"         validate:"required,min=1900,max=9999"`
}

func (c *CalendarRequest) FromRequest(r *http.Request) {
	query := r.URL.Query()

	c.Kind = strings.TrimSpace(query.Get(QueryParamKind))
	c.EquipmentID = strings.TrimSpace(query.Get(QueryParamEquipmentID))
	c.Month = atoi(query.Get(QueryParamMonth))
	c.Year = atoi(query.Get(QueryParamYear))
}

// ToFilter selects every reservation of the item starting within the month, whatever its status.
func (c *CalendarRequest) ToFilter(today time.Time) model.Filter {
	start, end := model.MonthRange(c.Month, c.Year)

	return model.Filter{
		EquipmentKind: equipmentModel.Kind(c.Kind),
		EquipmentID:   c.EquipmentID,
		StartFrom:     start,
		StartTo:       end,
		Today:         today,
	}
}

type CalendarResponse struct {
	EquipmentKind string                `json:"equipment_kind"`
	EquipmentID   string                `json:"equipment_id"`
	Month         int                   `json:"month"`
	Year          int                   `json:"year"`
	Reservations  []ReservationResponse `json:"reservations"`
}

func (c *CalendarResponse) FromModels(req CalendarRequest, models []model.Reservation, today time.Time) {
	c.EquipmentKind = req.Kind
	c.EquipmentID = req.EquipmentID
	c.Month = req.Month
	c.Year = req.Year

	c.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		c.Reservations[i].FromModel(mod, today)
	}
}

type DashboardRequest struct {
	Days int `json:"days" validate:"omitempty,min=0,max=365"`
}

func (d *DashboardRequest) FromRequest(r *http.Request) {
	d.Days = atoi(r.URL.Query().Get(QueryParamDays))
}

type EquipmentCount struct {
	EquipmentKind string `json:"equipment_kind"`
	EquipmentID   string `json:"equipment_id"`
	Total         int    `json:"total"`
}

type DashboardResponse struct {
	Date               string           `json:"date"`
	Total              int              `json:"total"`
	ActiveToday        int              `json:"active_today"`
	Upcoming           int              `json:"upcoming"`
	UpcomingWindowDays int              `json:"upcoming_window_days"`
	Completed          int              `json:"completed"`
	Cancelled          int              `json:"cancelled"`
	ByEquipment        []EquipmentCount `json:"by_equipment"`
}

func (d *DashboardResponse) SetByEquipment(counts []model.EquipmentCount) {
	d.ByEquipment = make([]EquipmentCount, len(counts))

	for i, count := range counts {
		d.ByEquipment[i] = EquipmentCount{
			EquipmentKind: count.EquipmentKind.String(),
			EquipmentID:   count.EquipmentID,
			Total:         count.Total,
		}
	}
}
