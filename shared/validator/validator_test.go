package validator_test

import (
	"strings"
	"testing"

	"toolhub/shared/failure"
	"toolhub/shared/validator"

	"github.com/stretchr/testify/assert"
)

type bookingRequest struct {
	EquipmentID string `json:"equipment_id" validate:"required,uuid"`
	Kind        string `json:"kind"         validate:"required,oneof=electric manual"`
	Requester   string `json:"requester"    validate:"notblank,max=100"`
	StartDate   string `json:"start_date"   validate:"required,dateonly"`
}

func validRequest() bookingRequest {
	return bookingRequest{
		EquipmentID: "5b8f9a52-31f4-4a51-9f0a-0c0f1a2e3d4c",
		Kind:        "electric",
		Requester:   "Ana",
		StartDate:   "2025-03-10",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *bookingRequest)
		message string
	}{
		{
			name:   "valid",
			mutate: func(_ *bookingRequest) {},
		},
		{
			name:    "missing equipment",
			mutate:  func(r *bookingRequest) { r.EquipmentID = "" },
			message: "equipment_id is required",
		},
		{
			name:    "malformed uuid",
			mutate:  func(r *bookingRequest) { r.EquipmentID = "drill-01" },
			message: "equipment_id must be a valid UUID",
		},
		{
			name:    "unknown kind",
			mutate:  func(r *bookingRequest) { r.Kind = "hydraulic" },
			message: "kind must be one of electric manual",
		},
		{
			name:    "blank requester",
			mutate:  func(r *bookingRequest) { r.Requester = "   " },
			message: "requester must not be blank",
		},
		{
			name:    "bad date",
			mutate:  func(r *bookingRequest) { r.StartDate = "10/03/2025" },
			message: "start_date must be a date in YYYY-MM-DD format",
		},
		{
			name:    "impossible date",
			mutate:  func(r *bookingRequest) { r.StartDate = "2025-02-30" },
			message: "start_date must be a date in YYYY-MM-DD format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.True(t, failure.IsType(err, failure.TypeValidation))
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-12-31", "dateonly"))
	assert.Error(t, validator.ValidateVar("2025-13-01", "dateonly"))
	assert.NoError(t, validator.ValidateVar(5, "gte=1,lte=12"))
	assert.Error(t, validator.ValidateVar(13, "gte=1,lte=12"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid body",
			body: `{"equipment_id":"5b8f9a52-31f4-4a51-9f0a-0c0f1a2e3d4c","kind":"manual","requester":"Bruno","start_date":"2025-01-01"}`,
		},
		{
			name:    "rule violation",
			body:    `{"equipment_id":"5b8f9a52-31f4-4a51-9f0a-0c0f1a2e3d4c","kind":"manual","requester":"","start_date":"2025-01-01"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"kind":}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req bookingRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)
			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.True(t, failure.IsType(err, failure.TypeValidation))
		})
	}
}
