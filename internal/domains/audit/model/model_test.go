package model_test

import (
	"testing"
	"time"

	"toolhub/internal/domains/audit/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Validate(t *testing.T) {
	valid := model.Event{Action: model.ActionCreate, EntityType: "Reservation", EntityID: "r1", Actor: "alice"}
	assert.NoError(t, valid.Validate())

	missingActor := valid
	missingActor.Actor = "  "
	assert.Error(t, missingActor.Validate())

	missingAction := valid
	missingAction.Action = ""
	assert.Error(t, missingAction.Validate())
}

func TestEvent_ToLog(t *testing.T) {
	occurred := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	now := occurred.Add(time.Second)

	log, err := model.Event{
		ID:         "a1",
		Action:     model.ActionCancel,
		EntityType: "Reservation",
		EntityID:   "r1",
		Actor:      "bob",
		Timestamp:  occurred,
		Details:    map[string]any{"reason": "rain"},
	}.ToLog(now)

	require.NoError(t, err)
	assert.Equal(t, "CANCEL", log.Action)
	assert.JSONEq(t, `{"reason":"rain"}`, log.Details)
	assert.Equal(t, occurred, log.OccurredAt)
	assert.Equal(t, now, log.CreatedAt)

	log, err = model.Event{ID: "a2", Action: model.ActionCreate}.ToLog(now)
	require.NoError(t, err)
	assert.Equal(t, "{}", log.Details)
}
