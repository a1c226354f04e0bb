package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	TableName  = "audit_logs"
	EntityName = "audit"

	FieldID = "id"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionCancel Action = "CANCEL"
)

var errIncompleteEvent = errors.New("audit event requires action, entity type, entity id and actor")

// Event is the audit record as published and consumed.
type Event struct {
	ID         string         `json:"id"`
	Action     Action         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Actor      string         `json:"actor"`
	Timestamp  time.Time      `json:"timestamp"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e Event) Validate() error {
	if e.Action == "" || strings.TrimSpace(e.EntityType) == "" || e.EntityID == "" || strings.TrimSpace(e.Actor) == "" {
		return errIncompleteEvent
	}

	return nil
}

// Log is the persisted row. Details holds the JSON document.
type Log struct {
	ID         string    `db:"id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Actor      string    `db:"actor"`
	Details    string    `db:"details"`
	OccurredAt time.Time `db:"occurred_at"`
	CreatedAt  time.Time `db:"created_at"`
}

func (e Event) ToLog(now time.Time) (Log, error) {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return Log{}, fmt.Errorf("failed to marshal audit details: %w", err)
	}

	return Log{
		ID:         e.ID,
		Action:     string(e.Action),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Actor:      e.Actor,
		Details:    string(raw),
		OccurredAt: e.Timestamp,
		CreatedAt:  now,
	}, nil
}
