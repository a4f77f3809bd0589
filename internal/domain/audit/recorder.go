// Package audit defines the structural-edit audit trail contract.
// The ledger itself is the audit trail for stock; this covers edits to
// catalog rows (products, categories, users) around it.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kardex/internal/core/id"
)

// Action is the audited operation kind.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Recorder appends immutable audit entries. Implementations must write
// within the caller's transaction when one is active.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error
}

// Entry is one recorded audit row as read back from the store.
type Entry struct {
	ID         id.ID           `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   id.ID           `json:"entity_id"`
	Action     Action          `json:"action"`
	UserID     string          `json:"user_id"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Historian reads an entity's recorded entries back, newest first.
type Historian interface {
	EntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Diff calculates the difference between old and new entity states.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if !equal(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}

	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}

func equal(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
