// Package queue defines the activity messages exchanged over RabbitMQ and
// the worker that drains them into the activity log.
package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudchaser/dashboard/internal/model"
)

// ActivityQueue is the default durable queue for dashboard activity.
const ActivityQueue = "dashboard.activity"

// ActivityEvent is published after the backend accepts a write issued
// through the dashboard.  EventID makes redelivery idempotent.
type ActivityEvent struct {
	EventID    string `json:"event_id"`
	UserID     uint64 `json:"user_id"`
	Role       string `json:"role"`
	Entity     string `json:"entity"`
	Action     string `json:"action"`
	EntityKey  string `json:"entity_key"`
	OccurredAt string `json:"occurred_at"` // RFC 3339, UTC
}

// Activity converts the event into a row for the activity log.
func (ev ActivityEvent) Activity() (model.Activity, error) {
	if strings.TrimSpace(ev.EventID) == "" {
		return model.Activity{}, errors.New("event_id is empty")
	}
	if ev.Entity == "" || ev.Action == "" {
		return model.Activity{}, errors.New("entity and action are required")
	}
	role, ok := model.ParseRole(ev.Role)
	if !ok {
		return model.Activity{}, fmt.Errorf("unknown role %q", ev.Role)
	}
	at, err := time.Parse(time.RFC3339, ev.OccurredAt)
	if err != nil {
		return model.Activity{}, fmt.Errorf("occurred_at: %w", err)
	}
	return model.Activity{
		EventID:    ev.EventID,
		UserID:     ev.UserID,
		Role:       role,
		Entity:     ev.Entity,
		Action:     ev.Action,
		EntityKey:  ev.EntityKey,
		OccurredAt: at.UTC(),
	}, nil
}
