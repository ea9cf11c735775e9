package model

import "time"

// Activity actions recorded for dashboard writes.
const (
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionSubscribe = "subscribe"
)

// Activity is one successful write issued through the dashboard.  It
// corresponds to a row in the `activity_log` table.
//
// Fields:
//
//	ID         – primary key identifier.
//	EventID    – id of the queue message the row came from (unique).
//	UserID     – backend id of the user who made the change.
//	Role       – that user's role at the time.
//	Entity     – table the write targeted (clients, campaigns, ...).
//	Action     – create, update, delete or subscribe.
//	EntityKey  – key of the affected record ("12" or "3/7" for packages).
//	OccurredAt – when the backend accepted the write.
type Activity struct {
	ID         uint64    // activity_log.id
	EventID    string    // activity_log.event_id
	UserID     uint64    // activity_log.user_id
	Role       Role      // activity_log.role
	Entity     string    // activity_log.entity
	Action     string    // activity_log.action
	EntityKey  string    // activity_log.entity_key
	OccurredAt time.Time // activity_log.occurred_at
}
