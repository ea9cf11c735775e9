// This file defines the activity log repository.  Rows are written by the
// activity worker and read by the admin dashboard's Activity tab.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cloudchaser/dashboard/internal/model"
)

// ActivityRepo encapsulates queries on the activity_log table.  A nil DB
// yields ErrNotConfigured from every method.
type ActivityRepo struct {
	DB *sql.DB
}

// NewActivityRepo constructs an ActivityRepo with the provided DB handle.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{DB: db}
}

// Insert stores one activity row.  A redelivered event (same event_id) is
// ignored, so the worker can ack it again safely.
func (r *ActivityRepo) Insert(ctx context.Context, a model.Activity) error {
	if r == nil || r.DB == nil {
		return ErrNotConfigured
	}
	const q = `INSERT IGNORE INTO activity_log
		(event_id, user_id, role, entity, action, entity_key, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.DB.ExecContext(ctx, q,
		a.EventID, a.UserID, string(a.Role), a.Entity, a.Action, a.EntityKey, a.OccurredAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Recent returns up to limit rows, newest first.
func (r *ActivityRepo) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	if r == nil || r.DB == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT id, event_id, user_id, role, entity, action, entity_key, occurred_at
		FROM activity_log ORDER BY occurred_at DESC, id DESC LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	out := make([]model.Activity, 0, limit)
	for rows.Next() {
		var (
			a    model.Activity
			role string
		)
		if err := rows.Scan(&a.ID, &a.EventID, &a.UserID, &role, &a.Entity, &a.Action, &a.EntityKey, &a.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Role = model.Role(role)
		out = append(out, a)
	}
	return out, rows.Err()
}
