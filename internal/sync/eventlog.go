// Package syncx appends lifecycle events to the event_log table. The external
// persistence collaborator tails this log to mirror published quizzes and
// graded results; nothing in this service reads it back.
package syncx

import (
	"context"
	"database/sql"
	"time"
)

const (
	EventQuizPublished    = "QuizPublished"
	EventSessionSubmitted = "SessionSubmitted"
)

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string // natural key: quiz ID or session ID
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}
