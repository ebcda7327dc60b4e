package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DBLogger stores entries in a SQL database (PostgreSQL in production,
// driver supplied by the caller).
type DBLogger struct {
	db *sql.DB
}

// Schema is the audit table DDL. Ran by migrations in production;
// InitSchema exists for tooling and tests.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL,
	actor_id TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL,
	resource TEXT NOT NULL,
	resource_id TEXT NOT NULL DEFAULT '',
	before JSONB,
	after JSONB,
	success BOOLEAN NOT NULL,
	reason TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_log_ts_idx ON audit_log (ts DESC);
CREATE INDEX IF NOT EXISTS audit_log_actor_idx ON audit_log (actor_id);
`

// NewDBLogger creates a database-backed audit sink
func NewDBLogger(db *sql.DB) *DBLogger {
	return &DBLogger{db: db}
}

// InitSchema creates the audit table if it does not exist
func (l *DBLogger) InitSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, Schema)
	return err
}

// Append records an entry
func (l *DBLogger) Append(ctx context.Context, entry *Entry) error {
	stamp(entry)

	before, err := marshalNullable(entry.Before)
	if err != nil {
		return fmt.Errorf("audit: marshal before snapshot: %w", err)
	}
	after, err := marshalNullable(entry.After)
	if err != nil {
		return fmt.Errorf("audit: marshal after snapshot: %w", err)
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, ts, actor_id, action, resource, resource_id, before, after, success, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.Timestamp, entry.ActorID, entry.Action, entry.Resource,
		entry.ResourceID, before, after, entry.Success, entry.Reason,
	)
	if err != nil {
		return fmt.Errorf("audit: insert entry: %w", err)
	}
	return nil
}

func marshalNullable(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Query returns matching entries, newest first
func (l *DBLogger) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, ts, actor_id, action, resource, resource_id, before, after, success, reason FROM audit_log`)

	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.ActorID != "" {
		conds = append(conds, "actor_id = "+arg(filter.ActorID))
	}
	if filter.Resource != "" {
		conds = append(conds, "resource = "+arg(filter.Resource))
	}
	if filter.Action != "" {
		conds = append(conds, "action = "+arg(filter.Action))
	}
	if filter.Success != nil {
		conds = append(conds, "success = "+arg(*filter.Success))
	}
	if filter.Start != nil {
		conds = append(conds, "ts >= "+arg(*filter.Start))
	}
	if filter.End != nil {
		conds = append(conds, "ts < "+arg(*filter.End))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY ts DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := l.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query entries: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var before, after []byte
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ActorID, &e.Action, &e.Resource,
			&e.ResourceID, &before, &after, &e.Success, &e.Reason); err != nil {
			return nil, fmt.Errorf("audit: scan entry: %w", err)
		}
		if len(before) > 0 {
			var v interface{}
			if err := json.Unmarshal(before, &v); err == nil {
				e.Before = v
			}
		}
		if len(after) > 0 {
			var v interface{}
			if err := json.Unmarshal(after, &v); err == nil {
				e.After = v
			}
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Cleanup deletes entries older than the retention window and returns
// the number removed. This is the sweeper's entry point; the engine
// never calls it.
func (l *DBLogger) Cleanup(ctx context.Context, policy RetentionPolicy) (int64, error) {
	result, err := l.db.ExecContext(ctx,
		`DELETE FROM audit_log WHERE ts < $1`, policy.Cutoff(time.Now().UTC()))
	if err != nil {
		return 0, fmt.Errorf("audit: cleanup: %w", err)
	}
	return result.RowsAffected()
}

// Close is a no-op; the caller owns the *sql.DB
func (l *DBLogger) Close() error { return nil }

// Name identifies this sink in failure metrics
func (l *DBLogger) Name() string { return "postgres" }
