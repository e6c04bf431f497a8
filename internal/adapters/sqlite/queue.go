// Package sqlite implements the durable pending-write queue on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - pending_writes with attempt counter and dead letter status
const currentSchemaVersion = 1

var _ ports.PendingQueue = (*Queue)(nil)

// Queue implements ports.PendingQueue.
type Queue struct {
	db *sql.DB
}

// Open creates or opens the queue database at path. Opening an existing
// database keeps its contents.
func Open(path string) (*Queue, error) {
	if strings.TrimSpace(path) == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrQueueOpenFailed, "open"), "reason", "empty path")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrQueueOpenFailed.Error()), "path", cleanPath)
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrQueueOpenFailed.Error()), "path", cleanPath)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrQueueOpenFailed.Error()), "path", cleanPath)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Queue{db: db}, nil
}

// Close closes the database connection.
func (q *Queue) Close() error {
	if q == nil || q.db == nil {
		return nil
	}
	return q.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrQueueOpenFailed.Error()), "pragma", pragma)
		}
	}
	return nil
}

// migrate applies the schema and records its version. It is idempotent.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return zerr.Wrap(err, domain.ErrQueueMigrateFailed.Error())
	}

	if version >= currentSchemaVersion {
		return nil
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return zerr.Wrap(err, domain.ErrQueueMigrateFailed.Error())
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return zerr.Wrap(err, domain.ErrQueueMigrateFailed.Error())
	}

	return nil
}

// Enqueue persists w and returns the assigned id.
func (q *Queue) Enqueue(ctx context.Context, w domain.PendingWrite) (int64, error) {
	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO pending_writes (url, method, payload, auth_token, created_at, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		w.URL,
		strings.ToUpper(w.Method),
		w.Payload,
		w.AuthToken,
		toMillis(createdAt),
		string(domain.WritePending),
	)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrQueueWriteFailed.Error()), "url", w.URL)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrQueueWriteFailed.Error())
	}
	return id, nil
}

// ListAll returns pending entries in ascending id order.
func (q *Queue) ListAll(ctx context.Context) ([]domain.PendingWrite, error) {
	return q.list(ctx, domain.WritePending)
}

// ListDead returns dead entries in ascending id order.
func (q *Queue) ListDead(ctx context.Context) ([]domain.PendingWrite, error) {
	return q.list(ctx, domain.WriteDead)
}

func (q *Queue) list(ctx context.Context, status domain.WriteStatus) ([]domain.PendingWrite, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, url, method, payload, auth_token, created_at, attempts, last_error, status
		FROM pending_writes
		WHERE status = ?
		ORDER BY id ASC
	`, string(status))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrQueueReadFailed.Error())
	}
	defer rows.Close() //nolint:errcheck // Best effort close in defer

	var writes []domain.PendingWrite
	for rows.Next() {
		var (
			w         domain.PendingWrite
			createdAt int64
			st        string
		)
		if err := rows.Scan(
			&w.ID,
			&w.URL,
			&w.Method,
			&w.Payload,
			&w.AuthToken,
			&createdAt,
			&w.Attempts,
			&w.LastError,
			&st,
		); err != nil {
			return nil, zerr.Wrap(err, domain.ErrQueueReadFailed.Error())
		}
		w.CreatedAt = fromMillis(createdAt)
		w.Status = domain.WriteStatus(st)
		writes = append(writes, w)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrQueueReadFailed.Error())
	}

	return writes, nil
}

// Remove deletes id. Unknown ids are ignored.
func (q *Queue) Remove(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM pending_writes WHERE id = ?`, id); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrQueueRemoveFailed.Error()), "id", id)
	}
	return nil
}

// RecordFailure bumps the attempt counter of id and returns the new count.
// An unknown id reports zero attempts.
func (q *Queue) RecordFailure(ctx context.Context, id int64, reason string) (int, error) {
	var attempts int
	err := q.db.QueryRowContext(ctx, `
		UPDATE pending_writes
		SET attempts = attempts + 1, last_error = ?
		WHERE id = ?
		RETURNING attempts
	`, reason, id).Scan(&attempts)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, zerr.With(zerr.Wrap(err, domain.ErrQueueWriteFailed.Error()), "id", id)
	}
	return attempts, nil
}

// Bury moves id to the dead letter state.
func (q *Queue) Bury(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx,
		`UPDATE pending_writes SET status = ? WHERE id = ?`,
		string(domain.WriteDead), id,
	); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrQueueWriteFailed.Error()), "id", id)
	}
	return nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
