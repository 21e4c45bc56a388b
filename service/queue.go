package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	_ "modernc.org/sqlite"
)

// Queue is a client for the orchestrator's job queue. Retry, scheduling
// and credential handling live in the orchestrator; this client only
// creates, queries and flips elements.
type Queue struct {
	db *sql.DB
}

// NewQueue opens the queue database and ensures the element table exists.
// Pass ":memory:" for an in-memory queue.
func NewQueue(dsn string) (*Queue, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open queue db: %w", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS queue_elements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			queue_name TEXT NOT NULL,
			reference TEXT NOT NULL UNIQUE,
			data TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'NEW',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queue_elements_name_status ON queue_elements(queue_name, status)`,
		`CREATE INDEX IF NOT EXISTS idx_queue_elements_created_at ON queue_elements(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create queue tables: %w", err)
		}
	}

	return &Queue{db: db}, nil
}

func (q *Queue) Close() error {
	return q.db.Close()
}

// BulkCreate inserts a batch of elements in one transaction. A reference
// collision rolls the whole batch back and returns ErrDuplicateReference;
// there is no partial-success detection.
func (q *Queue) BulkCreate(ctx context.Context, queueName string, references, payloads []string) error {
	if len(references) != len(payloads) {
		return fmt.Errorf("bulk create: %d references for %d payloads", len(references), len(payloads))
	}

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create: %w", err)
	}

	for i := range references {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO queue_elements (queue_name, reference, data, status) VALUES (?, ?, ?, ?)`,
			queueName, references[i], payloads[i], string(model.QueueStatusNew),
		)
		if err != nil {
			tx.Rollback()
			if isUniqueViolation(err) {
				return fmt.Errorf("reference %q: %w", references[i], model.ErrDuplicateReference)
			}
			return fmt.Errorf("insert element: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create: %w", err)
	}
	return nil
}

// GetElements returns the elements of a queue with the given status created
// in [from, to).
func (q *Queue) GetElements(ctx context.Context, queueName string, status model.QueueStatus, from, to time.Time) ([]model.QueueElement, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, queue_name, reference, data, status, created_at
		 FROM queue_elements
		 WHERE queue_name = ? AND status = ? AND created_at >= ? AND created_at < ?
		 ORDER BY id`,
		queueName, string(status), sqlTime(from), sqlTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}
	defer rows.Close()

	var elements []model.QueueElement
	for rows.Next() {
		var e model.QueueElement
		var status string
		if err := rows.Scan(&e.ID, &e.QueueName, &e.Reference, &e.Data, &status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		e.Status = model.QueueStatus(status)
		elements = append(elements, e)
	}
	return elements, rows.Err()
}

// GetByID returns a single queue element.
func (q *Queue) GetByID(ctx context.Context, id int64) (*model.QueueElement, error) {
	var e model.QueueElement
	var status string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, queue_name, reference, data, status, created_at FROM queue_elements WHERE id = ?`, id,
	).Scan(&e.ID, &e.QueueName, &e.Reference, &e.Data, &status, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get element %d: %w", id, err)
	}
	e.Status = model.QueueStatus(status)
	return &e, nil
}

// SetStatus moves an element to a new lifecycle state.
func (q *Queue) SetStatus(ctx context.Context, id int64, status model.QueueStatus) error {
	result, err := q.db.ExecContext(ctx,
		`UPDATE queue_elements SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("set status of element %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("set status: element %d not found", id)
	}
	return nil
}

// sqlTime formats a time the way sqlite's CURRENT_TIMESTAMP stores it.
func sqlTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
