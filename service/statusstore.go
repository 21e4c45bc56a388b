package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	_ "github.com/lib/pq"
)

// StatusStore records form outcomes in the journalizing database through
// a fixed stored procedure.
type StatusStore struct {
	db        *sql.DB
	procedure string
}

func NewStatusStore(dsn, procedure string) (*StatusStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open status store: %w", err)
	}
	return &StatusStore{db: db, procedure: procedure}, nil
}

func (s *StatusStore) Close() error {
	return s.db.Close()
}

// UpdateStatus calls the stored procedure with (Status, form_id).
func (s *StatusStore) UpdateStatus(ctx context.Context, status model.FormStatus, formID string) error {
	query := fmt.Sprintf("CALL %s($1, $2)", s.procedure)
	if _, err := s.db.ExecContext(ctx, query, string(status), formID); err != nil {
		return fmt.Errorf("update status %s for form %s: %w", status, formID, err)
	}
	return nil
}
