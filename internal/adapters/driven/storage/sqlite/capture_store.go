package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
)

// captureStore implements driven.CaptureStore.
type captureStore struct {
	store *Store
}

var _ driven.CaptureStore = (*captureStore)(nil)

// CreateSession stores a new session.
func (s *captureStore) CreateSession(ctx context.Context, session *domain.CaptureSession) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO capture_sessions (id, label, port, baud, started_at, ended_at, record_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.Label, session.Port, int(session.Baud),
		session.StartedAt.UTC(), nullTime(session.EndedAt), session.RecordCount)
	if err != nil {
		return fmt.Errorf("creating capture session: %w", err)
	}
	return nil
}

// EndSession marks a session finished.
func (s *captureStore) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE capture_sessions SET ended_at = ? WHERE id = ?", endedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("ending capture session: %w", err)
	}
	return requireAffected(res)
}

// AppendRecords adds records to a session in one transaction.
func (s *captureStore) AppendRecords(ctx context.Context, sessionID string, records []domain.CapturedRecord) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		"UPDATE capture_sessions SET record_count = record_count + ? WHERE id = ?", len(records), sessionID)
	if err != nil {
		return fmt.Errorf("updating record count: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO capture_records (session_id, seq, received_at, raw, values_json)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		valuesJSON, err := marshalValues(r.Values)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, sessionID, r.Seq, r.ReceivedAt.UTC(), r.Raw, valuesJSON); err != nil {
			return fmt.Errorf("inserting record %d: %w", r.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *captureStore) GetSession(ctx context.Context, id string) (*domain.CaptureSession, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, label, port, baud, started_at, ended_at, record_count
		FROM capture_sessions WHERE id = ?
	`, id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning capture session: %w", err)
	}
	return session, nil
}

// ListSessions returns all sessions, newest first.
func (s *captureStore) ListSessions(ctx context.Context) ([]domain.CaptureSession, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, label, port, baud, started_at, ended_at, record_count
		FROM capture_sessions
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying capture sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.CaptureSession //nolint:prealloc // size unknown from query
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning capture session: %w", err)
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating capture sessions: %w", err)
	}
	return sessions, nil
}

// ListRecords returns a session's records in sequence order.
func (s *captureStore) ListRecords(ctx context.Context, sessionID string, limit int) ([]domain.CapturedRecord, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	// SQLite treats a negative LIMIT as no limit.
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT seq, received_at, raw, values_json
		FROM capture_records
		WHERE session_id = ?
		ORDER BY seq
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying capture records: %w", err)
	}
	defer rows.Close()

	var records []domain.CapturedRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.CapturedRecord
		var valuesJSON sql.NullString
		if err := rows.Scan(&r.Seq, &r.ReceivedAt, &r.Raw, &valuesJSON); err != nil {
			return nil, fmt.Errorf("scanning capture record: %w", err)
		}
		if valuesJSON.Valid {
			if err := json.Unmarshal([]byte(valuesJSON.String), &r.Values); err != nil {
				return nil, fmt.Errorf("unmarshaling values: %w", err)
			}
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating capture records: %w", err)
	}
	return records, nil
}

// DeleteSession removes a session and, through the foreign key, its records.
func (s *captureStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM capture_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting capture session: %w", err)
	}
	return requireAffected(res)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*domain.CaptureSession, error) {
	var session domain.CaptureSession
	var baud int
	var endedAt sql.NullTime
	if err := row.Scan(&session.ID, &session.Label, &session.Port, &baud,
		&session.StartedAt, &endedAt, &session.RecordCount); err != nil {
		return nil, err
	}
	session.Baud = domain.Baud(baud)
	if endedAt.Valid {
		session.EndedAt = endedAt.Time
	}
	return &session, nil
}

func marshalValues(values []int64) (sql.NullString, error) {
	if values == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshalling values: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
