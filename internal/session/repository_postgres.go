package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// PostgresRepository stores session state in the session_state table
// created by the migrations under migrations/.
type PostgresRepository struct {
	db *sql.DB
}

const (
	getStateQuery = `
		SELECT value FROM session_state
		WHERE session_id = $1 AND key = $2
	`
	putStateQuery = `
		INSERT INTO session_state (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	deleteStateQuery = `
		DELETE FROM session_state
		WHERE session_id = $1 AND key = ANY($2)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var raw []byte
	if err := r.db.QueryRowContext(ctx, getStateQuery, sessionID, key).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (r *PostgresRepository) Put(ctx context.Context, sessionID, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, putStateQuery, sessionID, key, value)
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, deleteStateQuery, sessionID, pq.Array(keys))
	return err
}
