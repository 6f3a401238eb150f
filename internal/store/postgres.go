package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/javier/voice-cv/internal/types"
)

// PostgresStore keeps one row per token. CompareAndSwap maps to conditional
// INSERT/UPDATE statements, so concurrent writers across processes cannot
// lose updates.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the records table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &StoreError{Op: "connect", Cause: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &StoreError{Op: "ping", Cause: err}
	}

	_, err = pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS payment_records (
			token      TEXT PRIMARY KEY,
			paid       BOOLEAN NOT NULL DEFAULT FALSE,
			used       BOOLEAN NOT NULL DEFAULT FALSE,
			can_record BOOLEAN NOT NULL DEFAULT FALSE
		)`)
	if err != nil {
		pool.Close()
		return nil, &StoreError{Op: "migrate", Cause: err}
	}

	return &PostgresStore{pool: pool}, nil
}

// Get returns the record for token.
func (s *PostgresStore) Get(ctx context.Context, token string) (types.PaymentRecord, bool, error) {
	var record types.PaymentRecord
	err := s.pool.QueryRow(ctx,
		`SELECT paid, used, can_record FROM payment_records WHERE token = $1`,
		token,
	).Scan(&record.Paid, &record.Used, &record.CanRecord)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.PaymentRecord{}, false, nil
		}
		return types.PaymentRecord{}, false, &StoreError{Op: "read", Cause: err}
	}
	return record, true, nil
}

// CompareAndSwap writes updated only if the stored row matches expected.
func (s *PostgresStore) CompareAndSwap(ctx context.Context, token string, expected *types.PaymentRecord, updated types.PaymentRecord) (bool, error) {
	if expected == nil {
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO payment_records (token, paid, used, can_record)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (token) DO NOTHING`,
			token, updated.Paid, updated.Used, updated.CanRecord)
		if err != nil {
			return false, &StoreError{Op: "insert", Cause: err}
		}
		return tag.RowsAffected() == 1, nil
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE payment_records
		 SET paid = $2, used = $3, can_record = $4
		 WHERE token = $1 AND paid = $5 AND used = $6 AND can_record = $7`,
		token, updated.Paid, updated.Used, updated.CanRecord,
		expected.Paid, expected.Used, expected.CanRecord)
	if err != nil {
		return false, &StoreError{Op: "update", Cause: err}
	}
	return tag.RowsAffected() == 1, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
