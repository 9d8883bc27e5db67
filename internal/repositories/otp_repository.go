package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"userdesk/internal/models"
)

// OTPRepository keeps at most one pending code per email.
type OTPRepository interface {
	// Put replaces whatever entry the email had.
	Put(ctx context.Context, entry *models.OTPEntry) error
	// Consume counts one attempt against a live entry and marks it consumed
	// when the hash matches. An entry that already took maxAttempts attempts
	// is dead. It reports false for a missing, expired, consumed, exhausted or
	// mismatching entry.
	Consume(ctx context.Context, email, codeHash string, now time.Time, maxAttempts int) (bool, error)
	Get(ctx context.Context, email string) (*models.OTPEntry, error)
}

type otpRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) OTPRepository {
	return &otpRepository{DB: db}
}

func (r *otpRepository) Put(ctx context.Context, e *models.OTPEntry) error {
	const q = `
		INSERT INTO otp_codes (email, code_hash, issued_at, expires_at, consumed_at, attempts)
		VALUES ($1, $2, $3, $4, NULL, 0)
		ON CONFLICT (email) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
		    issued_at = EXCLUDED.issued_at,
		    expires_at = EXCLUDED.expires_at,
		    consumed_at = NULL,
		    attempts = 0
	`
	if _, err := r.DB.ExecContext(ctx, q, e.Email, e.CodeHash, e.IssuedAt, e.ExpiresAt); err != nil {
		return fmt.Errorf("otp put: %w", err)
	}
	return nil
}

// Consume is a single conditional UPDATE: the row lock serializes callers, so
// one valid code wins once and every guess is counted.
func (r *otpRepository) Consume(ctx context.Context, email, codeHash string, now time.Time, maxAttempts int) (bool, error) {
	const q = `
		UPDATE otp_codes
		SET attempts = attempts + 1,
		    consumed_at = CASE WHEN code_hash = $2 THEN $3 ELSE consumed_at END
		WHERE email = $1 AND consumed_at IS NULL AND expires_at > $3 AND attempts < $4
		RETURNING consumed_at IS NOT NULL
	`
	var consumed bool
	err := r.DB.QueryRowContext(ctx, q, email, codeHash, now, maxAttempts).Scan(&consumed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("otp consume: %w", err)
	}
	return consumed, nil
}

func (r *otpRepository) Get(ctx context.Context, email string) (*models.OTPEntry, error) {
	const q = `
		SELECT email, code_hash, issued_at, expires_at, consumed_at, attempts
		FROM otp_codes
		WHERE email = $1
	`
	e := &models.OTPEntry{}
	var consumedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, q, email).Scan(&e.Email, &e.CodeHash, &e.IssuedAt, &e.ExpiresAt, &consumedAt, &e.Attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("otp get: %w", err)
	}
	if consumedAt.Valid {
		t := consumedAt.Time
		e.ConsumedAt = &t
	}
	return e, nil
}
