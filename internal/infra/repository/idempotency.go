package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/pgconv"
	"clinicore/internal/usecase/commands"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(db db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// TryInsert is a no-op when the key already exists; callers read the row back
// with Get to decide between replay and conflict.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID, userID int64, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	const query = `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID, userID int64) (*commands.IdempotencyRecord, error) {
	const query = `
		SELECT key, user_id, status, request_hash, result_appointment_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2`

	var (
		record        commands.IdempotencyRecord
		appointmentID pgtype.Int8
	)
	err := r.db.QueryRow(ctx, query, key, userID).Scan(
		&record.Key,
		&record.UserID,
		&record.Status,
		&record.RequestHash,
		&appointmentID,
		&record.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	record.ResultAppointmentID = pgconv.Int64PtrFromPgtype(appointmentID)
	return &record, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, userID int64, responseBodyHash string, resultAppointmentID int64) error {
	const query = `
		UPDATE idempotency_keys
		SET status = 'completed', response_body_hash = $3, result_appointment_id = $4
		WHERE key = $1 AND user_id = $2`

	if _, err := tx.Exec(ctx, query, key, userID, responseBodyHash, resultAppointmentID); err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	return nil
}

// DeleteExpired prunes stale keys; run periodically from the lifecycle hook.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM idempotency_keys WHERE expires_at < now()`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
