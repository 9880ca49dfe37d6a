package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"clinicore/internal/domain/voucher"
	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/pgconv"
)

type VoucherRepository struct {
	db db.DBTX
}

func NewVoucherRepository(db db.DBTX) *VoucherRepository {
	return &VoucherRepository{db: db}
}

// Create inserts the voucher row. The (user_id, promotion_id) unique
// constraint turns a repeated claim into KindDuplicateKey, which the use case
// treats as a replay rather than a failure.
func (r *VoucherRepository) Create(ctx context.Context, v *voucher.Voucher) (int64, error) {
	const query = `
		INSERT INTO vouchers (user_id, promotion_id, claimed_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query, v.UserID(), v.PromotionID(), v.ClaimedAt()).Scan(&id)
	if err != nil {
		return 0, wrapWriteErr("failed to create voucher", err)
	}
	return id, nil
}

func (r *VoucherRepository) FindByUserAndPromotion(ctx context.Context, userID, promotionID int64) (*voucher.Voucher, error) {
	const query = `
		SELECT id, user_id, promotion_id, claimed_at, used_at
		FROM vouchers
		WHERE user_id = $1 AND promotion_id = $2`

	var (
		id        int64
		ownerID   int64
		promoID   int64
		claimedAt time.Time
		usedAt    pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, userID, promotionID).Scan(
		&id,
		&ownerID,
		&promoID,
		&claimedAt,
		&usedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("voucher not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find voucher", err)
	}
	return voucher.ReconstructVoucher(id, ownerID, promoID, claimedAt, pgconv.TimePtrFromPgtype(usedAt)), nil
}
