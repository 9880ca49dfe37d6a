package readstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/pgconv"
	"clinicore/internal/usecase/queries"
)

type PromotionReadStore struct {
	db db.DBTX
}

func NewPromotionReadStore(db db.DBTX) *PromotionReadStore {
	return &PromotionReadStore{db: db}
}

func (r *PromotionReadStore) FindActive(ctx context.Context) ([]*queries.PromotionView, error) {
	const query = `
		SELECT id, title, description, is_active, valid_from, valid_to, created_at, updated_at
		FROM promotions
		WHERE is_active = TRUE
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active promotions", err)
	}
	defer rows.Close()

	views := make([]*queries.PromotionView, 0)
	for rows.Next() {
		view, scanErr := scanPromotion(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan promotion row", scanErr)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate promotion rows", err)
	}
	return views, nil
}

func (r *PromotionReadStore) FindByID(ctx context.Context, id int64) (*queries.PromotionView, error) {
	const query = `
		SELECT id, title, description, is_active, valid_from, valid_to, created_at, updated_at
		FROM promotions
		WHERE id = $1`

	view, err := scanPromotion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("promotion not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find promotion by ID", err)
	}
	return view, nil
}

func (r *PromotionReadStore) FindVouchersByUser(ctx context.Context, userID int64) ([]*queries.VoucherView, error) {
	const query = `
		SELECT v.id, v.promotion_id, p.title, v.claimed_at, v.used_at
		FROM vouchers v
		JOIN promotions p ON p.id = v.promotion_id
		WHERE v.user_id = $1
		ORDER BY v.claimed_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list vouchers", err)
	}
	defer rows.Close()

	views := make([]*queries.VoucherView, 0)
	for rows.Next() {
		var (
			view   queries.VoucherView
			usedAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&view.ID,
			&view.PromotionID,
			&view.PromotionTitle,
			&view.ClaimedAt,
			&usedAt,
		); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan voucher row", scanErr)
		}
		view.UsedAt = pgconv.TimePtrFromPgtype(usedAt)
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate voucher rows", err)
	}
	return views, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPromotion(row rowScanner) (*queries.PromotionView, error) {
	var (
		view      queries.PromotionView
		validFrom pgtype.Timestamptz
		validTo   pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID,
		&view.Title,
		&view.Description,
		&view.IsActive,
		&validFrom,
		&validTo,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.ValidFrom = pgconv.TimePtrFromPgtype(validFrom)
	view.ValidTo = pgconv.TimePtrFromPgtype(validTo)
	return &view, nil
}
