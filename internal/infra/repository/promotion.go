package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"clinicore/internal/domain/promotion"
	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/pgconv"
	"clinicore/internal/usecase/commands"
)

type PromotionRepository struct {
	db db.DBTX
}

func NewPromotionRepository(db db.DBTX) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func (r *PromotionRepository) Create(ctx context.Context, p *promotion.Promotion) (int64, error) {
	const query = `
		INSERT INTO promotions (title, description, is_active, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		p.Title().String(),
		p.Description(),
		p.IsActive(),
		pgconv.TimePtrToPgtype(p.ValidFrom()),
		pgconv.TimePtrToPgtype(p.ValidTo()),
	).Scan(&id)
	if err != nil {
		return 0, wrapWriteErr("failed to create promotion", err)
	}
	return id, nil
}

func (r *PromotionRepository) SetActive(ctx context.Context, id int64, isActive bool) error {
	const query = `UPDATE promotions SET is_active = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, isActive)
	if err != nil {
		return infra.WrapRepoErr("failed to update promotion state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("promotion not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *PromotionRepository) FindByID(ctx context.Context, id int64) (*commands.PromotionSnapshot, error) {
	const query = `
		SELECT id, title, description, is_active, valid_from, valid_to, created_at, updated_at
		FROM promotions
		WHERE id = $1`

	var (
		snap      commands.PromotionSnapshot
		validFrom pgtype.Timestamptz
		validTo   pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&snap.ID,
		&snap.Title,
		&snap.Description,
		&snap.IsActive,
		&validFrom,
		&validTo,
		&snap.CreatedAt,
		&snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("promotion not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find promotion by ID", err)
	}
	snap.ValidFrom = pgconv.TimePtrFromPgtype(validFrom)
	snap.ValidTo = pgconv.TimePtrFromPgtype(validTo)
	return &snap, nil
}
