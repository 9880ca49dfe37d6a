package repository

import (
	"context"

	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(db db.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	const query = `UPDATE users SET last_login_at = now(), updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}
