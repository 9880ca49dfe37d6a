package repository

import (
	"context"

	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/pgconv"
	"clinicore/internal/usecase/commands"
)

type ClinicianRepository struct {
	db db.DBTX
}

func NewClinicianRepository(db db.DBTX) *ClinicianRepository {
	return &ClinicianRepository{db: db}
}

func (r *ClinicianRepository) FindByID(ctx context.Context, id int64) (*commands.ClinicianSnapshot, error) {
	const query = `
		SELECT id, display_name, is_active
		FROM clinicians
		WHERE id = $1`

	var snap commands.ClinicianSnapshot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&snap.ID,
		&snap.DisplayName,
		&snap.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("clinician not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find clinician by ID", err)
	}
	return &snap, nil
}
