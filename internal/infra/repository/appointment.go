package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"clinicore/internal/domain/appointment"
	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/pgconv"
	"clinicore/internal/usecase/commands"
)

type AppointmentRepository struct {
	db db.DBTX
}

func NewAppointmentRepository(db db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserts the appointment inside the caller's transaction. The partial
// unique index on (clinician_id, date, start_time) for booked rows makes a
// double booking surface as KindConflict.
func (r *AppointmentRepository) Create(ctx context.Context, tx db.DBTX, a *appointment.Appointment) (int64, error) {
	const query = `
		INSERT INTO appointments (clinician_id, patient_id, date, start_time, end_time, status, note)
		VALUES ($1, $2, $3, $4::time, $5::time, $6, NULLIF($7, ''))
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		a.ClinicianID(),
		a.PatientID(),
		a.Date(),
		a.Start().String(),
		a.End().String(),
		a.Status().String(),
		a.Note(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, infra.WrapRepoErr("slot already booked", err, infra.KindConflict)
		}
		return 0, wrapWriteErr("failed to create appointment", err)
	}
	return id, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id int64) (*commands.AppointmentSnapshot, error) {
	const query = `
		SELECT id, clinician_id, patient_id, date,
		       to_char(start_time, 'HH24:MI'),
		       to_char(end_time, 'HH24:MI'),
		       status, note, created_at, updated_at
		FROM appointments
		WHERE id = $1`

	var (
		snap commands.AppointmentSnapshot
		note pgtype.Text
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&snap.ID,
		&snap.ClinicianID,
		&snap.PatientID,
		&snap.Date,
		&snap.StartTime,
		&snap.EndTime,
		&snap.Status,
		&note,
		&snap.CreatedAt,
		&snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment by ID", err)
	}
	snap.Note = pgconv.StringPtrFromPgtype(note)
	return &snap, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id int64, status appointment.Status) error {
	const query = `UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return nil
}
