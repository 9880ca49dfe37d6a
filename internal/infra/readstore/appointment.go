package readstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/pgconv"
	"clinicore/internal/usecase/queries"
)

type AppointmentReadStore struct {
	db db.DBTX
}

func NewAppointmentReadStore(db db.DBTX) *AppointmentReadStore {
	return &AppointmentReadStore{db: db}
}

func (r *AppointmentReadStore) FindByID(ctx context.Context, id int64) (*queries.AppointmentView, error) {
	const query = `
		SELECT a.id, a.clinician_id, c.display_name, a.patient_id,
		       to_char(a.date, 'YYYY-MM-DD'),
		       to_char(a.start_time, 'HH24:MI'),
		       to_char(a.end_time, 'HH24:MI'),
		       a.status, a.note, a.created_at, a.updated_at
		FROM appointments a
		JOIN clinicians c ON c.id = a.clinician_id
		WHERE a.id = $1`

	var (
		view queries.AppointmentView
		note pgtype.Text
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID,
		&view.ClinicianID,
		&view.ClinicianName,
		&view.PatientID,
		&view.Date,
		&view.StartTime,
		&view.EndTime,
		&view.Status,
		&note,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment by ID", err)
	}
	view.Note = pgconv.StringPtrFromPgtype(note)
	return &view, nil
}

func (r *AppointmentReadStore) FindByPatient(ctx context.Context, patientID int64) ([]*queries.AppointmentListItem, error) {
	const query = `
		SELECT a.id, a.clinician_id, c.display_name,
		       to_char(a.date, 'YYYY-MM-DD'),
		       to_char(a.start_time, 'HH24:MI'),
		       to_char(a.end_time, 'HH24:MI'),
		       a.status
		FROM appointments a
		JOIN clinicians c ON c.id = a.clinician_id
		WHERE a.patient_id = $1
		ORDER BY a.date DESC, a.start_time DESC`

	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointments", err)
	}
	defer rows.Close()

	items := make([]*queries.AppointmentListItem, 0)
	for rows.Next() {
		var item queries.AppointmentListItem
		if scanErr := rows.Scan(
			&item.ID,
			&item.ClinicianID,
			&item.ClinicianName,
			&item.Date,
			&item.StartTime,
			&item.EndTime,
			&item.Status,
		); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan appointment row", scanErr)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate appointment rows", err)
	}
	return items, nil
}

// FindBookedIntervals returns the occupied intervals feeding the availability
// grid. Canceled appointments free their slot and are excluded.
func (r *AppointmentReadStore) FindBookedIntervals(ctx context.Context, clinicianID int64, date time.Time) ([]*queries.BookedIntervalSnapshot, error) {
	const query = `
		SELECT to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM appointments
		WHERE clinician_id = $1 AND date = $2::date AND status = 'booked'
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, query, clinicianID, date)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booked intervals", err)
	}
	defer rows.Close()

	intervals := make([]*queries.BookedIntervalSnapshot, 0)
	for rows.Next() {
		var interval queries.BookedIntervalSnapshot
		if scanErr := rows.Scan(&interval.StartTime, &interval.EndTime); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan interval row", scanErr)
		}
		intervals = append(intervals, &interval)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate interval rows", err)
	}
	return intervals, nil
}
