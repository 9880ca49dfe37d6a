package readstore

import (
	"context"
	"time"

	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/pgconv"
	"clinicore/internal/usecase/queries"
)

type ScheduleReadStore struct {
	db db.DBTX
}

func NewScheduleReadStore(db db.DBTX) *ScheduleReadStore {
	return &ScheduleReadStore{db: db}
}

// FindWorkingHours returns the working hours row for one weekday. Weekdays
// follow time.Weekday numbering, Sunday is 0.
func (r *ScheduleReadStore) FindWorkingHours(ctx context.Context, clinicianID int64, weekday time.Weekday) (*queries.WorkingHoursSnapshot, error) {
	const query = `
		SELECT clinician_id, weekday,
		       to_char(start_time, 'HH24:MI'),
		       to_char(end_time, 'HH24:MI')
		FROM clinician_schedules
		WHERE clinician_id = $1 AND weekday = $2`

	var (
		snap       queries.WorkingHoursSnapshot
		weekdayInt int
	)
	err := r.db.QueryRow(ctx, query, clinicianID, int(weekday)).Scan(
		&snap.ClinicianID,
		&weekdayInt,
		&snap.StartTime,
		&snap.EndTime,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("working hours not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find working hours", err)
	}
	snap.Weekday = time.Weekday(weekdayInt)
	return &snap, nil
}
