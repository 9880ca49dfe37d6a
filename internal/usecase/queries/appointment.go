package queries

import (
	"context"
	"time"

	"clinicore/internal/domain/schedule"
	"clinicore/internal/infra"
	"clinicore/internal/pkg/errs"
)

var (
	ErrAppointmentNotFound = errs.New("appointment not found")
	ErrScheduleNotFound    = errs.New("clinician schedule not found")
	ErrCorruptSchedule     = errs.New("stored schedule contains invalid times")
)

// WorkingHoursSnapshot is one weekday row of a clinician's weekly schedule.
type WorkingHoursSnapshot struct {
	ClinicianID int64
	Weekday     time.Weekday
	StartTime   string // "15:04"
	EndTime     string
}

// BookedIntervalSnapshot is one committed booking on a date.
type BookedIntervalSnapshot struct {
	StartTime string
	EndTime   string
}

type ScheduleReadStore interface {
	FindWorkingHours(ctx context.Context, clinicianID int64, weekday time.Weekday) (*WorkingHoursSnapshot, error)
}

type AppointmentReadStore interface {
	FindByID(ctx context.Context, id int64) (*AppointmentView, error)
	FindByPatient(ctx context.Context, patientID int64) ([]*AppointmentListItem, error)
	FindBookedIntervals(ctx context.Context, clinicianID int64, date time.Time) ([]*BookedIntervalSnapshot, error)
}

type AppointmentQueries interface {
	GetByID(ctx context.Context, actorID, id int64) (*AppointmentView, error)
	// GetByIDSystem bypasses the ownership check; used for idempotency replay.
	GetByIDSystem(ctx context.Context, id int64) (*AppointmentView, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*AppointmentListItem, error)
	DailyAvailability(ctx context.Context, clinicianID int64, date time.Time) (*AvailabilityView, error)
}

type appointmentQueriesImpl struct {
	appointments AppointmentReadStore
	schedules    ScheduleReadStore
}

func NewAppointmentQueries(appointments AppointmentReadStore, schedules ScheduleReadStore) AppointmentQueries {
	return &appointmentQueriesImpl{
		appointments: appointments,
		schedules:    schedules,
	}
}

func (q *appointmentQueriesImpl) GetByID(ctx context.Context, actorID, id int64) (*AppointmentView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	// Ownership is not disclosed: foreign appointments look absent.
	if view.PatientID != actorID {
		return nil, ErrAppointmentNotFound
	}
	return view, nil
}

func (q *appointmentQueriesImpl) GetByIDSystem(ctx context.Context, id int64) (*AppointmentView, error) {
	view, err := q.appointments.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *appointmentQueriesImpl) ListByPatient(ctx context.Context, patientID int64) ([]*AppointmentListItem, error) {
	return q.appointments.FindByPatient(ctx, patientID)
}

// DailyAvailability derives the 30-minute slot grid for one clinician and
// date from the weekly working hours and the bookings committed for that day.
func (q *appointmentQueriesImpl) DailyAvailability(ctx context.Context, clinicianID int64, date time.Time) (*AvailabilityView, error) {
	hours, err := q.schedules.FindWorkingHours(ctx, clinicianID, date.Weekday())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	wh, err := toWorkingHours(hours)
	if err != nil {
		return nil, err
	}

	booked, err := q.appointments.FindBookedIntervals(ctx, clinicianID, date)
	if err != nil {
		return nil, err
	}

	intervals := make([]schedule.Interval, 0, len(booked))
	for _, b := range booked {
		start, parseErr := schedule.ParseTimeOfDay(b.StartTime)
		if parseErr != nil {
			return nil, errs.Mark(parseErr, ErrCorruptSchedule)
		}
		end, parseErr := schedule.ParseTimeOfDay(b.EndTime)
		if parseErr != nil {
			return nil, errs.Mark(parseErr, ErrCorruptSchedule)
		}
		intervals = append(intervals, schedule.Interval{Start: start, End: end})
	}

	grid := schedule.BuildDayGrid(wh, intervals)
	return toAvailabilityView(grid), nil
}

func toWorkingHours(snap *WorkingHoursSnapshot) (schedule.WorkingHours, error) {
	start, err := schedule.ParseTimeOfDay(snap.StartTime)
	if err != nil {
		return schedule.WorkingHours{}, errs.Mark(err, ErrCorruptSchedule)
	}
	end, err := schedule.ParseTimeOfDay(snap.EndTime)
	if err != nil {
		return schedule.WorkingHours{}, errs.Mark(err, ErrCorruptSchedule)
	}
	return schedule.WorkingHours{Start: start, End: end}, nil
}

func toAvailabilityView(grid schedule.DayGrid) *AvailabilityView {
	return &AvailabilityView{
		Morning:   toSlotViews(grid.Morning),
		Afternoon: toSlotViews(grid.Afternoon),
	}
}

func toSlotViews(slots []schedule.Slot) []SlotView {
	views := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, SlotView{
			Time:        s.Start.String(),
			DisplayTime: s.Start.DisplayLabel(),
			IsAvailable: s.Available,
		})
	}
	return views
}
