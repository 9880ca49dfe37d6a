package appointment

import (
	"errors"
	"time"

	"clinicore/internal/domain/schedule"
)

var (
	ErrSlotNotBookable = errors.New("slot is outside bookable working hours")
	ErrDateInPast      = errors.New("appointment date is in the past")
	ErrAlreadyCanceled = errors.New("appointment is already canceled")
	ErrNotOwner        = errors.New("appointment belongs to another patient")
)

type Status string

const (
	StatusBooked   Status = "booked"
	StatusCanceled Status = "canceled"
	StatusDone     Status = "done"
)

func (s Status) String() string { return string(s) }

// Appointment is one booked 30-minute slot with a clinician.
type Appointment struct {
	id          int64
	clinicianID int64
	patientID   int64
	date        time.Time // date only, midnight in clinic timezone
	start       schedule.TimeOfDay
	end         schedule.TimeOfDay
	status      Status
	note        string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewAppointment validates the requested slot against the clinician's working
// hours for that date. Slot conflicts with other bookings are left to the
// persistence layer's uniqueness guarantee.
func NewAppointment(
	clinicianID, patientID int64,
	date time.Time,
	start schedule.TimeOfDay,
	wh schedule.WorkingHours,
	note string,
	now time.Time,
) (*Appointment, error) {
	if date.Before(now.Truncate(24 * time.Hour)) {
		return nil, ErrDateInPast
	}
	if !wh.IsBookableStart(start) {
		return nil, ErrSlotNotBookable
	}

	return &Appointment{
		clinicianID: clinicianID,
		patientID:   patientID,
		date:        date,
		start:       start,
		end:         start.Add(schedule.SlotDuration),
		status:      StatusBooked,
		note:        note,
	}, nil
}

func ReconstructAppointment(
	id, clinicianID, patientID int64,
	date time.Time,
	start, end schedule.TimeOfDay,
	status Status,
	note string,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:          id,
		clinicianID: clinicianID,
		patientID:   patientID,
		date:        date,
		start:       start,
		end:         end,
		status:      status,
		note:        note,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Cancel transitions a booked appointment to canceled; the caller must be the
// owning patient.
func (a *Appointment) Cancel(patientID int64) error {
	if a.patientID != patientID {
		return ErrNotOwner
	}
	if a.status == StatusCanceled {
		return ErrAlreadyCanceled
	}
	a.status = StatusCanceled
	return nil
}

func (a *Appointment) IsActive() bool {
	return a.status == StatusBooked
}

func (a *Appointment) ID() int64                 { return a.id }
func (a *Appointment) ClinicianID() int64        { return a.clinicianID }
func (a *Appointment) PatientID() int64          { return a.patientID }
func (a *Appointment) Date() time.Time           { return a.date }
func (a *Appointment) Start() schedule.TimeOfDay { return a.start }
func (a *Appointment) End() schedule.TimeOfDay   { return a.end }
func (a *Appointment) Status() Status            { return a.status }
func (a *Appointment) Note() string              { return a.note }
func (a *Appointment) CreatedAt() time.Time      { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time      { return a.updatedAt }
