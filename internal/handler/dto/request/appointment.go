package request

import (
	"strings"
	"time"

	"clinicore/internal/domain/schedule"
)

type BookAppointmentRequest struct {
	ClinicianID int64   `json:"clinician_id" binding:"required"`
	Date        string  `json:"date" binding:"required"`       // "2006-01-02"
	StartTime   string  `json:"start_time" binding:"required"` // "15:04"
	Note        *string `json:"note,omitempty"`
}

type BookAppointmentDomain struct {
	Date  time.Time
	Start schedule.TimeOfDay
	Note  string
}

func (r BookAppointmentRequest) ToDomain() (*BookAppointmentDomain, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, err
	}

	start, err := schedule.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, err
	}

	note := ""
	if r.Note != nil {
		note = strings.TrimSpace(*r.Note)
	}

	return &BookAppointmentDomain{
		Date:  date,
		Start: start,
		Note:  note,
	}, nil
}
