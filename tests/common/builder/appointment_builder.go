//go:build unit || e2e

package builder

import (
	"time"

	reqdto "clinicore/internal/handler/dto/request"
	"clinicore/internal/usecase/queries"
)

type AppointmentBuilder struct {
	ID            int64
	ClinicianID   int64
	ClinicianName string
	PatientID     int64
	Date          string
	StartTime     string
	EndTime       string
	Status        string
	Note          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewAppointmentBuilder() *AppointmentBuilder {
	now := time.Now()
	date := now.AddDate(0, 0, 7).Format("2006-01-02")
	return &AppointmentBuilder{
		ID:            1,
		ClinicianID:   3,
		ClinicianName: "Dr. Somsak",
		PatientID:     7,
		Date:          date,
		StartTime:     "10:00",
		EndTime:       "10:30",
		Status:        "booked",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (b *AppointmentBuilder) WithID(id int64) *AppointmentBuilder {
	b.ID = id
	return b
}

func (b *AppointmentBuilder) WithClinicianID(clinicianID int64) *AppointmentBuilder {
	b.ClinicianID = clinicianID
	return b
}

func (b *AppointmentBuilder) WithDate(date string) *AppointmentBuilder {
	b.Date = date
	return b
}

func (b *AppointmentBuilder) WithPatientID(patientID int64) *AppointmentBuilder {
	b.PatientID = patientID
	return b
}

func (b *AppointmentBuilder) WithStartTime(start, end string) *AppointmentBuilder {
	b.StartTime = start
	b.EndTime = end
	return b
}

func (b *AppointmentBuilder) BuildBookRequestDTO() reqdto.BookAppointmentRequest {
	return reqdto.BookAppointmentRequest{
		ClinicianID: b.ClinicianID,
		Date:        b.Date,
		StartTime:   b.StartTime,
		Note:        b.Note,
	}
}

func (b *AppointmentBuilder) BuildView() *queries.AppointmentView {
	return &queries.AppointmentView{
		ID:            b.ID,
		ClinicianID:   b.ClinicianID,
		ClinicianName: b.ClinicianName,
		PatientID:     b.PatientID,
		Date:          b.Date,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        b.Status,
		Note:          b.Note,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (b *AppointmentBuilder) BuildListItem() *queries.AppointmentListItem {
	return &queries.AppointmentListItem{
		ID:            b.ID,
		ClinicianID:   b.ClinicianID,
		ClinicianName: b.ClinicianName,
		Date:          b.Date,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        b.Status,
	}
}
