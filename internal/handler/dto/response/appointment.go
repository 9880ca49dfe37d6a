package response

import (
	"time"

	"github.com/jinzhu/copier"

	"clinicore/internal/usecase/queries"
)

type AppointmentResponse struct {
	ID            int64     `json:"id"`
	ClinicianID   int64     `json:"clinician_id"`
	ClinicianName string    `json:"clinician_name"`
	PatientID     int64     `json:"patient_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	Note          *string   `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	ID            int64  `json:"id"`
	ClinicianID   int64  `json:"clinician_id"`
	ClinicianName string `json:"clinician_name"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
}

type SlotResponse struct {
	Time        string `json:"time"`
	DisplayTime string `json:"display_time"`
	IsAvailable bool   `json:"is_available"`
}

type AvailabilityResponse struct {
	ClinicianID int64          `json:"clinician_id"`
	Date        string         `json:"date"`
	Morning     []SlotResponse `json:"morning"`
	Afternoon   []SlotResponse `json:"afternoon"`
}

func FromAppointmentView(view *queries.AppointmentView) *AppointmentResponse {
	var resp AppointmentResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromAppointmentListItem(item *queries.AppointmentListItem) *AppointmentListResponse {
	var resp AppointmentListResponse
	_ = copier.Copy(&resp, item)
	return &resp
}

func FromAvailabilityView(clinicianID int64, date string, view *queries.AvailabilityView) *AvailabilityResponse {
	resp := AvailabilityResponse{
		ClinicianID: clinicianID,
		Date:        date,
	}
	_ = copier.Copy(&resp.Morning, view.Morning)
	_ = copier.Copy(&resp.Afternoon, view.Afternoon)
	return &resp
}
