package queries

import (
	"time"
)

// Read models (DTO for read side)

type PromotionView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	ValidFrom   *time.Time `json:"valid_from,omitempty"`
	ValidTo     *time.Time `json:"valid_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type VoucherView struct {
	ID             int64      `json:"id"`
	PromotionID    int64      `json:"promotion_id"`
	PromotionTitle string     `json:"promotion_title"`
	ClaimedAt      time.Time  `json:"claimed_at"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
}

type AppointmentView struct {
	ID            int64     `json:"id"`
	ClinicianID   int64     `json:"clinician_id"`
	ClinicianName string    `json:"clinician_name"`
	PatientID     int64     `json:"patient_id"`
	Date          string    `json:"date"`       // "2006-01-02"
	StartTime     string    `json:"start_time"` // "15:04"
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	Note          *string   `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AppointmentListItem struct {
	ID            int64  `json:"id"`
	ClinicianID   int64  `json:"clinician_id"`
	ClinicianName string `json:"clinician_name"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
}

// SlotView is one cell of the availability grid. Unavailable slots stay in
// the grid; the UI renders them disabled.
type SlotView struct {
	Time        string `json:"time"`
	DisplayTime string `json:"display_time"`
	IsAvailable bool   `json:"is_available"`
}

type AvailabilityView struct {
	Morning   []SlotView `json:"morning"`
	Afternoon []SlotView `json:"afternoon"`
}

type AuthorizedUserView struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
}
