package commands

import (
	"time"

	"github.com/google/uuid"
)

// Snapshots are flat row images returned by the write-side repositories.
// Commands reconstruct domain entities from them before mutating.

type PromotionSnapshot struct {
	ID          int64
	Title       string
	Description string
	IsActive    bool
	ValidFrom   *time.Time
	ValidTo     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ClinicianSnapshot struct {
	ID          int64
	DisplayName string
	IsActive    bool
}

type AppointmentSnapshot struct {
	ID          int64
	ClinicianID int64
	PatientID   int64
	Date        time.Time
	StartTime   string // "15:04"
	EndTime     string
	Status      string
	Note        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              int64
	Status              string
	RequestHash         string
	ResultAppointmentID *int64
	ExpiresAt           time.Time
}
