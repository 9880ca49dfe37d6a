package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clinicore/internal/domain/appointment"
	"clinicore/internal/domain/schedule"
	reqdto "clinicore/internal/handler/dto/request"
	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/clock"
	"clinicore/internal/pkg/errs"
	"clinicore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrClinicianNotFound          = errs.New("clinician not found")
	ErrAppointmentNotFound        = errs.New("appointment not found")
	ErrInvalidSlot                = errs.New("invalid appointment slot")
	ErrSlotTaken                  = errs.New("slot already booked")
	ErrDuplicateBooking           = errs.New("duplicate booking request")
	ErrBookingInProgress          = errs.New("booking in progress")
	ErrNotAppointmentOwner        = errs.New("appointment belongs to another patient")
	ErrAppointmentAlreadyCanceled = errs.New("appointment already canceled")
	ErrIdempotencyCheckFailed     = errs.New("idempotency check failed")
	ErrDatabaseOperationFailed    = errs.New("database operation failed")
)

type BookAppointmentResult struct {
	Appointment *queries.AppointmentView
	IsReplayed  bool
}

type AppointmentRepository interface {
	// Create reports a booking for an occupied slot as KindConflict.
	Create(ctx context.Context, tx db.DBTX, a *appointment.Appointment) (int64, error)
	FindByID(ctx context.Context, id int64) (*AppointmentSnapshot, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id int64, status appointment.Status) error
}

type ClinicianRepository interface {
	FindByID(ctx context.Context, id int64) (*ClinicianSnapshot, error)
}

type IdempotencyRepository interface {
	// TryInsert reports whether a fresh processing record was created for the key.
	TryInsert(ctx context.Context, key uuid.UUID, userID int64, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key uuid.UUID, userID int64) (*IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, userID int64, responseBodyHash string, resultAppointmentID int64) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type AppointmentCommands interface {
	Book(ctx context.Context, req reqdto.BookAppointmentRequest, patientID int64, idempotencyKey uuid.UUID) (*BookAppointmentResult, error)
	Cancel(ctx context.Context, patientID, appointmentID int64) error
}

type appointmentCommandsImpl struct {
	appointmentRepo    AppointmentRepository
	clinicianRepo      ClinicianRepository
	idempotencyRepo    IdempotencyRepository
	notificationRepo   NotificationRepository
	scheduleStore      queries.ScheduleReadStore
	appointmentQueries queries.AppointmentQueries
	db                 *pgxpool.Pool
	clock              clock.Clock
}

func NewAppointmentCommands(
	appointmentRepo AppointmentRepository,
	clinicianRepo ClinicianRepository,
	idempotencyRepo IdempotencyRepository,
	notificationRepo NotificationRepository,
	scheduleStore queries.ScheduleReadStore,
	appointmentQueries queries.AppointmentQueries,
	db *pgxpool.Pool,
	clock clock.Clock,
) AppointmentCommands {
	return &appointmentCommandsImpl{
		appointmentRepo:    appointmentRepo,
		clinicianRepo:      clinicianRepo,
		idempotencyRepo:    idempotencyRepo,
		notificationRepo:   notificationRepo,
		scheduleStore:      scheduleStore,
		appointmentQueries: appointmentQueries,
		db:                 db,
		clock:              clock,
	}
}

func (c *appointmentCommandsImpl) Book(
	ctx context.Context,
	req reqdto.BookAppointmentRequest,
	patientID int64,
	idempotencyKey uuid.UUID,
) (*BookAppointmentResult, error) {
	requestHash := c.calculateRequestHash(req)
	expiresAt := c.clock.Now().Add(24 * time.Hour)

	existingResult, err := c.handleIdempotency(ctx, idempotencyKey, patientID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if existingResult != nil {
		return &BookAppointmentResult{
			Appointment: existingResult,
			IsReplayed:  true,
		}, nil
	}

	appointmentView, err := c.createNewAppointment(ctx, req, patientID, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return &BookAppointmentResult{
		Appointment: appointmentView,
		IsReplayed:  false,
	}, nil
}

func (c *appointmentCommandsImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey uuid.UUID,
	patientID int64,
	requestHash string,
	expiresAt time.Time,
) (*queries.AppointmentView, error) {
	inserted, err := c.idempotencyRepo.TryInsert(ctx, idempotencyKey, patientID, "POST /appointments", requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if inserted {
		// First time this key was seen; proceed with the booking.
		return nil, nil
	}

	existing, err := c.idempotencyRepo.Get(ctx, idempotencyKey, patientID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.ResultAppointmentID != nil {
			// System-level access for idempotency replay
			return c.appointmentQueries.GetByIDSystem(ctx, *existing.ResultAppointmentID)
		}
		return nil, errs.New("completed request missing result appointment ID")

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateBooking
		}
		return nil, ErrBookingInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (c *appointmentCommandsImpl) createNewAppointment(
	ctx context.Context,
	req reqdto.BookAppointmentRequest,
	patientID int64,
	idempotencyKey uuid.UUID,
) (*queries.AppointmentView, error) {
	clinician, err := c.validateAndGetClinician(ctx, req.ClinicianID)
	if err != nil {
		return nil, err
	}

	domainData, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSlot)
	}

	workingHours, err := c.workingHoursFor(ctx, clinician.ID, domainData.Date)
	if err != nil {
		return nil, err
	}

	appointmentEntity, err := appointment.NewAppointment(
		clinician.ID,
		patientID,
		domainData.Date,
		domainData.Start,
		workingHours,
		domainData.Note,
		c.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSlot)
	}

	return c.executeBookingTransaction(ctx, appointmentEntity, idempotencyKey, patientID)
}

func (c *appointmentCommandsImpl) executeBookingTransaction(
	ctx context.Context,
	appointmentEntity *appointment.Appointment,
	idempotencyKey uuid.UUID,
	patientID int64,
) (*queries.AppointmentView, error) {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	appointmentID, err := c.appointmentRepo.Create(ctx, tx, appointmentEntity)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrSlotTaken
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if notificationErr := c.createBookingNotification(ctx, tx, appointmentID); notificationErr != nil {
		return nil, errs.Mark(notificationErr, ErrDatabaseOperationFailed)
	}

	// Placeholder hash until the full view is read back
	tempHash := c.calculateIDHash(appointmentID)
	if err := c.idempotencyRepo.UpdateStatusCompleted(ctx, tx, idempotencyKey, patientID, tempHash, appointmentID); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		return nil, errs.Mark(commitErr, ErrDatabaseOperationFailed)
	}

	// Read-after-write through the read store
	appointmentView, err := c.appointmentQueries.GetByIDSystem(ctx, appointmentID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return appointmentView, nil
}

func (c *appointmentCommandsImpl) Cancel(ctx context.Context, patientID, appointmentID int64) error {
	snap, err := c.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrAppointmentNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	appointmentEntity, err := reconstructAppointment(snap)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := appointmentEntity.Cancel(patientID); err != nil {
		switch {
		case errors.Is(err, appointment.ErrNotOwner):
			// Not disclosed as a permission failure
			return ErrAppointmentNotFound
		case errors.Is(err, appointment.ErrAlreadyCanceled):
			return ErrAppointmentAlreadyCanceled
		default:
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	if err := c.appointmentRepo.UpdateStatus(ctx, c.db, appointmentID, appointmentEntity.Status()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *appointmentCommandsImpl) validateAndGetClinician(ctx context.Context, clinicianID int64) (*ClinicianSnapshot, error) {
	clinician, err := c.clinicianRepo.FindByID(ctx, clinicianID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrClinicianNotFound
		}
		return nil, errs.Mark(err, ErrClinicianNotFound)
	}
	if !clinician.IsActive {
		return nil, ErrClinicianNotFound
	}
	return clinician, nil
}

func (c *appointmentCommandsImpl) workingHoursFor(ctx context.Context, clinicianID int64, date time.Time) (schedule.WorkingHours, error) {
	snap, err := c.scheduleStore.FindWorkingHours(ctx, clinicianID, date.Weekday())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// The clinician does not work that weekday
			return schedule.WorkingHours{}, ErrInvalidSlot
		}
		return schedule.WorkingHours{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	start, err := schedule.ParseTimeOfDay(snap.StartTime)
	if err != nil {
		return schedule.WorkingHours{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	end, err := schedule.ParseTimeOfDay(snap.EndTime)
	if err != nil {
		return schedule.WorkingHours{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return schedule.WorkingHours{Start: start, End: end}, nil
}

func (c *appointmentCommandsImpl) createBookingNotification(ctx context.Context, tx db.DBTX, appointmentID int64) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appointmentID,
		"type":           "appointment_booked",
	})
	if err != nil {
		return err
	}

	return c.notificationRepo.CreateJob(ctx, tx, "email", "appointment_booked", payload, c.clock.Now())
}

func reconstructAppointment(snap *AppointmentSnapshot) (*appointment.Appointment, error) {
	start, err := schedule.ParseTimeOfDay(snap.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := schedule.ParseTimeOfDay(snap.EndTime)
	if err != nil {
		return nil, err
	}

	note := ""
	if snap.Note != nil {
		note = *snap.Note
	}

	return appointment.ReconstructAppointment(
		snap.ID,
		snap.ClinicianID,
		snap.PatientID,
		snap.Date,
		start,
		end,
		appointment.Status(snap.Status),
		note,
		snap.CreatedAt,
		snap.UpdatedAt,
	), nil
}

func (c *appointmentCommandsImpl) calculateRequestHash(req reqdto.BookAppointmentRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func (c *appointmentCommandsImpl) calculateIDHash(id int64) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%d", id)))
	return hex.EncodeToString(hash[:])
}
