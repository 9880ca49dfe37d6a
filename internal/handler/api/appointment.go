package api

import (
	"errors"
	"net/http"

	reqdto "clinicore/internal/handler/dto/request"
	resdto "clinicore/internal/handler/dto/response"
	"clinicore/internal/handler/middleware"
	"clinicore/internal/usecase/commands"
	"clinicore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errIdempotencyKeyRequired = errors.New("Idempotency-Key header required")

type AppointmentHandler struct {
	appointmentCommands commands.AppointmentCommands
	appointmentQueries  queries.AppointmentQueries
}

func NewAppointmentHandler(
	appointmentCommands commands.AppointmentCommands,
	appointmentQueries queries.AppointmentQueries,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentCommands: appointmentCommands,
		appointmentQueries:  appointmentQueries,
	}
}

// @Summary Book appointment
// @Description Book a 30-minute slot with a clinician, guarded by an idempotency key
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.BookAppointmentRequest true "Booking request"
// @Success 200 {object} resdto.AppointmentResponse "Replayed booking"
// @Success 201 {object} resdto.AppointmentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /appointments [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	patientID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.BookAppointmentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.appointmentCommands.Book(c.Request.Context(), req, patientID, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrClinicianNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Clinician not found",
			})
		case errors.Is(err, commands.ErrInvalidSlot):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Requested slot is not bookable",
			})
		case errors.Is(err, commands.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot is already booked",
			})
		case errors.Is(err, commands.ErrDuplicateBooking):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Duplicate booking request with different parameters",
			})
		case errors.Is(err, commands.ErrBookingInProgress):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking request is currently being processed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromAppointmentView(result.Appointment))
}

// @Summary Get appointment
// @Description Get one of the current user's appointments by ID
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	patientID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID format",
		})
		return
	}

	view, err := h.appointmentQueries.GetByID(c.Request.Context(), patientID, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

// @Summary List my appointments
// @Description List the current user's appointments, newest first
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.AppointmentListResponse
// @Failure 401 {object} map[string]string
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	patientID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	items, err := h.appointmentQueries.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.AppointmentListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromAppointmentListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Cancel appointment
// @Description Cancel one of the current user's booked appointments
// @Tags appointments
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	patientID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID format",
		})
		return
	}

	if err := h.appointmentCommands.Cancel(c.Request.Context(), patientID, id); err != nil {
		switch {
		case errors.Is(err, commands.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		case errors.Is(err, commands.ErrAppointmentAlreadyCanceled):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Appointment is already canceled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
