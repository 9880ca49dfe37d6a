package api

import (
	"errors"
	"net/http"
	"time"

	resdto "clinicore/internal/handler/dto/response"
	"clinicore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ClinicianHandler struct {
	appointmentQueries queries.AppointmentQueries
}

func NewClinicianHandler(appointmentQueries queries.AppointmentQueries) *ClinicianHandler {
	return &ClinicianHandler{
		appointmentQueries: appointmentQueries,
	}
}

// @Summary Daily availability
// @Description Get the 30-minute slot grid of a clinician for one date,
// @Description split into morning and afternoon. Booked slots stay in the
// @Description grid with is_available=false.
// @Tags clinicians
// @Produce json
// @Security BearerAuth
// @Param id path int true "Clinician ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /clinicians/{id}/availability [get]
func (h *ClinicianHandler) Availability(c *gin.Context) {
	clinicianID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid clinician ID format",
		})
		return
	}

	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing date, expected YYYY-MM-DD",
		})
		return
	}

	view, err := h.appointmentQueries.DailyAvailability(c.Request.Context(), clinicianID, date)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrScheduleNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Clinician has no working hours for that day",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(clinicianID, dateStr, view))
}
