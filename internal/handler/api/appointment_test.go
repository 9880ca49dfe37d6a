//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"clinicore/internal/domain/user"
	"clinicore/internal/handler/api"
	resdto "clinicore/internal/handler/dto/response"
	"clinicore/internal/usecase/commands"
	"clinicore/internal/usecase/queries"
	"clinicore/tests/common/builder"
	"clinicore/tests/common/httptest"
	"clinicore/tests/common/testutil"
	commandsmock "clinicore/tests/mock/commands"
	queriesmock "clinicore/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AppointmentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAppointmentCommands
	mockQueries  *queriesmock.MockAppointmentQueries
	handler      *api.AppointmentHandler
}

func (s *AppointmentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAppointmentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockAppointmentQueries(s.mockCtrl)
	s.handler = api.NewAppointmentHandler(s.mockCommands, s.mockQueries)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", testUserID)
		c.Set("user_role", user.RolePatient)
		c.Next()
	}

	s.router.POST("/appointments", authMiddleware, s.handler.Book)
	s.router.GET("/appointments", authMiddleware, s.handler.List)
	s.router.GET("/appointments/:id", authMiddleware, s.handler.Get)
	s.router.DELETE("/appointments/:id", authMiddleware, s.handler.Cancel)
}

func (s *AppointmentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAppointmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(AppointmentHandlerTestSuite))
}

// ================================================================================
// TestBook
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestBook() {
	url := "/appointments"
	idempotencyKey := uuid.New()
	headers := map[string]string{"Idempotency-Key": idempotencyKey.String()}

	reqBody := builder.NewAppointmentBuilder().BuildBookRequestDTO()
	returnView := builder.NewAppointmentBuilder().WithPatientID(testUserID).BuildView()

	s.Run("success: returns 201 Created for a new booking", func() {
		result := &commands.BookAppointmentResult{Appointment: returnView, IsReplayed: false}
		s.mockCommands.EXPECT().Book(gomock.Any(), reqBody, testUserID, idempotencyKey).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", headers)

		var response resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal(returnView.StartTime, response.StartTime)
		s.Equal("booked", response.Status)
	})

	s.Run("success: returns 200 OK when the idempotency key replays", func() {
		result := &commands.BookAppointmentResult{Appointment: returnView, IsReplayed: true}
		s.mockCommands.EXPECT().Book(gomock.Any(), reqBody, testUserID, idempotencyKey).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", headers)

		var response resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnView.ID, response.ID)
	})

	s.Run("error: 400 Bad Request when Idempotency-Key header missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key header required")
	})

	s.Run("error: 400 Bad Request for malformed idempotency key", func() {
		badHeaders := map[string]string{"Idempotency-Key": "not-a-uuid"}
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", badHeaders)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid idempotency key format")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: clinician_id", mutate: testutil.Field("clinician_id", nil)},
			{name: "missing field: date", mutate: testutil.Field("date", nil)},
			{name: "missing field: start_time", mutate: testutil.Field("start_time", nil)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token", headers)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "", headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "clinician not found",
				commandsError:  commands.ErrClinicianNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Clinician not found",
			},
			{
				name:           "slot not bookable",
				commandsError:  commands.ErrInvalidSlot,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Requested slot is not bookable",
			},
			{
				name:           "slot already booked",
				commandsError:  commands.ErrSlotTaken,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Slot is already booked",
			},
			{
				name:           "same key different payload",
				commandsError:  commands.ErrDuplicateBooking,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Duplicate booking request",
			},
			{
				name:           "booking still processing",
				commandsError:  commands.ErrBookingInProgress,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "currently being processed",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Book(gomock.Any(), reqBody, testUserID, idempotencyKey).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", headers)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet / TestList
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestGet() {
	returnView := builder.NewAppointmentBuilder().WithID(5).WithPatientID(testUserID).BuildView()

	s.Run("success: returns 200 OK with AppointmentResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), testUserID, int64(5)).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments/5", nil, "bearer-token")

		var response resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(5), response.ID)
		s.Equal(returnView.ClinicianName, response.ClinicianName)
	})

	s.Run("error: 404 Not Found covers both missing and foreign appointments", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), testUserID, int64(5)).
			Return(nil, queries.ErrAppointmentNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments/5", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Appointment not found")
	})

	s.Run("error: 400 Bad Request for non-numeric ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments/abc", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid appointment ID")
	})
}

func (s *AppointmentHandlerTestSuite) TestList() {
	items := []*queries.AppointmentListItem{
		builder.NewAppointmentBuilder().WithID(1).BuildListItem(),
		builder.NewAppointmentBuilder().WithID(2).WithStartTime("11:00", "11:30").BuildListItem(),
	}

	s.Run("success: returns the current user's appointments", func() {
		s.mockQueries.EXPECT().ListByPatient(gomock.Any(), testUserID).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments", nil, "bearer-token")

		var response []resdto.AppointmentListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("11:00", response[1].StartTime)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestCancel() {
	url := "/appointments/5"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), testUserID, int64(5)).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "not found or foreign appointment",
				commandsError:  commands.ErrAppointmentNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Appointment not found",
			},
			{
				name:           "already canceled",
				commandsError:  commands.ErrAppointmentAlreadyCanceled,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "already canceled",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Cancel(gomock.Any(), testUserID, int64(5)).
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}
