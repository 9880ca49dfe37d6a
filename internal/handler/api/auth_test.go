//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"clinicore/internal/domain/user"
	"clinicore/internal/handler/api"
	resdto "clinicore/internal/handler/dto/response"
	"clinicore/internal/pkg/config"
	"clinicore/internal/pkg/cookie"
	"clinicore/internal/pkg/jwt"
	"clinicore/internal/usecase/commands"
	"clinicore/internal/usecase/queries"
	"clinicore/tests/common/httptest"
	"clinicore/tests/common/testutil"
	commandsmock "clinicore/tests/mock/commands"
	queriesmock "clinicore/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	handler      *api.AuthHandler
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)

	jwtService := jwt.NewService("test-jwt-secret", 15*time.Minute, 168*time.Hour)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries, jwtService, config.CookieConfig{SameSite: "Lax"})

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", testUserID)
		c.Set("user_role", user.RolePatient)
		c.Next()
	}

	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/refresh", s.handler.Refresh)
	s.router.POST("/auth/logout", authMiddleware, s.handler.Logout)
	s.router.GET("/auth/me", authMiddleware, s.handler.Me)
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) authorizedUser() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:          testUserID,
		Email:       "patient@example.com",
		Role:        "patient",
		DisplayName: "Somchai P.",
		IsActive:    true,
	}
}

// ================================================================================
// TestLogin
// ================================================================================

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"
	reqBody := map[string]any{
		"email":    "patient@example.com",
		"password": "password123",
	}

	loginResult := &commands.LoginResult{
		UserID: testUserID,
		TokenPair: &commands.TokenPair{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
		},
	}

	s.Run("success: returns 200 OK and sets token cookies", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(loginResult, nil).Times(1)
		s.mockQueries.EXPECT().GetAuthorizedUser(gomock.Any(), testUserID).
			Return(s.authorizedUser(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("access-token", response.AccessToken)
		s.Equal("patient@example.com", response.User.Email)

		accessCookie := httptest.ExtractCookie(rec, cookie.AccessTokenCookieName)
		s.Require().NotNil(accessCookie)
		s.Equal("access-token", accessCookie.Value)
		s.True(accessCookie.HttpOnly)

		refreshCookie := httptest.ExtractCookie(rec, cookie.RefreshTokenCookieName)
		s.Require().NotNil(refreshCookie)
		s.Equal("refresh-token", refreshCookie.Value)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: email", mutate: testutil.Field("email", nil)},
			{name: "missing field: password", mutate: testutil.Field("password", nil)},
			{name: "malformed email", mutate: testutil.Field("email", "not-an-email")},
			{name: "password shorter than 8 chars", mutate: testutil.Field("password", "short")},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: credential failures collapse into one 401 message", func() {
		for _, commandsError := range []error{
			commands.ErrInvalidCredentials,
			commands.ErrUserNotFound,
			commands.ErrAuthenticationFailed,
		} {
			s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
				Return(nil, commandsError).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid email or password")
		}
	})

	s.Run("error: 403 Forbidden for inactive account", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrUserInactive).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Account is inactive")
	})

	s.Run("error: 500 when the user view cannot be loaded", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(loginResult, nil).Times(1)
		s.mockQueries.EXPECT().GetAuthorizedUser(gomock.Any(), testUserID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestRefresh
// ================================================================================

func (s *AuthHandlerTestSuite) TestRefresh() {
	url := "/auth/refresh"

	tokenPair := &commands.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	s.Run("success: refresh token from request body", func() {
		s.mockCommands.EXPECT().RefreshToken(gomock.Any(), "refresh-token").
			Return(tokenPair, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"refresh_token": "refresh-token"}, "")

		var response resdto.RefreshResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("new-access-token", response.AccessToken)

		refreshCookie := httptest.ExtractCookie(rec, cookie.RefreshTokenCookieName)
		s.Require().NotNil(refreshCookie)
		s.Equal("new-refresh-token", refreshCookie.Value)
	})

	s.Run("error: 401 Unauthorized without a refresh token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Refresh token required")
	})

	s.Run("error: 401 Unauthorized for invalid refresh token", func() {
		s.mockCommands.EXPECT().RefreshToken(gomock.Any(), "bad-token").
			Return(nil, commands.ErrTokenValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"refresh_token": "bad-token"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired refresh token")
	})

	s.Run("error: 403 Forbidden when the account went inactive", func() {
		s.mockCommands.EXPECT().RefreshToken(gomock.Any(), "refresh-token").
			Return(nil, commands.ErrUserInactive).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"refresh_token": "refresh-token"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Account is inactive")
	})
}

// ================================================================================
// TestLogout / TestMe
// ================================================================================

func (s *AuthHandlerTestSuite) TestLogout() {
	s.Run("success: clears cookies and returns 204", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)

		accessCookie := httptest.ExtractCookie(rec, cookie.AccessTokenCookieName)
		s.Require().NotNil(accessCookie)
		s.Empty(accessCookie.Value)
		s.Negative(accessCookie.MaxAge)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	s.Run("success: returns the current user", func() {
		s.mockQueries.EXPECT().GetAuthorizedUser(gomock.Any(), testUserID).
			Return(s.authorizedUser(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/auth/me", nil, "bearer-token")

		var response queries.AuthorizedUserView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(testUserID, response.ID)
		s.Equal("patient", response.Role)
	})

	s.Run("error: 404 Not Found when the user vanished", func() {
		s.mockQueries.EXPECT().GetAuthorizedUser(gomock.Any(), testUserID).
			Return(nil, queries.ErrUserNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/auth/me", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "User not found")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/auth/me", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}
