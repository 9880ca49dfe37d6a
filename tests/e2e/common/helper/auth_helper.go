//go:build e2e

package helper

import (
	"net/http"
	"testing"
	"time"

	"clinicore/internal/domain/user"
	"clinicore/internal/handler/dto/request"
	"clinicore/internal/pkg/config"
	"clinicore/internal/pkg/jwt"
	"clinicore/tests/common/dbtest"
	"clinicore/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// AuthTestHelper creates users directly in the database and logs them in
// through the real login endpoint, so the tokens it hands out are exactly
// what a browser would hold.
type AuthTestHelper struct {
	pool *pgxpool.Pool
	cfg  config.JWTConfig
}

func NewAuthTestHelper(pool *pgxpool.Pool, cfg config.JWTConfig) *AuthTestHelper {
	return &AuthTestHelper{pool: pool, cfg: cfg}
}

func (h *AuthTestHelper) CreateTestUser(t *testing.T, email, role string) int64 {
	return h.CreateTestUserWithDB(t, h.pool, email, role)
}

func (h *AuthTestHelper) CreateTestUserWithDB(t *testing.T, db dbtest.DBLike, email, role string) int64 {
	t.Helper()
	return dbtest.CreateTestUser(t, db, email, role)
}

func (h *AuthTestHelper) LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The access token lives in a cookie, not the JSON body.
	var accessToken string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "access_token" {
			accessToken = cookie.Value
			break
		}
	}
	require.NotEmpty(t, accessToken, "Access token not found in cookies")

	return accessToken
}

func (h *AuthTestHelper) CreateAndLogin(t *testing.T, router *gin.Engine, email, role string) string {
	t.Helper()
	h.CreateTestUserWithDB(t, h.pool, email, role)
	return h.LoginUser(t, router, email, "password123")
}

func (h *AuthTestHelper) CreateAndLoginWithDB(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string) string {
	t.Helper()
	h.CreateTestUserWithDB(t, db, email, role)
	return h.LoginUser(t, router, email, "password123")
}

func (h *AuthTestHelper) GenerateToken(t *testing.T, userID int64, role user.Role) string {
	t.Helper()
	duration, _ := time.ParseDuration(h.cfg.AccessTokenDuration)
	refreshDuration, _ := time.ParseDuration(h.cfg.RefreshTokenDuration)
	service := jwt.NewService(h.cfg.Secret, duration, refreshDuration)
	token, err := service.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *AuthTestHelper) CreateExpiredToken(t *testing.T, userID int64, role user.Role) string {
	t.Helper()
	refreshDuration, _ := time.ParseDuration(h.cfg.RefreshTokenDuration)
	service := jwt.NewService(h.cfg.Secret, 1*time.Millisecond, refreshDuration)
	token, err := service.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
