//go:build e2e

package promotion_test

import (
	"fmt"
	"net/http"
	"testing"

	"clinicore/internal/domain/user"
	"clinicore/internal/handler/dto/request"
	"clinicore/internal/handler/dto/response"
	"clinicore/tests/common/builder"
	"clinicore/tests/common/dbtest"
	"clinicore/tests/common/httptest"
	"clinicore/tests/e2e"
	"clinicore/tests/e2e/common/helper"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	promotionsURL = "/api/promotions"
	claimURL      = "/api/promotions/claim"
	issueCodeURL  = "/api/promotions/%d/qr"
	vouchersURL   = "/api/vouchers"
)

type PromotionSuite struct {
	e2e.SharedSuite
	auth *helper.AuthTestHelper
}

func (s *PromotionSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.auth = helper.NewAuthTestHelper(s.DB, s.Config.JWT)
}

func TestPromotionSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PromotionSuite))
}

func (s *PromotionSuite) issueCode(t *testing.T, staffToken string, promotionID int64) response.IssuedCodeResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost,
		fmt.Sprintf(issueCodeURL, promotionID), nil, staffToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var code response.IssuedCodeResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &code)
	require.Equal(t, promotionID, code.PromotionID)
	require.NotEmpty(t, code.Signature)
	return code
}

func claimRequestFromCode(code response.IssuedCodeResponse) request.ClaimVoucherRequest {
	return request.ClaimVoucherRequest{
		PromotionID: code.PromotionID,
		Signature:   code.Signature,
		IssuedAt:    code.IssuedAt,
		Nonce:       code.Nonce,
	}
}

// =============================================================================
// TestClaimFlow - QR issue and voucher claim end to end
// =============================================================================

func (s *PromotionSuite) TestClaimFlow() {
	s.Run("Normal case: scanned code grants a voucher exactly once", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "staff@example.com", string(user.RoleStaff))
		staffToken := s.auth.LoginUser(t, s.Router, "staff@example.com", "password123")

		dbtest.CreateTestUser(t, s.DB, "patient@example.com", string(user.RolePatient))
		patientToken := s.auth.LoginUser(t, s.Router, "patient@example.com", "password123")

		promotionID := dbtest.CreateTestPromotion(t, s.DB, "Annual checkup discount", true)
		code := s.issueCode(t, staffToken, promotionID)

		// First scan grants the voucher
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, claimURL,
			claimRequestFromCode(code), patientToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var claim response.ClaimResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &claim)
		require.True(t, claim.Granted)
		require.Equal(t, promotionID, claim.PromotionID)
		require.NotZero(t, claim.VoucherID)

		// Second scan of the same promotion replays instead of failing
		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, claimURL,
			claimRequestFromCode(code), patientToken)
		require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())

		var replay response.ClaimResponse
		httptest.AssertSuccessResponse(t, w2, http.StatusOK, &replay)
		require.False(t, replay.Granted)
		require.Equal(t, claim.VoucherID, replay.VoucherID)
		require.Equal(t, "already claimed", replay.Message)

		// The voucher shows up in the patient's wallet
		vw := httptest.PerformRequest(t, s.Router, http.MethodGet, vouchersURL, nil, patientToken)
		var vouchers []*response.VoucherResponse
		httptest.AssertSuccessResponse(t, vw, http.StatusOK, &vouchers)
		require.Len(t, vouchers, 1)
		require.Equal(t, promotionID, vouchers[0].PromotionID)
		require.Equal(t, "Annual checkup discount", vouchers[0].PromotionTitle)
	})

	s.Run("Normal case: two patients can claim the same promotion", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "staff@example.com", string(user.RoleStaff))
		staffToken := s.auth.LoginUser(t, s.Router, "staff@example.com", "password123")

		dbtest.CreateTestUser(t, s.DB, "patient1@example.com", string(user.RolePatient))
		dbtest.CreateTestUser(t, s.DB, "patient2@example.com", string(user.RolePatient))
		token1 := s.auth.LoginUser(t, s.Router, "patient1@example.com", "password123")
		token2 := s.auth.LoginUser(t, s.Router, "patient2@example.com", "password123")

		promotionID := dbtest.CreateTestPromotion(t, s.DB, "Flu shot special", true)
		code := s.issueCode(t, staffToken, promotionID)

		for _, token := range []string{token1, token2} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, claimURL,
				claimRequestFromCode(code), token)
			var claim response.ClaimResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &claim)
			require.True(t, claim.Granted)
		}
	})

	s.Run("Error case: tampered signature is rejected", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "staff@example.com", string(user.RoleStaff))
		staffToken := s.auth.LoginUser(t, s.Router, "staff@example.com", "password123")

		dbtest.CreateTestUser(t, s.DB, "patient@example.com", string(user.RolePatient))
		patientToken := s.auth.LoginUser(t, s.Router, "patient@example.com", "password123")

		promotionID := dbtest.CreateTestPromotion(t, s.DB, "Dental cleaning", true)
		code := s.issueCode(t, staffToken, promotionID)

		req := claimRequestFromCode(code)
		req.Nonce++ // signature no longer covers the payload

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, claimURL, req, patientToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid claim signature")
	})

	s.Run("Error case: issuing a code for an inactive promotion fails", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "staff@example.com", string(user.RoleStaff))
		staffToken := s.auth.LoginUser(t, s.Router, "staff@example.com", "password123")

		promotionID := dbtest.CreateTestPromotion(t, s.DB, "Retired promo", false)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(issueCodeURL, promotionID), nil, staffToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("Permission test: patients cannot issue QR codes", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "patient@example.com", string(user.RolePatient))
		patientToken := s.auth.LoginUser(t, s.Router, "patient@example.com", "password123")

		promotionID := dbtest.CreateTestPromotion(t, s.DB, "Staff only issue", true)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(issueCodeURL, promotionID), nil, patientToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, claimURL,
			builder.NewClaimBuilder().BuildRequestDTO(), "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestPromotionManagement - Promotion CRUD over HTTP
// =============================================================================

func (s *PromotionSuite) TestPromotionManagement() {
	s.Run("Normal case: admin creates a promotion and patients see it listed", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		adminToken := s.auth.LoginUser(t, s.Router, "admin@example.com", "password123")

		dbtest.CreateTestUser(t, s.DB, "patient@example.com", string(user.RolePatient))
		patientToken := s.auth.LoginUser(t, s.Router, "patient@example.com", "password123")

		reqBody := builder.NewPromotionBuilder().BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, promotionsURL, reqBody, adminToken)

		var created response.PromotionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.NotZero(t, created.ID)
		require.True(t, created.IsActive)

		expected := &response.PromotionResponse{
			ID:          created.ID,
			Title:       reqBody.Title,
			Description: reqBody.Description,
			IsActive:    true,
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.PromotionResponse{}, "ValidFrom", "ValidTo", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &created, opts...); diff != "" {
			t.Errorf("Promotion response mismatch (-want +got):\n%s", diff)
		}

		lw := httptest.PerformRequest(t, s.Router, http.MethodGet, promotionsURL, nil, patientToken)
		var listed []*response.PromotionResponse
		httptest.AssertSuccessResponse(t, lw, http.StatusOK, &listed)
		require.Len(t, listed, 1)
		require.Equal(t, created.ID, listed[0].ID)
	})

	s.Run("Normal case: deactivation hides the promotion from the active list", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		adminToken := s.auth.LoginUser(t, s.Router, "admin@example.com", "password123")

		promotionID := dbtest.CreateTestPromotion(t, s.DB, "Soon retired", true)

		isActive := false
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf("%s/%d/active", promotionsURL, promotionID),
			request.SetPromotionActiveRequest{IsActive: &isActive}, adminToken)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		lw := httptest.PerformRequest(t, s.Router, http.MethodGet, promotionsURL, nil, adminToken)
		var listed []*response.PromotionResponse
		httptest.AssertSuccessResponse(t, lw, http.StatusOK, &listed)
		require.Empty(t, listed)
	})

	s.Run("Permission test: staff cannot create promotions", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "staff@example.com", string(user.RoleStaff))
		staffToken := s.auth.LoginUser(t, s.Router, "staff@example.com", "password123")

		reqBody := builder.NewPromotionBuilder().BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, promotionsURL, reqBody, staffToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}
