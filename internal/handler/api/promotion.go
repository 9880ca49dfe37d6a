package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "clinicore/internal/handler/dto/request"
	resdto "clinicore/internal/handler/dto/response"
	"clinicore/internal/handler/middleware"
	"clinicore/internal/usecase/commands"
	"clinicore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PromotionHandler struct {
	promotionCommands commands.PromotionCommands
	voucherCommands   commands.VoucherCommands
	promotionQueries  queries.PromotionQueries
}

func NewPromotionHandler(
	promotionCommands commands.PromotionCommands,
	voucherCommands commands.VoucherCommands,
	promotionQueries queries.PromotionQueries,
) *PromotionHandler {
	return &PromotionHandler{
		promotionCommands: promotionCommands,
		voucherCommands:   voucherCommands,
		promotionQueries:  promotionQueries,
	}
}

// @Summary List active promotions
// @Description List promotions currently flagged active
// @Tags promotions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.PromotionResponse
// @Failure 401 {object} map[string]string
// @Router /promotions [get]
func (h *PromotionHandler) ListActive(c *gin.Context) {
	views, err := h.promotionQueries.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.PromotionResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromPromotionView(view)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get promotion
// @Description Get promotion by ID
// @Tags promotions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Promotion ID"
// @Success 200 {object} resdto.PromotionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /promotions/{id} [get]
func (h *PromotionHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion ID format",
		})
		return
	}

	view, err := h.promotionQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrPromotionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promotion not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromPromotionView(view))
}

// @Summary Create promotion
// @Description Create a new promotion
// @Tags promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreatePromotionRequest true "Promotion request"
// @Success 201 {object} resdto.PromotionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /promotions [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	var req reqdto.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.promotionCommands.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidPromotion):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid promotion data",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromPromotionView(view))
}

// @Summary Activate or deactivate promotion
// @Description Flip the active flag of a promotion
// @Tags promotions
// @Accept json
// @Security BearerAuth
// @Param id path int true "Promotion ID"
// @Param request body reqdto.SetPromotionActiveRequest true "Active flag"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /promotions/{id}/active [patch]
func (h *PromotionHandler) SetActive(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion ID format",
		})
		return
	}

	var req reqdto.SetPromotionActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.promotionCommands.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		switch {
		case errors.Is(err, commands.ErrPromotionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promotion not found",
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

// @Summary Issue QR code
// @Description Sign a fresh QR payload for a promotion display
// @Tags promotions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Promotion ID"
// @Success 200 {object} resdto.IssuedCodeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /promotions/{id}/qr [post]
func (h *PromotionHandler) IssueCode(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion ID format",
		})
		return
	}

	code, err := h.promotionCommands.IssueCode(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPromotionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promotion not found",
			})
		case errors.Is(err, commands.ErrPromotionUnavailable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Promotion is not claimable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromIssuedCode(code))
}

// @Summary Claim a promotion voucher
// @Description Verify a scanned QR payload and grant a voucher. A repeated
// @Description claim returns the original voucher with granted=false.
// @Tags promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ClaimVoucherRequest true "Scanned QR payload"
// @Success 200 {object} resdto.ClaimResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /promotions/claim [post]
func (h *PromotionHandler) Claim(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ClaimVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.voucherCommands.Claim(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidClaimPayload):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid claim payload",
			})
		case errors.Is(err, commands.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid claim signature",
			})
		case errors.Is(err, commands.ErrClaimExpired):
			c.JSON(http.StatusGone, gin.H{
				"error": "Claim code expired",
			})
		case errors.Is(err, commands.ErrPromotionUnavailable):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promotion unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromClaimResult(result))
}

// @Summary List my vouchers
// @Description List vouchers claimed by the current user
// @Tags promotions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.VoucherResponse
// @Failure 401 {object} map[string]string
// @Router /vouchers [get]
func (h *PromotionHandler) ListMyVouchers(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.promotionQueries.ListVouchersByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.VoucherResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromVoucherView(view)
	}
	c.JSON(http.StatusOK, response)
}

func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
