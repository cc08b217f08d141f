package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "giftcard-fulfillment/internal/handler/dto/request"
	resdto "giftcard-fulfillment/internal/handler/dto/response"
	"giftcard-fulfillment/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PoolHandler struct {
	poolUseCase usecase.PoolUseCase
}

func NewPoolHandler(poolUseCase usecase.PoolUseCase) *PoolHandler {
	return &PoolHandler{
		poolUseCase: poolUseCase,
	}
}

// @Summary List codes
// @Description List pool codes with optional denomination and status filters
// @Tags pool
// @Produce json
// @Security BearerAuth
// @Param denomination query int false "Filter by denomination"
// @Param status query string false "Filter by status (assigned or available)"
// @Param limit query int false "Maximum rows returned"
// @Success 200 {array} resdto.CodeResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/codes [get]
func (h *PoolHandler) ListCodes(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	views, err := h.poolUseCase.ListCodes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromGiftCodeViews(views))
}

// @Summary Import codes
// @Description Insert a batch of new unused codes; duplicates are skipped
// @Tags pool
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ImportCodesRequest true "Import request"
// @Success 200 {object} resdto.ImportCodesResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/codes/import [post]
func (h *PoolHandler) ImportCodes(c *gin.Context) {
	var req reqdto.ImportCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	codes := req.CleanCodes()
	if len(codes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No non-empty codes in request",
		})
		return
	}

	inserted, err := h.poolUseCase.ImportCodes(c.Request.Context(), req.Denomination, codes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resdto.ImportCodesResponse{
		Inserted: inserted,
		Skipped:  int64(len(codes)) - inserted,
	})
}

// @Summary Correct denomination
// @Description Change the denomination of an unassigned code
// @Tags pool
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Code ID"
// @Param request body reqdto.CorrectDenominationRequest true "Correction request"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/codes/{id}/denomination [put]
func (h *PoolHandler) CorrectDenomination(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid code ID format",
		})
		return
	}

	var req reqdto.CorrectDenominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.poolUseCase.CorrectDenomination(c.Request.Context(), id, req.Denomination); err != nil {
		switch {
		case errors.Is(err, usecase.ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Code not found",
			})
		case errors.Is(err, usecase.ErrCodeAlreadyAssigned):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Code already assigned to an order",
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

// @Summary Issue code manually
// @Description Assign one code to an order reference outside the webhook flow
// @Tags pool
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ManualIssueRequest true "Issue request"
// @Success 200 {object} resdto.ManualIssueResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /admin/codes/issue [post]
func (h *PoolHandler) IssueManual(c *gin.Context) {
	var req reqdto.ManualIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.poolUseCase.IssueManual(c.Request.Context(), req.OrderRef, req.Denomination)
	if err != nil {
		if errors.Is(err, usecase.ErrPoolExhausted) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Gift code pool exhausted",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromManualIssueResult(result))
}

// @Summary Pool counts
// @Description Per-denomination totals of assigned and available codes
// @Tags pool
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.DenominationCountResponse
// @Failure 401 {object} map[string]string
// @Router /admin/codes/counts [get]
func (h *PoolHandler) Counts(c *gin.Context) {
	counts, err := h.poolUseCase.Counts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromDenominationCounts(counts))
}

// @Summary Export codes
// @Description Download the whole pool as semicolon-delimited CSV
// @Tags pool
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string
// @Failure 401 {object} map[string]string
// @Router /admin/codes/export [get]
func (h *PoolHandler) ExportCodes(c *gin.Context) {
	data, err := h.poolUseCase.ExportCodes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="gift_codes.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// @Summary Recent audit records
// @Description Most recent webhook processing records, newest first
// @Tags pool
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum records returned (default 100, max 500)"
// @Success 200 {array} resdto.AuditRecordResponse
// @Failure 401 {object} map[string]string
// @Router /admin/audit [get]
func (h *PoolHandler) RecentAudit(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit format",
			})
			return
		}
		limit = parsed
	}

	records, err := h.poolUseCase.RecentAudit(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromAuditRecords(records))
}

func (h *PoolHandler) parseFilter(c *gin.Context) (usecase.CodeFilter, error) {
	var filter usecase.CodeFilter

	if raw := c.Query("denomination"); raw != "" {
		denomination, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("invalid denomination format")
		}
		filter.Denomination = &denomination
	}

	switch status := usecase.CodeStatus(c.Query("status")); status {
	case usecase.CodeStatusAny, usecase.CodeStatusAssigned, usecase.CodeStatusAvailable:
		filter.Status = status
	default:
		return filter, errors.New("invalid status, expected assigned or available")
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("invalid limit format")
		}
		filter.Limit = limit
	}

	return filter, nil
}
