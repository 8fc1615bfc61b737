package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/internbridge/trustguard/dto"
	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/tracing"
)

type EscrowHandler struct {
	escrowService interfaces.EscrowService
}

func NewEscrowHandler(escrowService interfaces.EscrowService) *EscrowHandler {
	return &EscrowHandler{escrowService: escrowService}
}

// CreateDeposit opens a pending escrow transaction and returns the payment
// gateway order the employer pays against.
func (h *EscrowHandler) CreateDeposit() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "EscrowHandler.CreateDeposit")
		defer span.Finish()
		tracing.TagComponentRest(span)

		var req dto.CreateDepositRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tracing.TagCompany(span, req.CompanyID)

		deposit, err := h.escrowService.CreateDeposit(ctx, req.CompanyID, req.InternshipID, req.Amount)
		if err != nil {
			respondServiceError(c, span, err)
			return
		}

		c.JSON(http.StatusCreated, deposit)
	}
}

// ConfirmDeposit is the payment gateway confirmation callback. Idempotent per
// reference; a second confirm for the same deposit gets a conflict.
func (h *EscrowHandler) ConfirmDeposit() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "EscrowHandler.ConfirmDeposit")
		defer span.Finish()
		tracing.TagComponentRest(span)

		var req dto.ConfirmDepositRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := h.escrowService.ConfirmDeposit(ctx, req.Reference); err != nil {
			respondServiceError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "held"})
	}
}

// Release pays out a held escrow transaction to the student.
func (h *EscrowHandler) Release() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "EscrowHandler.Release")
		defer span.Finish()
		tracing.TagComponentRest(span)

		transactionID := c.Param("id")
		if transactionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing transaction id"})
			return
		}
		tracing.TagTransaction(span, transactionID)

		var req dto.ReleaseEscrowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := h.escrowService.ReleaseEscrow(ctx, transactionID, req.StudentID); err != nil {
			respondServiceError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "released"})
	}
}
