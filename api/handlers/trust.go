package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/internbridge/trustguard/interfaces"
	trusterr "github.com/internbridge/trustguard/internal/errors"
	"github.com/internbridge/trustguard/internal/tracing"
)

const defaultHistoryLimit = 50

type TrustHandler struct {
	trustService interfaces.TrustScoreService
	scamService  interfaces.ScamDetectionService
	history      interfaces.TrustScoreHistoryRepository
}

func NewTrustHandler(
	trustService interfaces.TrustScoreService,
	scamService interfaces.ScamDetectionService,
	history interfaces.TrustScoreHistoryRepository,
) *TrustHandler {
	return &TrustHandler{
		trustService: trustService,
		scamService:  scamService,
		history:      history,
	}
}

// ComputeScore recomputes and persists the company's trust score.
func (h *TrustHandler) ComputeScore() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "TrustHandler.ComputeScore")
		defer span.Finish()
		tracing.TagComponentRest(span)

		companyID := c.Param("id")
		if companyID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing company id"})
			return
		}
		tracing.TagCompany(span, companyID)

		score, err := h.trustService.ComputeScore(ctx, companyID)
		if err != nil {
			respondServiceError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, score)
	}
}

// History lists the trust score audit trail, most recent first.
func (h *TrustHandler) History() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "TrustHandler.History")
		defer span.Finish()
		tracing.TagComponentRest(span)

		companyID := c.Param("id")
		if companyID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing company id"})
			return
		}
		tracing.TagCompany(span, companyID)

		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			limit = parsed
		}

		entries, err := h.history.ListByCompany(ctx, companyID, limit)
		if err != nil {
			respondServiceError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"history": entries})
	}
}

// BehaviorCheck inspects the company's recent listing activity.
func (h *TrustHandler) BehaviorCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "TrustHandler.BehaviorCheck")
		defer span.Finish()
		tracing.TagComponentRest(span)

		companyID := c.Param("id")
		if companyID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing company id"})
			return
		}
		tracing.TagCompany(span, companyID)

		check, err := h.scamService.CheckCompanyBehavior(ctx, companyID)
		if err != nil {
			respondServiceError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, check)
	}
}

// respondServiceError maps service sentinels to HTTP statuses. Unknown errors
// surface as 500 without leaking internals.
func respondServiceError(c *gin.Context, span opentracing.Span, err error) {
	switch {
	case errors.Is(err, trusterr.ErrEmployerNotFound),
		errors.Is(err, trusterr.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, trusterr.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, trusterr.ErrTransactionNotHeld),
		errors.Is(err, trusterr.ErrInvalidTransactionState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, trusterr.ErrAccountFrozen),
		errors.Is(err, trusterr.ErrConsistencyViolation):
		tracing.TraceErr(span, err)
		c.JSON(http.StatusLocked, gin.H{"error": err.Error()})
	case errors.Is(err, trusterr.ErrTimeout):
		tracing.TraceErr(span, err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		tracing.TraceErr(span, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
