package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/internbridge/trustguard/dto"
	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/tracing"
)

type ListingsHandler struct {
	scamService interfaces.ScamDetectionService
}

func NewListingsHandler(scamService interfaces.ScamDetectionService) *ListingsHandler {
	return &ListingsHandler{scamService: scamService}
}

// Evaluate runs scam detection on a listing before it goes live. The caller
// passes the full listing payload; the employer's trust score is looked up
// server side.
func (h *ListingsHandler) Evaluate() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ListingsHandler.Evaluate")
		defer span.Finish()
		tracing.TagComponentRest(span)

		var listing dto.Listing
		if err := c.ShouldBindJSON(&listing); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if listing.CompanyID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: companyId"})
			return
		}
		tracing.TagCompany(span, listing.CompanyID)

		verdict, err := h.scamService.EvaluateListing(ctx, listing)
		if err != nil {
			respondServiceError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, verdict)
	}
}
