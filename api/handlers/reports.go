package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/tracing"
)

type ReportsHandler struct {
	abuseService interfaces.AbuseService
}

func NewReportsHandler(abuseService interfaces.AbuseService) *ReportsHandler {
	return &ReportsHandler{abuseService: abuseService}
}

// Aggregate counts the company's recent fraud reports and suspends it when
// the threshold is crossed. Called after each new report lands.
func (h *ReportsHandler) Aggregate() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ReportsHandler.Aggregate")
		defer span.Finish()
		tracing.TagComponentRest(span)

		companyID := c.Param("id")
		if companyID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing company id"})
			return
		}
		tracing.TagCompany(span, companyID)

		result, err := h.abuseService.AggregateReports(ctx, companyID)
		if err != nil {
			respondServiceError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
