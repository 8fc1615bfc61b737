package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/models"
	"github.com/internbridge/trustguard/internal/tracing"
)

type fraudReportRepository struct {
	db *gorm.DB
}

func NewFraudReportRepository(db *gorm.DB) interfaces.FraudReportRepository {
	return &fraudReportRepository{db: db}
}

func (r *fraudReportRepository) CountSince(ctx context.Context, companyID string, since time.Time) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "fraudReportRepository.CountSince")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FraudReport{}).
		Where("company_id = ? AND created_at >= ?", companyID, since).
		Count(&count).Error; err != nil {
		tracing.TraceErr(span, err)
		return 0, fmt.Errorf("failed to count fraud reports: %w", err)
	}

	return count, nil
}
