package repository

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/models"
	"github.com/internbridge/trustguard/internal/tracing"
)

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) interfaces.ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) ListByCompany(ctx context.Context, companyID string) ([]models.Application, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "applicationRepository.ListByCompany")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	var applications []models.Application
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&applications).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return applications, nil
}
