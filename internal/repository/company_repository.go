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

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) interfaces.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetByID(ctx context.Context, companyID string) (*models.Company, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "companyRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	var company models.Company
	result := r.db.WithContext(ctx).
		Where("id = ?", companyID).
		First(&company)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrCompanyNotFound
		}
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to get company: %w", result.Error)
	}

	return &company, nil
}

func (r *companyRepository) ListIDs(ctx context.Context) ([]string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "companyRepository.ListIDs")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Pluck("id", &ids).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to list company ids: %w", err)
	}

	return ids, nil
}

func (r *companyRepository) UpdateResponseRate(ctx context.Context, companyID string, rate float64) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "companyRepository.UpdateResponseRate")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	return r.updateSignal(ctx, span, companyID, "response_rate", rate)
}

func (r *companyRepository) UpdatePaymentReliability(ctx context.Context, companyID string, rate float64) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "companyRepository.UpdatePaymentReliability")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	return r.updateSignal(ctx, span, companyID, "payment_reliability", rate)
}

func (r *companyRepository) updateSignal(ctx context.Context, span opentracing.Span, companyID, column string, rate float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]interface{}{
			column:       rate,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to update %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCompanyNotFound
	}

	return nil
}

// Suspend sets the suspension flags. The flag is one-way from this path;
// re-activation is an administrative action outside this service.
func (r *companyRepository) Suspend(ctx context.Context, companyID, reason string, flagCount int) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "companyRepository.Suspend")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	result := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]interface{}{
			"is_suspended":      true,
			"suspension_reason": reason,
			"flag_count":        flagCount,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to suspend company: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCompanyNotFound
	}

	return nil
}
