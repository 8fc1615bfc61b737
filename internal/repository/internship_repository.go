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

type internshipRepository struct {
	db *gorm.DB
}

func NewInternshipRepository(db *gorm.DB) interfaces.InternshipRepository {
	return &internshipRepository{db: db}
}

func (r *internshipRepository) GetByID(ctx context.Context, internshipID string) (*models.Internship, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "internshipRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var internship models.Internship
	result := r.db.WithContext(ctx).
		Where("id = ?", internshipID).
		First(&internship)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrInternshipNotFound
		}
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to get internship: %w", result.Error)
	}

	return &internship, nil
}

func (r *internshipRepository) ListByCompanySince(ctx context.Context, companyID string, since time.Time) ([]models.Internship, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "internshipRepository.ListByCompanySince")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	var internships []models.Internship
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND created_at >= ?", companyID, since).
		Order("created_at ASC").
		Find(&internships).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}

	return internships, nil
}
