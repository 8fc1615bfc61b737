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

type paymentRecordRepository struct {
	db *gorm.DB
}

func NewPaymentRecordRepository(db *gorm.DB) interfaces.PaymentRecordRepository {
	return &paymentRecordRepository{db: db}
}

func (r *paymentRecordRepository) ListByCompany(ctx context.Context, companyID string) ([]models.PaymentRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "paymentRecordRepository.ListByCompany")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	var records []models.PaymentRecord
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&records).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}

	return records, nil
}
