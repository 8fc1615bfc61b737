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

type trustScoreHistoryRepository struct {
	db *gorm.DB
}

func NewTrustScoreHistoryRepository(db *gorm.DB) interfaces.TrustScoreHistoryRepository {
	return &trustScoreHistoryRepository{db: db}
}

// RecordScore commits the company's new score and the write-once audit row in
// a single database transaction, so a stored score always has a matching
// history entry.
func (r *trustScoreHistoryRepository) RecordScore(ctx context.Context, companyID string, score int, updatedAt time.Time, reason string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "trustScoreHistoryRepository.RecordScore")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Company{}).
			Where("id = ?", companyID).
			Updates(map[string]interface{}{
				"trust_score":            score,
				"trust_score_updated_at": updatedAt,
				"updated_at":             time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCompanyNotFound
		}

		entry := models.TrustScoreHistory{
			CompanyID: companyID,
			Score:     score,
			Reason:    reason,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		if err == ErrCompanyNotFound {
			return err
		}
		tracing.TraceErr(span, err)
		return fmt.Errorf("failed to record trust score: %w", err)
	}

	return nil
}

func (r *trustScoreHistoryRepository) ListByCompany(ctx context.Context, companyID string, limit int) ([]models.TrustScoreHistory, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "trustScoreHistoryRepository.ListByCompany")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	if limit <= 0 {
		limit = 50
	}

	var entries []models.TrustScoreHistory
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to list trust score history: %w", err)
	}

	return entries, nil
}
