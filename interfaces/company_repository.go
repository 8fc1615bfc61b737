package interfaces

import (
	"context"

	"github.com/internbridge/trustguard/internal/models"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, companyID string) (*models.Company, error)
	ListIDs(ctx context.Context) ([]string, error)
	UpdateResponseRate(ctx context.Context, companyID string, rate float64) error
	UpdatePaymentReliability(ctx context.Context, companyID string, rate float64) error
	Suspend(ctx context.Context, companyID, reason string, flagCount int) error
}
