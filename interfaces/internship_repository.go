package interfaces

import (
	"context"
	"time"

	"github.com/internbridge/trustguard/internal/models"
)

type InternshipRepository interface {
	GetByID(ctx context.Context, internshipID string) (*models.Internship, error)
	ListByCompanySince(ctx context.Context, companyID string, since time.Time) ([]models.Internship, error)
}
