package interfaces

import (
	"context"
	"time"

	"github.com/internbridge/trustguard/internal/models"
)

// EscrowTransactionRepository persists escrow transactions and keeps the
// company balance consistent with transaction state. MarkHeld and
// MarkReleased commit the status change, the balance delta and the history
// row in a single database transaction.
type EscrowTransactionRepository interface {
	Create(ctx context.Context, txn *models.EscrowTransaction) error
	GetByID(ctx context.Context, txnID string) (*models.EscrowTransaction, error)
	GetByPaymentRef(ctx context.Context, paymentRef string) (*models.EscrowTransaction, error)
	ListHeldOlderThan(ctx context.Context, cutoff time.Time) ([]models.EscrowTransaction, error)
	MarkHeld(ctx context.Context, txnID string, depositedAt time.Time) error
	MarkReleased(ctx context.Context, txnID, studentID string, releasedAt time.Time) error
	MarkFailed(ctx context.Context, txnID string) error
	GetBalance(ctx context.Context, companyID string) (int64, error)
}
