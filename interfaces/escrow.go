package interfaces

import (
	"context"

	"github.com/internbridge/trustguard/dto"
)

// EscrowService owns the escrow transaction state machine and the per-company
// balance. All mutating operations serialize per company account.
type EscrowService interface {
	CreateDeposit(ctx context.Context, companyID, internshipID string, amount int64) (*dto.Deposit, error)
	ConfirmDeposit(ctx context.Context, reference string) error
	ReleaseEscrow(ctx context.Context, transactionID, studentID string) error
	AutoRelease(ctx context.Context) (int, error)
}
