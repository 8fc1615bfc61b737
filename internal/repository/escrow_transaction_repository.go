package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/enum"
	"github.com/internbridge/trustguard/internal/models"
	"github.com/internbridge/trustguard/internal/tracing"
)

type escrowTransactionRepository struct {
	db *gorm.DB
}

func NewEscrowTransactionRepository(db *gorm.DB) interfaces.EscrowTransactionRepository {
	return &escrowTransactionRepository{db: db}
}

func (r *escrowTransactionRepository) Create(ctx context.Context, txn *models.EscrowTransaction) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "escrowTransactionRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, txn.CompanyID)

	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		tracing.TraceErr(span, err)
		return fmt.Errorf("failed to create escrow transaction: %w", err)
	}

	return nil
}

func (r *escrowTransactionRepository) GetByID(ctx context.Context, txnID string) (*models.EscrowTransaction, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "escrowTransactionRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagTransaction(span, txnID)

	var txn models.EscrowTransaction
	result := r.db.WithContext(ctx).
		Where("id = ?", txnID).
		First(&txn)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to get escrow transaction: %w", result.Error)
	}

	return &txn, nil
}

func (r *escrowTransactionRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*models.EscrowTransaction, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "escrowTransactionRepository.GetByPaymentRef")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var txn models.EscrowTransaction
	result := r.db.WithContext(ctx).
		Where("payment_ref = ?", paymentRef).
		First(&txn)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to get escrow transaction by reference: %w", result.Error)
	}

	return &txn, nil
}

func (r *escrowTransactionRepository) ListHeldOlderThan(ctx context.Context, cutoff time.Time) ([]models.EscrowTransaction, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "escrowTransactionRepository.ListHeldOlderThan")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var txns []models.EscrowTransaction
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deposited_at < ?", enum.EscrowStatusHeld, cutoff).
		Order("deposited_at ASC").
		Find(&txns).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to list held transactions: %w", err)
	}

	return txns, nil
}

// MarkHeld commits pending -> held, the balance credit and the deposit
// history row in a single database transaction. The status guard in the
// UPDATE makes a duplicate confirmation a no-op reported as ErrWrongState,
// so the caller can never double-credit the balance.
func (r *escrowTransactionRepository) MarkHeld(ctx context.Context, txnID string, depositedAt time.Time) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "escrowTransactionRepository.MarkHeld")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagTransaction(span, txnID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.EscrowTransaction
		if err := tx.Where("id = ?", txnID).First(&txn).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTransactionNotFound
			}
			return err
		}

		result := tx.Model(&models.EscrowTransaction{}).
			Where("id = ? AND status = ?", txnID, enum.EscrowStatusPending).
			Updates(map[string]interface{}{
				"status":       enum.EscrowStatusHeld,
				"deposited_at": depositedAt,
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrWrongState
		}

		if err := tx.Model(&models.Company{}).
			Where("id = ?", txn.CompanyID).
			Update("escrow_balance", gorm.Expr("escrow_balance + ?", txn.Amount)).Error; err != nil {
			return err
		}

		deposit := models.EscrowDeposit{
			CompanyID:     txn.CompanyID,
			TransactionID: txn.ID,
			InternshipID:  txn.InternshipID,
			Amount:        txn.Amount,
		}
		return tx.Create(&deposit).Error
	})
	if err != nil {
		if err == ErrTransactionNotFound || err == ErrWrongState {
			return err
		}
		tracing.TraceErr(span, err)
		return fmt.Errorf("failed to mark transaction held: %w", err)
	}

	return nil
}

// MarkReleased commits held -> released and the balance debit atomically.
// A debit that would take the balance negative rolls the whole transaction
// back and reports ErrNegativeBalance.
func (r *escrowTransactionRepository) MarkReleased(ctx context.Context, txnID, studentID string, releasedAt time.Time) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "escrowTransactionRepository.MarkReleased")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagTransaction(span, txnID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.EscrowTransaction
		if err := tx.Where("id = ?", txnID).First(&txn).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTransactionNotFound
			}
			return err
		}

		result := tx.Model(&models.EscrowTransaction{}).
			Where("id = ? AND status = ?", txnID, enum.EscrowStatusHeld).
			Updates(map[string]interface{}{
				"status":      enum.EscrowStatusReleased,
				"student_id":  studentID,
				"released_at": releasedAt,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrWrongState
		}

		var company models.Company
		if err := tx.Where("id = ?", txn.CompanyID).First(&company).Error; err != nil {
			return err
		}
		if company.EscrowBalance-txn.Amount < 0 {
			return ErrNegativeBalance
		}

		return tx.Model(&models.Company{}).
			Where("id = ?", txn.CompanyID).
			Update("escrow_balance", gorm.Expr("escrow_balance - ?", txn.Amount)).Error
	})
	if err != nil {
		if err == ErrTransactionNotFound || err == ErrWrongState || err == ErrNegativeBalance {
			return err
		}
		tracing.TraceErr(span, err)
		return fmt.Errorf("failed to mark transaction released: %w", err)
	}

	return nil
}

func (r *escrowTransactionRepository) MarkFailed(ctx context.Context, txnID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "escrowTransactionRepository.MarkFailed")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagTransaction(span, txnID)

	result := r.db.WithContext(ctx).
		Model(&models.EscrowTransaction{}).
		Where("id = ? AND status = ?", txnID, enum.EscrowStatusPending).
		Updates(map[string]interface{}{
			"status":     enum.EscrowStatusFailed,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to mark transaction failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWrongState
	}

	return nil
}

func (r *escrowTransactionRepository) GetBalance(ctx context.Context, companyID string) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "escrowTransactionRepository.GetBalance")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagCompany(span, companyID)

	var company models.Company
	result := r.db.WithContext(ctx).
		Select("escrow_balance").
		Where("id = ?", companyID).
		First(&company)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return 0, ErrCompanyNotFound
		}
		tracing.TraceErr(span, result.Error)
		return 0, fmt.Errorf("failed to get escrow balance: %w", result.Error)
	}

	return company.EscrowBalance, nil
}
