package escrow

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/internbridge/trustguard/dto"
	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/enum"
	trusterr "github.com/internbridge/trustguard/internal/errors"
	"github.com/internbridge/trustguard/internal/logger"
	"github.com/internbridge/trustguard/internal/models"
	"github.com/internbridge/trustguard/internal/repository"
	"github.com/internbridge/trustguard/internal/tracing"
	"github.com/internbridge/trustguard/internal/utils"
)

type Config struct {
	// HoldingPeriod is how long a deposit stays held before the sweep
	// releases it to the recorded student.
	HoldingPeriod time.Duration
	Currency      string
}

func DefaultConfig() Config {
	return Config{
		HoldingPeriod: 30 * 24 * time.Hour,
		Currency:      "INR",
	}
}

type escrowService struct {
	cfg          Config
	transactions interfaces.EscrowTransactionRepository
	companies    interfaces.CompanyRepository
	gateway      interfaces.PaymentGateway
	publisher    interfaces.EventPublisher
	log          logger.Logger
	locks        *accountLocks
	frozen       *frozenAccounts
}

func NewEscrowService(
	cfg Config,
	transactions interfaces.EscrowTransactionRepository,
	companies interfaces.CompanyRepository,
	gateway interfaces.PaymentGateway,
	publisher interfaces.EventPublisher,
	log logger.Logger,
) interfaces.EscrowService {
	return &escrowService{
		cfg:          cfg,
		transactions: transactions,
		companies:    companies,
		gateway:      gateway,
		publisher:    publisher,
		log:          log,
		locks:        newAccountLocks(),
		frozen:       newFrozenAccounts(),
	}
}

// CreateDeposit opens a pending transaction and asks the payment gateway for
// an order. The returned reference comes back on the gateway's confirmation
// callback.
func (s *escrowService) CreateDeposit(ctx context.Context, companyID, internshipID string, amount int64) (*dto.Deposit, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EscrowService.CreateDeposit")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagCompany(span, companyID)

	if amount <= 0 {
		return nil, trusterr.ErrInvalidAmount
	}

	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		if err == repository.ErrCompanyNotFound {
			return nil, trusterr.ErrEmployerNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	txn := &models.EscrowTransaction{
		ID:           utils.GenerateID(),
		CompanyID:    companyID,
		InternshipID: internshipID,
		Amount:       amount,
		Status:       enum.EscrowStatusPending,
		PaymentRef:   utils.GenerateDepositReference(internshipID),
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	tracing.TagTransaction(span, txn.ID)

	order, err := s.gateway.CreateOrder(ctx, txn.PaymentRef, amount)
	if err != nil {
		tracing.TraceErr(span, err)
		if failErr := s.transactions.MarkFailed(ctx, txn.ID); failErr != nil {
			s.log.Errorf("Failed to mark transaction %s failed after gateway error: %v", txn.ID, failErr)
		}
		return nil, errors.Wrap(err, "payment gateway order creation failed")
	}

	return &dto.Deposit{
		TransactionID: txn.ID,
		Reference:     txn.PaymentRef,
		OrderID:       order.OrderID,
		Amount:        amount,
		Currency:      s.cfg.Currency,
	}, nil
}

// ConfirmDeposit is the payment gateway's callback. It moves the referenced
// transaction pending -> held and credits the account balance exactly once.
// Confirmation is keyed by transaction, so a duplicate callback is a safe
// no-op reported as an invalid state.
func (s *escrowService) ConfirmDeposit(ctx context.Context, reference string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EscrowService.ConfirmDeposit")
	defer span.Finish()
	tracing.TagComponentService(span)

	txn, err := s.transactions.GetByPaymentRef(ctx, reference)
	if err != nil {
		if err == repository.ErrTransactionNotFound {
			return trusterr.ErrInvalidTransactionState
		}
		tracing.TraceErr(span, err)
		return err
	}
	tracing.TagTransaction(span, txn.ID)
	tracing.TagCompany(span, txn.CompanyID)

	lock := s.locks.forCompany(txn.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	if s.frozen.IsFrozen(txn.CompanyID) {
		return trusterr.ErrAccountFrozen
	}

	if !txn.Status.CanTransitionTo(enum.EscrowStatusHeld) {
		return trusterr.ErrInvalidTransactionState
	}

	if err := s.transactions.MarkHeld(ctx, txn.ID, utils.Now()); err != nil {
		switch err {
		case repository.ErrWrongState, repository.ErrTransactionNotFound:
			return trusterr.ErrInvalidTransactionState
		}
		tracing.TraceErr(span, err)
		return err
	}

	s.log.Infof("Escrow deposit confirmed: transaction %s, company %s, amount %d", txn.ID, txn.CompanyID, txn.Amount)
	return nil
}

// ReleaseEscrow pays out a held transaction to the student. The state change
// and the balance debit commit together or not at all. A debit that would
// take the balance negative is an invariant break: the account is frozen and
// the error surfaces as a consistency violation.
func (s *escrowService) ReleaseEscrow(ctx context.Context, transactionID, studentID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EscrowService.ReleaseEscrow")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagTransaction(span, transactionID)

	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		if err == repository.ErrTransactionNotFound {
			return trusterr.ErrTransactionNotFound
		}
		tracing.TraceErr(span, err)
		return err
	}
	tracing.TagCompany(span, txn.CompanyID)

	lock := s.locks.forCompany(txn.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	if s.frozen.IsFrozen(txn.CompanyID) {
		return trusterr.ErrAccountFrozen
	}

	if !txn.Status.CanTransitionTo(enum.EscrowStatusReleased) {
		return trusterr.ErrTransactionNotHeld
	}

	if err := s.transactions.MarkReleased(ctx, transactionID, studentID, utils.Now()); err != nil {
		switch err {
		case repository.ErrWrongState:
			return trusterr.ErrTransactionNotHeld
		case repository.ErrTransactionNotFound:
			return trusterr.ErrTransactionNotFound
		case repository.ErrNegativeBalance:
			s.frozen.Freeze(txn.CompanyID)
			s.log.Errorf("ALERT: escrow balance for company %s would go negative releasing transaction %s; account frozen", txn.CompanyID, transactionID)
			return trusterr.ErrConsistencyViolation
		}
		tracing.TraceErr(span, err)
		return err
	}

	s.log.Infof("Escrow released: %d to student %s (transaction %s)", txn.Amount, studentID, transactionID)

	if s.publisher != nil {
		event := dto.EscrowReleased{
			TransactionID: transactionID,
			CompanyID:     txn.CompanyID,
			StudentID:     studentID,
			Amount:        txn.Amount,
		}
		if err := s.publisher.PublishEvent(ctx, transactionID, enum.EventEscrowReleased, event); err != nil {
			s.log.Errorf("Failed to publish escrow released event: %v", err)
		}
	}

	return nil
}

// AutoRelease sweeps held transactions whose deposit is strictly older than
// the holding period and releases each to its recorded student. One failed
// release never aborts the sweep; failures are logged and retried on the
// next scheduled run.
func (s *escrowService) AutoRelease(ctx context.Context) (int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EscrowService.AutoRelease")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	cutoff := utils.Now().Add(-s.cfg.HoldingPeriod)
	eligible, err := s.transactions.ListHeldOlderThan(ctx, cutoff)
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, err
	}
	span.LogKV("eligible", len(eligible))

	released := 0
	for _, txn := range eligible {
		if ctx.Err() != nil {
			// shutdown mid-sweep; remaining transactions wait for the next run
			break
		}
		studentID := utils.GetOrDefault(txn.StudentID, "")
		if studentID == "" {
			s.log.Warnf("Skipping auto-release of transaction %s: no student recorded", txn.ID)
			continue
		}
		if err := s.ReleaseEscrow(ctx, txn.ID, studentID); err != nil {
			s.log.Errorf("Auto-release of transaction %s failed: %v", txn.ID, err)
			continue
		}
		released++
	}

	s.log.Infof("Auto-released %d of %d eligible escrow transactions", released, len(eligible))
	return released, nil
}
