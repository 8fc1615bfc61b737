package escrow

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/enum"
	trusterr "github.com/internbridge/trustguard/internal/errors"
	"github.com/internbridge/trustguard/internal/logger"
	"github.com/internbridge/trustguard/internal/models"
	"github.com/internbridge/trustguard/internal/repository"
	"github.com/internbridge/trustguard/internal/utils"
)

// fakeEscrowRepository mimics the database-backed repository: status guarded
// transitions and the balance moving atomically with them.
type fakeEscrowRepository struct {
	mu           sync.Mutex
	transactions map[string]*models.EscrowTransaction
	balances     map[string]int64
}

func newFakeEscrowRepository() *fakeEscrowRepository {
	return &fakeEscrowRepository{
		transactions: make(map[string]*models.EscrowTransaction),
		balances:     make(map[string]int64),
	}
}

func (f *fakeEscrowRepository) Create(ctx context.Context, txn *models.EscrowTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *txn
	f.transactions[txn.ID] = &copied
	return nil
}

func (f *fakeEscrowRepository) GetByID(ctx context.Context, txnID string) (*models.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.transactions[txnID]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	copied := *txn
	return &copied, nil
}

func (f *fakeEscrowRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*models.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.transactions {
		if txn.PaymentRef == paymentRef {
			copied := *txn
			return &copied, nil
		}
	}
	return nil, repository.ErrTransactionNotFound
}

func (f *fakeEscrowRepository) ListHeldOlderThan(ctx context.Context, cutoff time.Time) ([]models.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var eligible []models.EscrowTransaction
	for _, txn := range f.transactions {
		if txn.Status == enum.EscrowStatusHeld && txn.DepositedAt != nil && txn.DepositedAt.Before(cutoff) {
			eligible = append(eligible, *txn)
		}
	}
	return eligible, nil
}

func (f *fakeEscrowRepository) MarkHeld(ctx context.Context, txnID string, depositedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.transactions[txnID]
	if !ok {
		return repository.ErrTransactionNotFound
	}
	if txn.Status != enum.EscrowStatusPending {
		return repository.ErrWrongState
	}
	txn.Status = enum.EscrowStatusHeld
	txn.DepositedAt = &depositedAt
	f.balances[txn.CompanyID] += txn.Amount
	return nil
}

func (f *fakeEscrowRepository) MarkReleased(ctx context.Context, txnID, studentID string, releasedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.transactions[txnID]
	if !ok {
		return repository.ErrTransactionNotFound
	}
	if txn.Status != enum.EscrowStatusHeld {
		return repository.ErrWrongState
	}
	if f.balances[txn.CompanyID]-txn.Amount < 0 {
		return repository.ErrNegativeBalance
	}
	txn.Status = enum.EscrowStatusReleased
	txn.StudentID = &studentID
	txn.ReleasedAt = &releasedAt
	f.balances[txn.CompanyID] -= txn.Amount
	return nil
}

func (f *fakeEscrowRepository) MarkFailed(ctx context.Context, txnID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.transactions[txnID]
	if !ok {
		return repository.ErrTransactionNotFound
	}
	if txn.Status != enum.EscrowStatusPending {
		return repository.ErrWrongState
	}
	txn.Status = enum.EscrowStatusFailed
	return nil
}

func (f *fakeEscrowRepository) GetBalance(ctx context.Context, companyID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[companyID], nil
}

type fakeCompanyRepository struct {
	companies map[string]*models.Company
}

func (f *fakeCompanyRepository) GetByID(ctx context.Context, companyID string) (*models.Company, error) {
	company, ok := f.companies[companyID]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	return company, nil
}

func (f *fakeCompanyRepository) ListIDs(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeCompanyRepository) UpdateResponseRate(ctx context.Context, companyID string, rate float64) error {
	return nil
}

func (f *fakeCompanyRepository) UpdatePaymentReliability(ctx context.Context, companyID string, rate float64) error {
	return nil
}

func (f *fakeCompanyRepository) Suspend(ctx context.Context, companyID, reason string, flagCount int) error {
	return nil
}

type fakePaymentGateway struct {
	failing bool
	orders  int
}

func (f *fakePaymentGateway) CreateOrder(ctx context.Context, reference string, amount int64) (*interfaces.PaymentOrder, error) {
	if f.failing {
		return nil, assert.AnError
	}
	f.orders++
	return &interfaces.PaymentOrder{
		OrderID:   "order_" + uuid.NewString(),
		Reference: reference,
		Amount:    amount,
		Currency:  "INR",
	}, nil
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

type testHarness struct {
	svc     *escrowService
	repo    *fakeEscrowRepository
	gateway *fakePaymentGateway
}

func newTestHarness(companyIDs ...string) *testHarness {
	companies := &fakeCompanyRepository{companies: make(map[string]*models.Company)}
	for _, id := range companyIDs {
		companies.companies[id] = &models.Company{ID: id}
	}

	repo := newFakeEscrowRepository()
	gateway := &fakePaymentGateway{}

	svc := &escrowService{
		cfg:          DefaultConfig(),
		transactions: repo,
		companies:    companies,
		gateway:      gateway,
		publisher:    nil,
		log:          getLogger(),
		locks:        newAccountLocks(),
		frozen:       newFrozenAccounts(),
	}
	return &testHarness{svc: svc, repo: repo, gateway: gateway}
}

func TestCreateDeposit(t *testing.T) {
	// Arrange
	h := newTestHarness("c1")
	ctx := context.Background()

	// Act
	deposit, err := h.svc.CreateDeposit(ctx, "c1", "i1", 10000)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, deposit.TransactionID)
	assert.True(t, strings.HasPrefix(deposit.Reference, "escrow_i1_"))
	assert.NotEmpty(t, deposit.OrderID)
	assert.Equal(t, int64(10000), deposit.Amount)
	assert.Equal(t, "INR", deposit.Currency)

	txn, err := h.repo.GetByID(ctx, deposit.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, enum.EscrowStatusPending, txn.Status)

	// nothing credited until the gateway confirms
	balance, _ := h.repo.GetBalance(ctx, "c1")
	assert.Equal(t, int64(0), balance)
}

func TestCreateDeposit_InvalidAmount(t *testing.T) {
	h := newTestHarness("c1")

	for _, amount := range []int64{0, -1, -10000} {
		deposit, err := h.svc.CreateDeposit(context.Background(), "c1", "i1", amount)
		assert.Nil(t, deposit)
		assert.ErrorIs(t, err, trusterr.ErrInvalidAmount)
	}
}

func TestCreateDeposit_UnknownCompany(t *testing.T) {
	h := newTestHarness("c1")

	deposit, err := h.svc.CreateDeposit(context.Background(), "ghost", "i1", 10000)

	assert.Nil(t, deposit)
	assert.ErrorIs(t, err, trusterr.ErrEmployerNotFound)
}

func TestCreateDeposit_GatewayFailure(t *testing.T) {
	h := newTestHarness("c1")
	h.gateway.failing = true
	ctx := context.Background()

	deposit, err := h.svc.CreateDeposit(ctx, "c1", "i1", 10000)

	assert.Nil(t, deposit)
	require.Error(t, err)

	// the pending transaction is failed, not left dangling
	var failed int
	for _, txn := range h.repo.transactions {
		if txn.Status == enum.EscrowStatusFailed {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestConfirmDeposit(t *testing.T) {
	h := newTestHarness("c1")
	ctx := context.Background()

	deposit, err := h.svc.CreateDeposit(ctx, "c1", "i1", 10000)
	require.NoError(t, err)

	err = h.svc.ConfirmDeposit(ctx, deposit.Reference)
	require.NoError(t, err)

	txn, err := h.repo.GetByID(ctx, deposit.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, enum.EscrowStatusHeld, txn.Status)
	assert.NotNil(t, txn.DepositedAt)

	balance, _ := h.repo.GetBalance(ctx, "c1")
	assert.Equal(t, int64(10000), balance)
}

func TestConfirmDeposit_DuplicateCreditsOnce(t *testing.T) {
	h := newTestHarness("c1")
	ctx := context.Background()

	deposit, err := h.svc.CreateDeposit(ctx, "c1", "i1", 10000)
	require.NoError(t, err)

	require.NoError(t, h.svc.ConfirmDeposit(ctx, deposit.Reference))
	err = h.svc.ConfirmDeposit(ctx, deposit.Reference)
	assert.ErrorIs(t, err, trusterr.ErrInvalidTransactionState)

	balance, _ := h.repo.GetBalance(ctx, "c1")
	assert.Equal(t, int64(10000), balance)
}

func TestConfirmDeposit_UnknownReference(t *testing.T) {
	h := newTestHarness("c1")

	err := h.svc.ConfirmDeposit(context.Background(), "escrow_bogus")

	assert.ErrorIs(t, err, trusterr.ErrInvalidTransactionState)
}

func TestReleaseEscrow(t *testing.T) {
	h := newTestHarness("c1")
	ctx := context.Background()

	deposit, err := h.svc.CreateDeposit(ctx, "c1", "i1", 10000)
	require.NoError(t, err)
	require.NoError(t, h.svc.ConfirmDeposit(ctx, deposit.Reference))

	err = h.svc.ReleaseEscrow(ctx, deposit.TransactionID, "s1")
	require.NoError(t, err)

	txn, err := h.repo.GetByID(ctx, deposit.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, enum.EscrowStatusReleased, txn.Status)
	require.NotNil(t, txn.StudentID)
	assert.Equal(t, "s1", *txn.StudentID)
	assert.NotNil(t, txn.ReleasedAt)

	balance, _ := h.repo.GetBalance(ctx, "c1")
	assert.Equal(t, int64(0), balance)
}

func TestReleaseEscrow_SecondReleaseFails(t *testing.T) {
	h := newTestHarness("c1")
	ctx := context.Background()

	deposit, err := h.svc.CreateDeposit(ctx, "c1", "i1", 10000)
	require.NoError(t, err)
	require.NoError(t, h.svc.ConfirmDeposit(ctx, deposit.Reference))
	require.NoError(t, h.svc.ReleaseEscrow(ctx, deposit.TransactionID, "s1"))

	err = h.svc.ReleaseEscrow(ctx, deposit.TransactionID, "s1")
	assert.ErrorIs(t, err, trusterr.ErrTransactionNotHeld)

	// balance debited exactly once
	balance, _ := h.repo.GetBalance(ctx, "c1")
	assert.Equal(t, int64(0), balance)
}

func TestReleaseEscrow_PendingTransaction(t *testing.T) {
	h := newTestHarness("c1")
	ctx := context.Background()

	deposit, err := h.svc.CreateDeposit(ctx, "c1", "i1", 10000)
	require.NoError(t, err)

	err = h.svc.ReleaseEscrow(ctx, deposit.TransactionID, "s1")
	assert.ErrorIs(t, err, trusterr.ErrTransactionNotHeld)
}

func TestReleaseEscrow_UnknownTransaction(t *testing.T) {
	h := newTestHarness("c1")

	err := h.svc.ReleaseEscrow(context.Background(), uuid.NewString(), "s1")

	assert.ErrorIs(t, err, trusterr.ErrTransactionNotFound)
}

func TestReleaseEscrow_ConsistencyViolationFreezesAccount(t *testing.T) {
	h := newTestHarness("c1")
	ctx := context.Background()

	deposit, err := h.svc.CreateDeposit(ctx, "c1", "i1", 10000)
	require.NoError(t, err)
	require.NoError(t, h.svc.ConfirmDeposit(ctx, deposit.Reference))

	// corrupt the balance behind the service's back
	h.repo.mu.Lock()
	h.repo.balances["c1"] = 500
	h.repo.mu.Unlock()

	err = h.svc.ReleaseEscrow(ctx, deposit.TransactionID, "s1")
	assert.ErrorIs(t, err, trusterr.ErrConsistencyViolation)

	// the transaction stays held and every further mutation is refused
	txn, _ := h.repo.GetByID(ctx, deposit.TransactionID)
	assert.Equal(t, enum.EscrowStatusHeld, txn.Status)

	err = h.svc.ReleaseEscrow(ctx, deposit.TransactionID, "s1")
	assert.ErrorIs(t, err, trusterr.ErrAccountFrozen)

	second, err := h.svc.CreateDeposit(ctx, "c1", "i2", 2000)
	require.NoError(t, err)
	err = h.svc.ConfirmDeposit(ctx, second.Reference)
	assert.ErrorIs(t, err, trusterr.ErrAccountFrozen)
}

func TestAutoRelease(t *testing.T) {
	h := newTestHarness("c1")
	ctx := context.Background()
	now := time.Now().UTC()

	old := now.Add(-31 * 24 * time.Hour)
	recent := now.Add(-10 * 24 * time.Hour)

	seed := func(id string, depositedAt time.Time, studentID *string) {
		h.repo.transactions[id] = &models.EscrowTransaction{
			ID:          id,
			CompanyID:   "c1",
			Amount:      1000,
			Status:      enum.EscrowStatusHeld,
			PaymentRef:  "escrow_" + id,
			DepositedAt: utils.TimePtr(depositedAt),
			StudentID:   studentID,
		}
		h.repo.balances["c1"] += 1000
	}

	seed("old-with-student", old, utils.StringPtr("s1"))
	seed("old-no-student", old, nil)
	seed("recent", recent, utils.StringPtr("s1"))

	released, err := h.svc.AutoRelease(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, released)

	txn, _ := h.repo.GetByID(ctx, "old-with-student")
	assert.Equal(t, enum.EscrowStatusReleased, txn.Status)

	skipped, _ := h.repo.GetByID(ctx, "old-no-student")
	assert.Equal(t, enum.EscrowStatusHeld, skipped.Status)

	tooRecent, _ := h.repo.GetByID(ctx, "recent")
	assert.Equal(t, enum.EscrowStatusHeld, tooRecent.Status)

	balance, _ := h.repo.GetBalance(ctx, "c1")
	assert.Equal(t, int64(2000), balance)
}

func TestAutoRelease_BoundaryIsStrict(t *testing.T) {
	h := newTestHarness("c1")

	// deposited a touch under 30 days ago, not yet eligible
	depositedAt := time.Now().UTC().Add(-30*24*time.Hour + time.Minute)
	h.repo.transactions["boundary"] = &models.EscrowTransaction{
		ID:          "boundary",
		CompanyID:   "c1",
		Amount:      1000,
		Status:      enum.EscrowStatusHeld,
		PaymentRef:  "escrow_boundary",
		DepositedAt: utils.TimePtr(depositedAt),
		StudentID:   utils.StringPtr("s1"),
	}
	h.repo.balances["c1"] = 1000

	released, err := h.svc.AutoRelease(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, released)
}

func TestEscrow_ConcurrentOperationsKeepBalanceConsistent(t *testing.T) {
	h := newTestHarness("c1", "c2")
	ctx := context.Background()

	const perCompany = 20
	var wg sync.WaitGroup

	for _, companyID := range []string{"c1", "c2"} {
		for i := 0; i < perCompany; i++ {
			wg.Add(1)
			go func(companyID string) {
				defer wg.Done()
				deposit, err := h.svc.CreateDeposit(ctx, companyID, uuid.NewString(), 100)
				if !assert.NoError(t, err) {
					return
				}
				if !assert.NoError(t, h.svc.ConfirmDeposit(ctx, deposit.Reference)) {
					return
				}
				assert.NoError(t, h.svc.ReleaseEscrow(ctx, deposit.TransactionID, uuid.NewString()))
			}(companyID)
		}
	}
	wg.Wait()

	// every deposit was held then released, balances net to zero
	for _, companyID := range []string{"c1", "c2"} {
		balance, err := h.repo.GetBalance(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	}

	for _, txn := range h.repo.transactions {
		assert.Equal(t, enum.EscrowStatusReleased, txn.Status)
	}
}
