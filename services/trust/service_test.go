package trust

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/internbridge/trustguard/internal/enum"
	trusterr "github.com/internbridge/trustguard/internal/errors"
	"github.com/internbridge/trustguard/internal/logger"
	"github.com/internbridge/trustguard/internal/models"
	"github.com/internbridge/trustguard/internal/repository"
)

type mockCompanyRepository struct {
	mock.Mock
}

func (m *mockCompanyRepository) GetByID(ctx context.Context, companyID string) (*models.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *mockCompanyRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCompanyRepository) UpdateResponseRate(ctx context.Context, companyID string, rate float64) error {
	args := m.Called(ctx, companyID, rate)
	return args.Error(0)
}

func (m *mockCompanyRepository) UpdatePaymentReliability(ctx context.Context, companyID string, rate float64) error {
	args := m.Called(ctx, companyID, rate)
	return args.Error(0)
}

func (m *mockCompanyRepository) Suspend(ctx context.Context, companyID, reason string, flagCount int) error {
	args := m.Called(ctx, companyID, reason, flagCount)
	return args.Error(0)
}

type mockApplicationRepository struct {
	mock.Mock
}

func (m *mockApplicationRepository) ListByCompany(ctx context.Context, companyID string) ([]models.Application, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

type mockPaymentRecordRepository struct {
	mock.Mock
}

func (m *mockPaymentRecordRepository) ListByCompany(ctx context.Context, companyID string) ([]models.PaymentRecord, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentRecord), args.Error(1)
}

type mockTrustScoreHistoryRepository struct {
	mock.Mock
}

func (m *mockTrustScoreHistoryRepository) RecordScore(ctx context.Context, companyID string, score int, updatedAt time.Time, reason string) error {
	args := m.Called(ctx, companyID, score, updatedAt, reason)
	return args.Error(0)
}

func (m *mockTrustScoreHistoryRepository) ListByCompany(ctx context.Context, companyID string, limit int) ([]models.TrustScoreHistory, error) {
	args := m.Called(ctx, companyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrustScoreHistory), args.Error(1)
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func newTestService(companies *mockCompanyRepository, applications *mockApplicationRepository, payments *mockPaymentRecordRepository, history *mockTrustScoreHistoryRepository) *trustScoreService {
	return &trustScoreService{
		cfg:          DefaultConfig(),
		companies:    companies,
		applications: applications,
		payments:     payments,
		history:      history,
		log:          getLogger(),
	}
}

func TestScoreFromSignals(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	tests := []struct {
		name     string
		signals  models.TrustSignals
		expected int
	}{
		{
			name:     "all zero signals",
			signals:  models.TrustSignals{},
			expected: 0,
		},
		{
			name: "perfect signals",
			signals: models.TrustSignals{
				ResponseRate:       100,
				PaymentReliability: 100,
				InternRatings:      100,
				CompletionRate:     100,
			},
			expected: 90,
		},
		{
			name: "weighted mix",
			signals: models.TrustSignals{
				ResponseRate:       80, // 20
				PaymentReliability: 90, // 27
				InternRatings:      70, // 14
				CompletionRate:     60, // 9
			},
			expected: 70,
		},
		{
			name: "ghosting incidents subtract a point each",
			signals: models.TrustSignals{
				ResponseRate:       80,
				PaymentReliability: 90,
				InternRatings:      70,
				CompletionRate:     60,
				GhostingIncidents:  5,
			},
			expected: 65,
		},
		{
			name: "heavy ghosting clamps at zero",
			signals: models.TrustSignals{
				ResponseRate:       50,
				PaymentReliability: 50,
				GhostingIncidents:  200,
			},
			expected: 0,
		},
		{
			name: "rounds half away from zero",
			signals: models.TrustSignals{
				// 0.25*50 + 0.30*65 = 12.5 + 19.5 = 32.0, add ratings 0.20*12.5 = 2.5 -> 34.5
				ResponseRate:       50,
				PaymentReliability: 65,
				InternRatings:      12.5,
			},
			expected: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.scoreFromSignals(tt.signals))
		})
	}
}

func TestScoreFromSignals_Deterministic(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)
	signals := models.TrustSignals{
		ResponseRate:       73.4,
		PaymentReliability: 88.1,
		InternRatings:      91.7,
		CompletionRate:     45.2,
		GhostingIncidents:  3,
	}

	first := svc.scoreFromSignals(signals)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, svc.scoreFromSignals(signals))
	}
}

func TestComputeScore(t *testing.T) {
	// Arrange
	companies := new(mockCompanyRepository)
	history := new(mockTrustScoreHistoryRepository)
	svc := newTestService(companies, nil, nil, history)

	company := &models.Company{
		ID:                 "c1",
		ResponseRate:       80,
		PaymentReliability: 90,
		InternRatings:      70,
		CompletionRate:     60,
	}
	companies.On("GetByID", mock.Anything, "c1").Return(company, nil)
	history.On("RecordScore", mock.Anything, "c1", 70, mock.Anything, "Automated calculation").Return(nil)

	// Act
	result, err := svc.ComputeScore(context.Background(), "c1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "c1", result.CompanyID)
	assert.Equal(t, 70, result.Score)
	assert.False(t, result.LastUpdated.IsZero())
	companies.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestComputeScore_CompanyNotFound(t *testing.T) {
	companies := new(mockCompanyRepository)
	svc := newTestService(companies, nil, nil, nil)

	companies.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrCompanyNotFound)

	result, err := svc.ComputeScore(context.Background(), "missing")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, trusterr.ErrEmployerNotFound)
}

func TestComputeScore_PersistFailureLeavesNoScore(t *testing.T) {
	// Arrange
	companies := new(mockCompanyRepository)
	history := new(mockTrustScoreHistoryRepository)
	svc := newTestService(companies, nil, nil, history)

	company := &models.Company{
		ID:                 "c1",
		ResponseRate:       80,
		PaymentReliability: 90,
		InternRatings:      70,
		CompletionRate:     60,
	}
	companies.On("GetByID", mock.Anything, "c1").Return(company, nil)
	history.On("RecordScore", mock.Anything, "c1", 70, mock.Anything, "Automated calculation").Return(assert.AnError)

	// Act
	result, err := svc.ComputeScore(context.Background(), "c1")

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, assert.AnError)
	// the rolled-back write must not leave a score behind through another path
	companies.AssertNotCalled(t, "UpdateResponseRate", mock.Anything, mock.Anything, mock.Anything)
	companies.AssertNotCalled(t, "UpdatePaymentReliability", mock.Anything, mock.Anything, mock.Anything)
	history.AssertExpectations(t)
}

func TestComputeScore_DeadlineExceededMapsToTimeout(t *testing.T) {
	// Arrange
	companies := new(mockCompanyRepository)
	history := new(mockTrustScoreHistoryRepository)
	svc := newTestService(companies, nil, nil, history)

	company := &models.Company{ID: "c1", ResponseRate: 80}
	companies.On("GetByID", mock.Anything, "c1").Return(company, nil)
	history.On("RecordScore", mock.Anything, "c1", mock.Anything, mock.Anything, mock.Anything).Return(context.DeadlineExceeded)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	// Act
	result, err := svc.ComputeScore(ctx, "c1")

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, trusterr.ErrTimeout)
}

func TestResponseRate(t *testing.T) {
	window := 7 * 24 * time.Hour
	submitted := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	within := submitted.Add(2 * 24 * time.Hour)
	late := submitted.Add(10 * 24 * time.Hour)

	tests := []struct {
		name         string
		applications []models.Application
		expected     float64
	}{
		{
			name:         "no applications",
			applications: nil,
			expected:     0,
		},
		{
			name: "all answered in window",
			applications: []models.Application{
				{SubmittedAt: submitted, FirstResponseAt: &within},
				{SubmittedAt: submitted, FirstResponseAt: &within},
			},
			expected: 100,
		},
		{
			name: "never answered counts against the rate",
			applications: []models.Application{
				{SubmittedAt: submitted, FirstResponseAt: &within},
				{SubmittedAt: submitted},
			},
			expected: 50,
		},
		{
			name: "late answer counts against the rate",
			applications: []models.Application{
				{SubmittedAt: submitted, FirstResponseAt: &within},
				{SubmittedAt: submitted, FirstResponseAt: &late},
				{SubmittedAt: submitted, FirstResponseAt: &within},
				{SubmittedAt: submitted},
			},
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, responseRate(tt.applications, window))
		})
	}
}

func TestUpdatePaymentReliability(t *testing.T) {
	companies := new(mockCompanyRepository)
	payments := new(mockPaymentRecordRepository)
	svc := newTestService(companies, nil, payments, nil)

	records := []models.PaymentRecord{
		{Status: enum.PaymentOnTime},
		{Status: enum.PaymentOnTime},
		{Status: enum.PaymentLate},
		{Status: enum.PaymentMissed},
	}
	payments.On("ListByCompany", mock.Anything, "c1").Return(records, nil)
	companies.On("UpdatePaymentReliability", mock.Anything, "c1", 50.0).Return(nil)

	rate, err := svc.UpdatePaymentReliability(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, 50.0, rate)
	companies.AssertExpectations(t)
}

func TestUpdatePaymentReliability_NoRecords(t *testing.T) {
	companies := new(mockCompanyRepository)
	payments := new(mockPaymentRecordRepository)
	svc := newTestService(companies, nil, payments, nil)

	payments.On("ListByCompany", mock.Anything, "c1").Return([]models.PaymentRecord{}, nil)

	rate, err := svc.UpdatePaymentReliability(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
	// nothing persisted when there is no payment history
	companies.AssertNotCalled(t, "UpdatePaymentReliability", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecomputeAll_SkipsFailures(t *testing.T) {
	companies := new(mockCompanyRepository)
	applications := new(mockApplicationRepository)
	payments := new(mockPaymentRecordRepository)
	history := new(mockTrustScoreHistoryRepository)
	svc := newTestService(companies, applications, payments, history)

	companies.On("ListIDs", mock.Anything).Return([]string{"good", "bad"}, nil)

	// good company goes through the whole pipeline
	applications.On("ListByCompany", mock.Anything, "good").Return([]models.Application{}, nil)
	companies.On("UpdateResponseRate", mock.Anything, "good", 0.0).Return(nil)
	payments.On("ListByCompany", mock.Anything, "good").Return([]models.PaymentRecord{}, nil)
	companies.On("GetByID", mock.Anything, "good").Return(&models.Company{ID: "good"}, nil)
	history.On("RecordScore", mock.Anything, "good", 0, mock.Anything, "Automated calculation").Return(nil)

	// bad company fails on the first step and is skipped
	applications.On("ListByCompany", mock.Anything, "bad").Return(nil, assert.AnError)

	updated, err := svc.RecomputeAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}
