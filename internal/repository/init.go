package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/internbridge/trustguard/config"
	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/models"
)

type Repositories struct {
	CompanyRepository           interfaces.CompanyRepository
	InternshipRepository        interfaces.InternshipRepository
	ApplicationRepository       interfaces.ApplicationRepository
	PaymentRecordRepository     interfaces.PaymentRecordRepository
	FraudReportRepository       interfaces.FraudReportRepository
	EscrowTransactionRepository interfaces.EscrowTransactionRepository
	TrustScoreHistoryRepository interfaces.TrustScoreHistoryRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		CompanyRepository:           NewCompanyRepository(db),
		InternshipRepository:        NewInternshipRepository(db),
		ApplicationRepository:       NewApplicationRepository(db),
		PaymentRecordRepository:     NewPaymentRecordRepository(db),
		FraudReportRepository:       NewFraudReportRepository(db),
		EscrowTransactionRepository: NewEscrowTransactionRepository(db),
		TrustScoreHistoryRepository: NewTrustScoreHistoryRepository(db),
	}
}

func MigrateDB(dbConfig *config.DatabaseConfig, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(5)

	err = db.AutoMigrate(
		&models.Company{},
		&models.Internship{},
		&models.Application{},
		&models.PaymentRecord{},
		&models.FraudReport{},
		&models.EscrowTransaction{},
		&models.EscrowDeposit{},
		&models.TrustScoreHistory{},
	)

	sqlDB.Close()

	sqlDB, _ = db.DB()
	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConn)
	sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return err
}
