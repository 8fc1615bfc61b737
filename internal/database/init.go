package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/internbridge/trustguard/config"
)

func InitTrustguardDatabase(dbConfig *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := NewConnection(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	return db, nil
}
