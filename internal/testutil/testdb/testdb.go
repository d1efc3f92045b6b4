package testdb

import (
	"testing"

	"microloan-ledger/internal/domain/installment"
	"microloan-ledger/internal/domain/ledger"
	"microloan-ledger/internal/domain/loan"
	"microloan-ledger/internal/domain/payment"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns an in-memory sqlite DB with the ledger schema migrated. The
// pool is pinned to a single connection so every query sees the same
// in-memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&ledger.State{},
		&loan.Loan{},
		&installment.Installment{},
		&payment.Record{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// Seed creates the singleton ledger-state row.
func Seed(t *testing.T, db *gorm.DB, admin, originator string) {
	t.Helper()
	st := &ledger.State{
		ID:         ledger.StateRowID,
		Admin:      admin,
		Originator: originator,
	}
	if err := db.Create(st).Error; err != nil {
		t.Fatalf("seed ledger state: %v", err)
	}
}
