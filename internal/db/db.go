package db

import (
	"log"
	"time"

	"certitrust/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init connects the audit database. The DSN is injected from config; an
// empty DSN disables the audit trail rather than failing the process.
func Init(dsn string) {
	if dsn == "" {
		log.Println("db: no DB_URL set, audit trail disabled")
		return
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("connection to db failed:", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get db from GORM: ", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	log.Println("db: connected to audit database")

	if err = DB.AutoMigrate(&models.VerificationAudit{}); err != nil {
		log.Fatal("AutoMigration failed for VerificationAudit: ", err)
	}
}

// RecordAudit writes one audit row for a completed verification.
// Best-effort: a write failure is logged, never surfaced to the request.
func RecordAudit(outcome models.VerificationOutcome) {
	if DB == nil {
		return
	}
	row := models.VerificationAudit{
		ID:                uuid.NewString(),
		ReportID:          outcome.ReportID,
		Verdict:           string(outcome.Verdict),
		TrustScore:        outcome.TrustScore,
		Source:            string(outcome.Details.Source.Name),
		TamperingScore:    outcome.Details.Tampering.Score,
		UnverifiedShellID: outcome.Details.Source.UnverifiedShellID,
		VerifiedShellID:   outcome.Details.Source.VerifiedShellID,
		CreatedAt:         time.Now(),
	}
	if err := DB.Create(&row).Error; err != nil {
		log.Println("db: failed to record audit row:", err)
	}
}
