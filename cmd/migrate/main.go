package main

import (
	"log"
	"os"

	"ncip-portal/internal/model"
	"ncip-portal/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, database.PoolConfig{MaxOpenConns: 2})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	log.Println("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to enable pgcrypto: %v. Continuing...", err)
	}

	// 3. AutoMigrate. Order follows the foreign keys.
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.Purpose{},
		&model.Requirement{},
		&model.Application{},
		&model.RequirementCompliance{},
		&model.UploadedDocument{},
		&model.ReviewHistory{},
		&model.CancellationLog{},
		&model.NotificationQueue{},
		&model.NotificationDelivery{},
		&model.GenealogyRecord{},
		&model.GenealogyRelationship{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: indexes AutoMigrate cannot express
	log.Println("Step 3: Creating partial indexes and views...")

	postMigrationSQL := []string{
		// The sweeps scan only open applications.
		`CREATE INDEX IF NOT EXISTS idx_applications_open_deadline
		 ON applications (submission_deadline)
		 WHERE status IN ('submitted', 'under_review') AND is_cancelled = false;`,

		// View: compliance summary per application for reporting
		`CREATE OR REPLACE VIEW application_compliance_summary AS
		 SELECT a.id AS application_id, a.application_number, a.status,
		        COUNT(rc.id) AS total,
		        COUNT(rc.id) FILTER (WHERE rc.is_submitted) AS submitted,
		        COUNT(rc.id) FILTER (WHERE rc.is_approved) AS approved
		 FROM applications a
		 LEFT JOIN requirement_compliance rc ON rc.application_id = a.id
		 GROUP BY a.id;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: Database migration completed via GORM.")
}
