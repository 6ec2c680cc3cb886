package main

import (
	"log"
	"os"
	"time"

	"mindmate-be/internal/model"
	"mindmate-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
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

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.UserProvider{},
		&model.EmailVerificationToken{},
		&model.UserRefreshToken{},
		&model.MoodEntry{},
		&model.JournalEntry{},
		&model.JournalEmbedding{},
		&model.CompanionSession{},
		&model.CompanionMessage{},
		&model.CreditTransaction{},
		&model.PaymentRecord{},
		&model.Notification{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views & Functions
	log.Println("Step 3: Creating Views and Functions...")

	postMigrationSQL := []string{
		`CREATE OR REPLACE FUNCTION set_current_timestamp_updated_at() RETURNS trigger LANGUAGE plpgsql AS $$
		DECLARE _new_value TIMESTAMP WITH TIME ZONE;
		BEGIN
		  _new_value := now();
		  IF NEW.updated_at IS DISTINCT FROM _new_value THEN NEW.updated_at = _new_value; END IF;
		  RETURN NEW;
		END; $$;`,

		// View: semantic_searchable_journals
		`CREATE OR REPLACE VIEW semantic_searchable_journals AS
		 SELECT j.id AS journal_id, j.title, j.content, je.embedding_value AS embedding, j.user_id
		 FROM journal_entries j JOIN journal_embeddings je ON j.id = je.journal_id
		 WHERE j.deleted_at IS NULL;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	// 6. Seed the bootstrap admin account if configured
	seedAdmin(db)

	color.Green("✅ Success: Database migration completed via GORM.")
}

// seedAdmin creates the initial admin user from ADMIN_EMAIL / ADMIN_PASSWORD.
// Skipped when the variables are unset or the account already exists.
func seedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		color.Yellow("Skipping admin seed: ADMIN_EMAIL / ADMIN_PASSWORD not set")
		return
	}

	var count int64
	db.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		color.Yellow("Admin account %s already exists, skipping seed", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash admin password: %v", err)
	}
	hashStr := string(hash)
	now := time.Now()

	admin := model.User{
		Email:           email,
		PasswordHash:    &hashStr,
		FullName:        "MindMate Admin",
		Role:            "admin",
		Status:          "active",
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Error: Failed to seed admin account: %v", err)
	}
	color.Green("Seeded admin account %s", email)
}
