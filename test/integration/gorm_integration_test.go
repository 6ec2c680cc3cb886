package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"mindmate-be/internal/repository/unitofwork"
	"mindmate-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.CompanionSessionRepository())
	assert.NotNil(t, uow.JournalEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Mood Repository", func(t *testing.T) {
		count, err := uow.MoodRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("MoodEntry count: %d", count)
	})

	t.Run("Check Journal Repository", func(t *testing.T) {
		count, err := uow.JournalRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("JournalEntry count: %d", count)
	})
}
