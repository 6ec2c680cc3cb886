package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// OrderByActivity sorts sessions newest-activity-first.
type OrderByActivity struct{}

func (s OrderByActivity) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("last_activity_at DESC")
}

// ChronologicalMessages sorts messages oldest-first, the transcript order.
type ChronologicalMessages struct{}

func (s ChronologicalMessages) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

type ByEntryDate struct {
	Date time.Time
}

func (s ByEntryDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entry_date = ?", s.Date)
}

type EntryDateBetween struct {
	From time.Time
	To   time.Time
}

func (s EntryDateBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entry_date BETWEEN ? AND ?", s.From, s.To)
}

type ByJournalID struct {
	JournalID uuid.UUID
}

func (s ByJournalID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("journal_id = ?", s.JournalID)
}

type ByOrderID struct {
	OrderID string
}

func (s ByOrderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("order_id = ?", s.OrderID)
}
