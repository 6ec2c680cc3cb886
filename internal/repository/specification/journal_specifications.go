package specification

import "gorm.io/gorm"

// JournalKeywordQuery filters journal entries by title or content.
// ILIKE keeps it case insensitive on Postgres.
type JournalKeywordQuery struct {
	Query string
}

func (s JournalKeywordQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}
