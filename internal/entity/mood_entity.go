package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MoodScoreMin = 1
	MoodScoreMax = 5
)

type MoodEntry struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Score     int
	Note      *string
	EntryDate time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MoodDailyAverage is an aggregate row for the mood summary endpoint.
type MoodDailyAverage struct {
	Day          time.Time
	AverageScore float64
	EntryCount   int
}
