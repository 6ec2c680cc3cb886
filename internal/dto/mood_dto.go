package dto

import (
	"time"

	"github.com/google/uuid"
)

type LogMoodRequest struct {
	Score     int    `json:"score" validate:"required,min=1,max=5"`
	Note      string `json:"note" validate:"omitempty,max=500"`
	EntryDate string `json:"entry_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateMoodRequest struct {
	Score int    `json:"score" validate:"required,min=1,max=5"`
	Note  string `json:"note" validate:"omitempty,max=500"`
}

type MoodEntryResponse struct {
	Id        uuid.UUID `json:"id"`
	Score     int       `json:"score"`
	Note      string    `json:"note,omitempty"`
	EntryDate string    `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
}

type MoodSummaryResponse struct {
	From    string             `json:"from"`
	To      string             `json:"to"`
	Days    []MoodSummaryDay   `json:"days"`
	Overall MoodSummaryOverall `json:"overall"`
}

type MoodSummaryDay struct {
	Day          string  `json:"day"`
	AverageScore float64 `json:"average_score"`
	EntryCount   int     `json:"entry_count"`
}

type MoodSummaryOverall struct {
	AverageScore float64 `json:"average_score"`
	EntryCount   int     `json:"entry_count"`
}
