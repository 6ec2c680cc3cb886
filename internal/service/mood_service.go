package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/entity"
	"mindmate-be/internal/pkg/logger"
	"mindmate-be/internal/repository/specification"
	"mindmate-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type IMoodService interface {
	LogMood(ctx context.Context, userId uuid.UUID, req *dto.LogMoodRequest) (*dto.MoodEntryResponse, error)
	UpdateMood(ctx context.Context, userId uuid.UUID, entryId uuid.UUID, req *dto.UpdateMoodRequest) (*dto.MoodEntryResponse, error)
	DeleteMood(ctx context.Context, userId uuid.UUID, entryId uuid.UUID) error
	ListMoods(ctx context.Context, userId uuid.UUID, from, to string) ([]*dto.MoodEntryResponse, error)
	Summary(ctx context.Context, userId uuid.UUID, days int) (*dto.MoodSummaryResponse, error)
}

type moodService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewMoodService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IMoodService {
	return &moodService{uowFactory: uowFactory, logger: log}
}

func (ms *moodService) LogMood(ctx context.Context, userId uuid.UUID, req *dto.LogMoodRequest) (*dto.MoodEntryResponse, error) {
	entryDate := time.Now()
	if req.EntryDate != "" {
		parsed, err := time.Parse(dateLayout, req.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid entry date")
		}
		entryDate = parsed
	}
	entryDate = truncateToDay(entryDate)

	entry := &entity.MoodEntry{
		Id:        uuid.New(),
		UserId:    userId,
		Score:     req.Score,
		Note:      optionalString(req.Note),
		EntryDate: entryDate,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	uow := ms.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MoodRepository().Create(ctx, entry); err != nil {
		return nil, err
	}

	return moodToResponse(entry), nil
}

func (ms *moodService) UpdateMood(ctx context.Context, userId uuid.UUID, entryId uuid.UUID, req *dto.UpdateMoodRequest) (*dto.MoodEntryResponse, error) {
	uow := ms.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.MoodRepository().FindOne(ctx,
		specification.ByID{ID: entryId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("mood entry not found")
	}

	entry.Score = req.Score
	entry.Note = optionalString(req.Note)
	entry.UpdatedAt = time.Now()

	if err := uow.MoodRepository().Update(ctx, entry); err != nil {
		return nil, err
	}

	return moodToResponse(entry), nil
}

func (ms *moodService) DeleteMood(ctx context.Context, userId uuid.UUID, entryId uuid.UUID) error {
	uow := ms.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.MoodRepository().FindOne(ctx,
		specification.ByID{ID: entryId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("mood entry not found")
	}

	return uow.MoodRepository().Delete(ctx, entry.Id)
}

func (ms *moodService) ListMoods(ctx context.Context, userId uuid.UUID, from, to string) ([]*dto.MoodEntryResponse, error) {
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "entry_date", Desc: true},
	}

	if from != "" && to != "" {
		fromDate, err := time.Parse(dateLayout, from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date")
		}
		toDate, err := time.Parse(dateLayout, to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date")
		}
		specs = append(specs, specification.EntryDateBetween{From: fromDate, To: toDate})
	}

	uow := ms.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.MoodRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.MoodEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, moodToResponse(e))
	}
	return response, nil
}

func (ms *moodService) Summary(ctx context.Context, userId uuid.UUID, days int) (*dto.MoodSummaryResponse, error) {
	if days <= 0 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	to := truncateToDay(time.Now())
	from := to.AddDate(0, 0, -(days - 1))

	uow := ms.uowFactory.NewUnitOfWork(ctx)
	averages, err := uow.MoodRepository().DailyAverages(ctx, userId, from, to)
	if err != nil {
		return nil, err
	}

	summary := &dto.MoodSummaryResponse{
		From: from.Format(dateLayout),
		To:   to.Format(dateLayout),
		Days: make([]dto.MoodSummaryDay, 0, len(averages)),
	}

	var weightedSum float64
	var totalEntries int
	for _, avg := range averages {
		summary.Days = append(summary.Days, dto.MoodSummaryDay{
			Day:          avg.Day.Format(dateLayout),
			AverageScore: roundScore(avg.AverageScore),
			EntryCount:   avg.EntryCount,
		})
		weightedSum += avg.AverageScore * float64(avg.EntryCount)
		totalEntries += avg.EntryCount
	}

	summary.Overall.EntryCount = totalEntries
	if totalEntries > 0 {
		summary.Overall.AverageScore = roundScore(weightedSum / float64(totalEntries))
	}

	return summary, nil
}

func moodToResponse(e *entity.MoodEntry) *dto.MoodEntryResponse {
	note := ""
	if e.Note != nil {
		note = *e.Note
	}
	return &dto.MoodEntryResponse{
		Id:        e.Id,
		Score:     e.Score,
		Note:      note,
		EntryDate: e.EntryDate.Format(dateLayout),
		CreatedAt: e.CreatedAt,
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
