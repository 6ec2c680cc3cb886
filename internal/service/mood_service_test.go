package service

import (
	"context"
	"testing"
	"time"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/entity"
	"mindmate-be/internal/repository/contract"
	"mindmate-be/internal/repository/specification"
	"mindmate-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeMoodRepo records writes and serves canned query results.
type fakeMoodRepo struct {
	contract.MoodRepository

	created   *entity.MoodEntry
	updated   *entity.MoodEntry
	deletedId uuid.UUID
	findOne   *entity.MoodEntry
	findAll   []*entity.MoodEntry
	averages  []*entity.MoodDailyAverage
}

func (f *fakeMoodRepo) Create(ctx context.Context, entry *entity.MoodEntry) error {
	f.created = entry
	return nil
}

func (f *fakeMoodRepo) Update(ctx context.Context, entry *entity.MoodEntry) error {
	f.updated = entry
	return nil
}

func (f *fakeMoodRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deletedId = id
	return nil
}

func (f *fakeMoodRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MoodEntry, error) {
	return f.findOne, nil
}

func (f *fakeMoodRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MoodEntry, error) {
	return f.findAll, nil
}

func (f *fakeMoodRepo) DailyAverages(ctx context.Context, userId uuid.UUID, from, to time.Time) ([]*entity.MoodDailyAverage, error) {
	return f.averages, nil
}

type fakeMoodUow struct {
	unitofwork.UnitOfWork
	moods *fakeMoodRepo
}

func (f *fakeMoodUow) MoodRepository() contract.MoodRepository { return f.moods }

type fakeMoodFactory struct {
	uow *fakeMoodUow
}

func (f *fakeMoodFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newMoodFixture(repo *fakeMoodRepo) IMoodService {
	return NewMoodService(&fakeMoodFactory{uow: &fakeMoodUow{moods: repo}}, noopLogger{})
}

func TestLogMoodDefaultsToToday(t *testing.T) {
	repo := &fakeMoodRepo{}
	svc := newMoodFixture(repo)
	userId := uuid.New()

	res, err := svc.LogMood(context.Background(), userId, &dto.LogMoodRequest{Score: 4})

	assert.NoError(t, err)
	assert.NotNil(t, repo.created)
	assert.Equal(t, userId, repo.created.UserId)
	assert.Equal(t, 4, res.Score)

	today := time.Now().Format("2006-01-02")
	assert.Equal(t, today, res.EntryDate)

	// Entry dates carry no time-of-day component
	assert.Equal(t, 0, repo.created.EntryDate.Hour())
	assert.Equal(t, 0, repo.created.EntryDate.Minute())
}

func TestLogMoodBackdated(t *testing.T) {
	repo := &fakeMoodRepo{}
	svc := newMoodFixture(repo)

	res, err := svc.LogMood(context.Background(), uuid.New(), &dto.LogMoodRequest{
		Score:     2,
		Note:      "  rough day  ",
		EntryDate: "2026-08-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, "2026-08-01", res.EntryDate)
	assert.Equal(t, "rough day", res.Note)
}

func TestLogMoodRejectsBadDate(t *testing.T) {
	svc := newMoodFixture(&fakeMoodRepo{})

	_, err := svc.LogMood(context.Background(), uuid.New(), &dto.LogMoodRequest{
		Score:     3,
		EntryDate: "01-08-2026",
	})

	assert.Error(t, err)
}

func TestLogMoodEmptyNoteStoredAsNull(t *testing.T) {
	repo := &fakeMoodRepo{}
	svc := newMoodFixture(repo)

	_, err := svc.LogMood(context.Background(), uuid.New(), &dto.LogMoodRequest{Score: 5, Note: "   "})

	assert.NoError(t, err)
	assert.Nil(t, repo.created.Note)
}

func TestUpdateMoodNotFound(t *testing.T) {
	svc := newMoodFixture(&fakeMoodRepo{findOne: nil})

	_, err := svc.UpdateMood(context.Background(), uuid.New(), uuid.New(), &dto.UpdateMoodRequest{Score: 3})

	assert.EqualError(t, err, "mood entry not found")
}

func TestDeleteMoodChecksOwnershipFirst(t *testing.T) {
	entry := &entity.MoodEntry{Id: uuid.New(), Score: 3, EntryDate: time.Now()}
	repo := &fakeMoodRepo{findOne: entry}
	svc := newMoodFixture(repo)

	err := svc.DeleteMood(context.Background(), uuid.New(), entry.Id)

	assert.NoError(t, err)
	assert.Equal(t, entry.Id, repo.deletedId)
}

func TestListMoodsRejectsBadRange(t *testing.T) {
	svc := newMoodFixture(&fakeMoodRepo{})

	_, err := svc.ListMoods(context.Background(), uuid.New(), "2026-08-01", "not-a-date")

	assert.Error(t, err)
}

func TestSummaryWeightedAverage(t *testing.T) {
	day1 := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	repo := &fakeMoodRepo{averages: []*entity.MoodDailyAverage{
		{Day: day1, AverageScore: 4.0, EntryCount: 1},
		{Day: day2, AverageScore: 2.0, EntryCount: 3},
	}}
	svc := newMoodFixture(repo)

	res, err := svc.Summary(context.Background(), uuid.New(), 7)

	assert.NoError(t, err)
	assert.Len(t, res.Days, 2)
	assert.Equal(t, "2026-08-25", res.Days[0].Day)
	assert.Equal(t, 4, res.Overall.EntryCount)
	// (4*1 + 2*3) / 4 = 2.5
	assert.Equal(t, 2.5, res.Overall.AverageScore)
}

func TestSummaryEmptyWindow(t *testing.T) {
	svc := newMoodFixture(&fakeMoodRepo{})

	res, err := svc.Summary(context.Background(), uuid.New(), 0)

	assert.NoError(t, err)
	assert.Empty(t, res.Days)
	assert.Equal(t, 0, res.Overall.EntryCount)
	assert.Equal(t, float64(0), res.Overall.AverageScore)

	// A zero request falls back to the 7 day window
	from, _ := time.Parse("2006-01-02", res.From)
	to, _ := time.Parse("2006-01-02", res.To)
	assert.Equal(t, 6, int(to.Sub(from).Hours()/24))
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 3.33, roundScore(10.0/3.0))
	assert.Equal(t, 2.5, roundScore(2.5))
}
