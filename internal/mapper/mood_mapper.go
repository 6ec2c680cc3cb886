package mapper

import (
	"mindmate-be/internal/entity"
	"mindmate-be/internal/model"
)

type MoodMapper struct{}

func NewMoodMapper() *MoodMapper {
	return &MoodMapper{}
}

func (m *MoodMapper) ToEntity(e *model.MoodEntry) *entity.MoodEntry {
	if e == nil {
		return nil
	}
	return &entity.MoodEntry{
		Id:        e.Id,
		UserId:    e.UserId,
		Score:     e.Score,
		Note:      e.Note,
		EntryDate: e.EntryDate,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *MoodMapper) ToModel(e *entity.MoodEntry) *model.MoodEntry {
	if e == nil {
		return nil
	}
	return &model.MoodEntry{
		Id:        e.Id,
		UserId:    e.UserId,
		Score:     e.Score,
		Note:      e.Note,
		EntryDate: e.EntryDate,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *MoodMapper) ToEntities(entries []*model.MoodEntry) []*entity.MoodEntry {
	entities := make([]*entity.MoodEntry, len(entries))
	for i, e := range entries {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
