package mapper

import (
	"mindmate-be/internal/entity"
	"mindmate-be/internal/model"
)

type CompanionMapper struct{}

func NewCompanionMapper() *CompanionMapper {
	return &CompanionMapper{}
}

// Session Mappers

func (m *CompanionMapper) SessionToEntity(s *model.CompanionSession) *entity.CompanionSession {
	if s == nil {
		return nil
	}
	return &entity.CompanionSession{
		Id:             s.Id,
		UserId:         s.UserId,
		Title:          s.Title,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}
}

func (m *CompanionMapper) SessionToModel(s *entity.CompanionSession) *model.CompanionSession {
	if s == nil {
		return nil
	}
	return &model.CompanionSession{
		Id:             s.Id,
		UserId:         s.UserId,
		Title:          s.Title,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}
}

func (m *CompanionMapper) SessionsToEntities(sessions []*model.CompanionSession) []*entity.CompanionSession {
	entities := make([]*entity.CompanionSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.SessionToEntity(s)
	}
	return entities
}

// Message Mappers

func (m *CompanionMapper) MessageToEntity(msg *model.CompanionMessage) *entity.CompanionMessage {
	if msg == nil {
		return nil
	}
	return &entity.CompanionMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *CompanionMapper) MessageToModel(msg *entity.CompanionMessage) *model.CompanionMessage {
	if msg == nil {
		return nil
	}
	return &model.CompanionMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *CompanionMapper) MessagesToEntities(msgs []*model.CompanionMessage) []*entity.CompanionMessage {
	entities := make([]*entity.CompanionMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}

func (m *CompanionMapper) MessagesToModels(msgs []*entity.CompanionMessage) []*model.CompanionMessage {
	models := make([]*model.CompanionMessage, len(msgs))
	for i, msg := range msgs {
		models[i] = m.MessageToModel(msg)
	}
	return models
}
