package mapper

import (
	"mindmate-be/internal/entity"
	"mindmate-be/internal/model"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.PaymentRecord) *entity.PaymentRecord {
	if p == nil {
		return nil
	}
	return &entity.PaymentRecord{
		Id:          p.Id,
		UserId:      p.UserId,
		OrderId:     p.OrderId,
		PackCode:    p.PackCode,
		Credits:     p.Credits,
		GrossAmount: p.GrossAmount,
		Status:      entity.PaymentStatus(p.Status),
		SnapToken:   p.SnapToken,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *PaymentMapper) ToModel(p *entity.PaymentRecord) *model.PaymentRecord {
	if p == nil {
		return nil
	}
	return &model.PaymentRecord{
		Id:          p.Id,
		UserId:      p.UserId,
		OrderId:     p.OrderId,
		PackCode:    p.PackCode,
		Credits:     p.Credits,
		GrossAmount: p.GrossAmount,
		Status:      string(p.Status),
		SnapToken:   p.SnapToken,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *PaymentMapper) ToEntities(records []*model.PaymentRecord) []*entity.PaymentRecord {
	entities := make([]*entity.PaymentRecord, len(records))
	for i, p := range records {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
