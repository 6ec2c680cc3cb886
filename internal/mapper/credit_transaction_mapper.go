package mapper

import (
	"mindmate-be/internal/entity"
	"mindmate-be/internal/model"
)

type CreditTransactionMapper struct{}

func NewCreditTransactionMapper() *CreditTransactionMapper {
	return &CreditTransactionMapper{}
}

func (m *CreditTransactionMapper) ToEntity(t *model.CreditTransaction) *entity.CreditTransaction {
	if t == nil {
		return nil
	}
	return &entity.CreditTransaction{
		Id:           t.Id,
		UserId:       t.UserId,
		Type:         entity.CreditTransactionType(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Notes:        t.Notes,
		RelatedId:    t.RelatedId,
		CreatedAt:    t.CreatedAt,
	}
}

func (m *CreditTransactionMapper) ToModel(t *entity.CreditTransaction) *model.CreditTransaction {
	if t == nil {
		return nil
	}
	return &model.CreditTransaction{
		Id:           t.Id,
		UserId:       t.UserId,
		Type:         string(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Notes:        t.Notes,
		RelatedId:    t.RelatedId,
		CreatedAt:    t.CreatedAt,
	}
}

func (m *CreditTransactionMapper) ToEntities(txs []*model.CreditTransaction) []*entity.CreditTransaction {
	entities := make([]*entity.CreditTransaction, len(txs))
	for i, t := range txs {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
