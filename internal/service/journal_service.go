package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/entity"
	"mindmate-be/internal/pkg/logger"
	"mindmate-be/internal/repository/specification"
	"mindmate-be/internal/repository/unitofwork"
	"mindmate-be/pkg/embedding"

	"github.com/google/uuid"
)

const journalPreviewLen = 120

type IJournalService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateJournalRequest) (*dto.JournalResponse, error)
	Update(ctx context.Context, userId uuid.UUID, journalId uuid.UUID, req *dto.UpdateJournalRequest) (*dto.JournalResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, journalId uuid.UUID) error
	Get(ctx context.Context, userId uuid.UUID, journalId uuid.UUID) (*dto.JournalResponse, error)
	List(ctx context.Context, userId uuid.UUID, keyword string) ([]*dto.JournalListItemResponse, error)
	Search(ctx context.Context, userId uuid.UUID, req *dto.SearchJournalsRequest) ([]*dto.JournalSearchResultResponse, error)
}

type journalService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewJournalService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IJournalService {
	return &journalService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (js *journalService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateJournalRequest) (*dto.JournalResponse, error) {
	uow := js.uowFactory.NewUnitOfWork(ctx)

	entry := &entity.JournalEntry{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := uow.JournalRepository().Create(ctx, entry); err != nil {
		return nil, err
	}

	js.requestEmbedding(ctx, entry.Id)

	return journalToResponse(entry), nil
}

func (js *journalService) Update(ctx context.Context, userId uuid.UUID, journalId uuid.UUID, req *dto.UpdateJournalRequest) (*dto.JournalResponse, error) {
	uow := js.uowFactory.NewUnitOfWork(ctx)

	entry, err := js.findOwned(ctx, uow, userId, journalId)
	if err != nil {
		return nil, err
	}

	entry.Title = strings.TrimSpace(req.Title)
	entry.Content = req.Content
	now := time.Now()
	entry.UpdatedAt = &now

	if err := uow.JournalRepository().Update(ctx, entry); err != nil {
		return nil, err
	}

	// Content changed, re-embed.
	js.requestEmbedding(ctx, entry.Id)

	return journalToResponse(entry), nil
}

func (js *journalService) Delete(ctx context.Context, userId uuid.UUID, journalId uuid.UUID) error {
	uow := js.uowFactory.NewUnitOfWork(ctx)

	entry, err := js.findOwned(ctx, uow, userId, journalId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.JournalRepository().Delete(ctx, entry.Id); err != nil {
		return err
	}
	if err := uow.JournalEmbeddingRepository().DeleteByJournalId(ctx, entry.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (js *journalService) Get(ctx context.Context, userId uuid.UUID, journalId uuid.UUID) (*dto.JournalResponse, error) {
	uow := js.uowFactory.NewUnitOfWork(ctx)

	entry, err := js.findOwned(ctx, uow, userId, journalId)
	if err != nil {
		return nil, err
	}
	return journalToResponse(entry), nil
}

func (js *journalService) List(ctx context.Context, userId uuid.UUID, keyword string) ([]*dto.JournalListItemResponse, error) {
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if keyword != "" {
		specs = append(specs, specification.JournalKeywordQuery{Query: keyword})
	}

	uow := js.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.JournalRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.JournalListItemResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, &dto.JournalListItemResponse{
			Id:        e.Id,
			Title:     e.Title,
			Preview:   preview(e.Content, journalPreviewLen),
			CreatedAt: e.CreatedAt,
		})
	}
	return response, nil
}

func (js *journalService) Search(ctx context.Context, userId uuid.UUID, req *dto.SearchJournalsRequest) ([]*dto.JournalSearchResultResponse, error) {
	res, err := js.embeddingProvider.Generate(req.Query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}

	uow := js.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.JournalEmbeddingRepository().SearchSimilar(ctx, res.Embedding.Values, limit, userId, 0.3)
	if err != nil {
		return nil, err
	}

	// Keep the best chunk per entry, preserving rank order.
	seen := make(map[uuid.UUID]bool)
	response := make([]*dto.JournalSearchResultResponse, 0, len(scored))
	for _, s := range scored {
		if seen[s.Embedding.JournalId] {
			continue
		}
		seen[s.Embedding.JournalId] = true

		entry, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: s.Embedding.JournalId})
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue
		}
		response = append(response, &dto.JournalSearchResultResponse{
			Id:         entry.Id,
			Title:      entry.Title,
			Snippet:    preview(s.Embedding.Document, journalPreviewLen),
			Similarity: s.Similarity,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return response, nil
}

func (js *journalService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, journalId uuid.UUID) (*entity.JournalEntry, error) {
	entry, err := uow.JournalRepository().FindOne(ctx,
		specification.ByID{ID: journalId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.New("journal entry not found")
	}
	return entry, nil
}

// requestEmbedding queues the async embedding job. The journal write has
// already committed; a queue failure only delays semantic search freshness.
func (js *journalService) requestEmbedding(ctx context.Context, journalId uuid.UUID) {
	payload := dto.PublishEmbedJournalMessage{JournalId: journalId}
	msgJson, err := json.Marshal(payload)
	if err != nil {
		js.logger.Error("JournalService", "Failed to marshal embedding job", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := js.publisherService.Publish(ctx, msgJson); err != nil {
		js.logger.Warn("JournalService", "Failed to queue embedding job", map[string]interface{}{
			"journal_id": journalId.String(),
			"error":      err.Error(),
		})
	}
}

func journalToResponse(e *entity.JournalEntry) *dto.JournalResponse {
	return &dto.JournalResponse{
		Id:        e.Id,
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func preview(content string, max int) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}
