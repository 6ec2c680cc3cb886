package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/entity"
	"mindmate-be/internal/repository/specification"
	"mindmate-be/internal/repository/unitofwork"
	"mindmate-be/pkg/embedding"
	"mindmate-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedJournalMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing journal embedding for JournalId: %s", payload.JournalId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	journal, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: payload.JournalId})
	if err != nil {
		log.Printf("[ERROR] Failed to get journal %s: %v", payload.JournalId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if journal == nil {
		log.Printf("[ERROR] Journal not found: %s", payload.JournalId)
		msg.Ack() // Journal deleted? Ack.
		return
	}

	journalUpdatedAt := "-"
	if journal.UpdatedAt != nil {
		journalUpdatedAt = journal.UpdatedAt.Format(time.RFC3339)
	}

	content := fmt.Sprintf(`Journal Title: %s

%s

Created At: %s
Updated At: %s`,
		journal.Title,
		journal.Content,
		journal.CreatedAt.Format(time.RFC3339),
		journalUpdatedAt,
	)

	log.Printf("[INFO] Generating embeddings for journal %s (content length: %d)", payload.JournalId, len(content))

	// ChunkSize: 1500 chars (approx 375 tokens), Overlap: 200 chars
	chunks := utils.SplitText(content, 1500, 200)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	var newEmbeddings []*entity.JournalEmbedding

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of journal %s: %v", i, payload.JournalId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.JournalEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			JournalId:      journal.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.JournalEmbeddingRepository().DeleteByJournalId(ctx, journal.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.JournalEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Journal processed: %d chunks for JournalId: %s", len(newEmbeddings), payload.JournalId)
	msg.Ack()
}
