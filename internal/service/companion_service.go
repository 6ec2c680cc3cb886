package service

import (
	"context"
	"time"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/entity"
	"mindmate-be/internal/pkg/logger"
	"mindmate-be/internal/repository/memory"
	"mindmate-be/internal/repository/specification"
	"mindmate-be/internal/repository/unitofwork"
	"mindmate-be/pkg/companion"
	"mindmate-be/pkg/events"
	"mindmate-be/pkg/llm"
	pktNats "mindmate-be/pkg/nats"

	"github.com/google/uuid"
)

// LowCreditThreshold is the balance at or below which a warning event fires.
const LowCreditThreshold = 5

type ICompanionService interface {
	StartSession(ctx context.Context, userId uuid.UUID, request *dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	PostMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.PostMessageRequest) (*dto.PostMessageResponse, error)
	RenameSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.RenameSessionRequest) error
	ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error)
	GetTranscript(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.TranscriptResponse, error)
}

type companionService struct {
	gate      *companion.Gate
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewCompanionService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	cache *memory.TranscriptCache,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) ICompanionService {
	accounts := &gormAccountStore{uowFactory: uowFactory}
	transcripts := &gormTranscriptStore{uowFactory: uowFactory, cache: cache}

	return &companionService{
		gate:      companion.NewGate(accounts, transcripts, llmProvider),
		publisher: publisher,
		logger:    log,
	}
}

func (cs *companionService) StartSession(ctx context.Context, userId uuid.UUID, request *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	res, err := cs.gate.StartSession(ctx, userId, request.FirstMessage)
	if err != nil {
		cs.logger.Warn("CompanionService", "Start session rejected", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return nil, err
	}

	cs.afterSpend(ctx, userId, res.Balance)

	messages := make([]dto.MessageView, 0, len(res.Session.Turns))
	for _, turn := range res.Session.Turns {
		messages = append(messages, dto.MessageView{
			Role:      turn.Role,
			Content:   turn.Content,
			CreatedAt: turn.CreatedAt,
		})
	}

	return &dto.StartSessionResponse{
		SessionId:     res.Session.Id,
		Title:         res.Session.Title,
		Reply:         res.Reply,
		CreditBalance: res.Balance,
		Messages:      messages,
	}, nil
}

func (cs *companionService) PostMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.PostMessageRequest) (*dto.PostMessageResponse, error) {
	res, err := cs.gate.PostMessage(ctx, userId, sessionId, request.Content)
	if err != nil {
		cs.logger.Warn("CompanionService", "Message rejected", map[string]interface{}{
			"user_id":    userId.String(),
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	cs.afterSpend(ctx, userId, res.Balance)

	return &dto.PostMessageResponse{
		SessionId:     sessionId,
		Reply:         res.Reply,
		CreditBalance: res.Balance,
	}, nil
}

func (cs *companionService) RenameSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.RenameSessionRequest) error {
	return cs.gate.RenameSession(ctx, userId, sessionId, request.Title)
}

func (cs *companionService) ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error) {
	sessions, err := cs.gate.ListSessions(ctx, userId)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, &dto.SessionSummaryResponse{
			Id:             s.Id,
			Title:          s.Title,
			CreatedAt:      s.CreatedAt,
			LastActivityAt: s.LastActivityAt,
		})
	}
	return response, nil
}

func (cs *companionService) GetTranscript(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.TranscriptResponse, error) {
	session, err := cs.gate.GetTranscript(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages := make([]dto.MessageView, 0, len(session.Turns))
	for _, turn := range session.Turns {
		messages = append(messages, dto.MessageView{
			Role:      turn.Role,
			Content:   turn.Content,
			CreatedAt: turn.CreatedAt,
		})
	}

	return &dto.TranscriptResponse{
		Id:             session.Id,
		Title:          session.Title,
		CreatedAt:      session.CreatedAt,
		LastActivityAt: session.LastActivityAt,
		Messages:       messages,
	}, nil
}

// afterSpend fires the low-credit warning once the balance crosses the
// threshold. Delivery is best effort; a bus outage must not fail the chat.
func (cs *companionService) afterSpend(ctx context.Context, userId uuid.UUID, balance int) {
	if cs.publisher == nil || balance > LowCreditThreshold {
		return
	}
	event := events.BaseEvent{
		Type: entity.NotificationLowCredits,
		Data: map[string]interface{}{
			"user_id":        userId.String(),
			"credit_balance": balance,
		},
		OccurredAt: time.Now(),
	}
	if err := cs.publisher.Publish(ctx, event); err != nil {
		cs.logger.Warn("CompanionService", "Failed to publish low credit event", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}

// --- Store adapters over the unit of work ---

type gormAccountStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func (s *gormAccountStore) Get(ctx context.Context, accountId uuid.UUID) (*companion.Account, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return &companion.Account{
		Id:            user.Id,
		DisplayName:   user.FullName,
		CreditBalance: user.CreditBalance,
		Banned:        user.IsBanned(),
	}, nil
}

func (s *gormAccountStore) DeductCredits(ctx context.Context, accountId uuid.UUID, amount int) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	balance, updated, err := uow.UserRepository().DeductCredits(ctx, accountId, amount)
	if err != nil {
		return 0, err
	}
	if !updated {
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: accountId})
		if err != nil {
			return 0, err
		}
		if user == nil {
			return 0, companion.ErrConflict
		}
		return 0, &companion.InsufficientCreditsError{Balance: user.CreditBalance}
	}

	ledger := &entity.CreditTransaction{
		Id:           uuid.New(),
		UserId:       accountId,
		Type:         entity.CreditTransactionUsage,
		Amount:       -amount,
		BalanceAfter: balance,
		CreatedAt:    time.Now(),
	}
	if err := uow.CreditTransactionRepository().Create(ctx, ledger); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

type gormTranscriptStore struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.TranscriptCache
}

func (s *gormTranscriptStore) Create(ctx context.Context, accountId uuid.UUID, title string, turns []companion.Turn) (*companion.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	session := &entity.CompanionSession{
		Id:             uuid.New(),
		UserId:         accountId,
		Title:          title,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := uow.CompanionSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	messages := make([]*entity.CompanionMessage, len(turns))
	for i, turn := range turns {
		messages[i] = &entity.CompanionMessage{
			Id:        uuid.New(),
			SessionId: session.Id,
			Role:      turn.Role,
			Content:   turn.Content,
			CreatedAt: turn.CreatedAt,
		}
	}
	if err := uow.CompanionMessageRepository().CreateBatch(ctx, messages); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.cache.Save(session.Id, turns)

	return &companion.Session{
		Id:             session.Id,
		AccountId:      session.UserId,
		Title:          session.Title,
		Turns:          turns,
		CreatedAt:      session.CreatedAt,
		LastActivityAt: session.LastActivityAt,
	}, nil
}

func (s *gormTranscriptStore) Get(ctx context.Context, accountId, sessionId uuid.UUID) (*companion.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.CompanionSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: accountId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	turns, cached := s.cache.Get(sessionId)
	if !cached {
		messages, err := uow.CompanionMessageRepository().FindAll(ctx,
			specification.BySessionID{SessionID: sessionId},
			specification.ChronologicalMessages{},
		)
		if err != nil {
			return nil, err
		}
		turns = make([]companion.Turn, len(messages))
		for i, msg := range messages {
			turns[i] = companion.Turn{
				Role:      msg.Role,
				Content:   msg.Content,
				CreatedAt: msg.CreatedAt,
			}
		}
		s.cache.Save(sessionId, turns)
	}

	return &companion.Session{
		Id:             session.Id,
		AccountId:      session.UserId,
		Title:          session.Title,
		Turns:          turns,
		CreatedAt:      session.CreatedAt,
		LastActivityAt: session.LastActivityAt,
	}, nil
}

func (s *gormTranscriptStore) AppendTurns(ctx context.Context, sessionId uuid.UUID, turns []companion.Turn) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	messages := make([]*entity.CompanionMessage, len(turns))
	for i, turn := range turns {
		messages[i] = &entity.CompanionMessage{
			Id:        uuid.New(),
			SessionId: sessionId,
			Role:      turn.Role,
			Content:   turn.Content,
			CreatedAt: turn.CreatedAt,
		}
	}
	if err := uow.CompanionMessageRepository().CreateBatch(ctx, messages); err != nil {
		return err
	}
	if err := uow.CompanionSessionRepository().TouchActivity(ctx, sessionId, time.Now()); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.cache.Append(sessionId, turns...)
	return nil
}

func (s *gormTranscriptStore) Rename(ctx context.Context, sessionId uuid.UUID, title string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.CompanionSessionRepository().UpdateTitle(ctx, sessionId, title)
}

func (s *gormTranscriptStore) ListByAccount(ctx context.Context, accountId uuid.UUID) ([]*companion.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.CompanionSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: accountId},
		specification.OrderByActivity{},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*companion.Session, len(sessions))
	for i, session := range sessions {
		out[i] = &companion.Session{
			Id:             session.Id,
			AccountId:      session.UserId,
			Title:          session.Title,
			CreatedAt:      session.CreatedAt,
			LastActivityAt: session.LastActivityAt,
		}
	}
	return out, nil
}
