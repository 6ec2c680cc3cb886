package companion

import (
	"context"
	"strings"
	"time"

	"mindmate-be/pkg/llm"

	"github.com/google/uuid"
)

// Gate is the credit-gated conversational session manager. Every turn costs one
// credit, deducted and persisted before the generation call so a crash mid-flow
// never grants a free turn. A failed generation does not refund the credit.
type Gate struct {
	accounts    AccountStore
	transcripts TranscriptStore
	provider    llm.LLMProvider
}

func NewGate(accounts AccountStore, transcripts TranscriptStore, provider llm.LLMProvider) *Gate {
	return &Gate{
		accounts:    accounts,
		transcripts: transcripts,
		provider:    provider,
	}
}

type StartResult struct {
	Session *Session
	Reply   string
	Balance int
}

type ChatResult struct {
	Reply   string
	Balance int
}

// checkAccount runs the shared eligibility checks in precondition order:
// existence, ban, balance. The balance check here is advisory; the conditional
// decrement remains the authority under concurrency.
func (g *Gate) checkAccount(ctx context.Context, accountId uuid.UUID) (*Account, error) {
	acct, err := g.accounts.Get(ctx, accountId)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrNotFound
	}
	if acct.Banned {
		return nil, ErrForbidden
	}
	if acct.CreditBalance < 1 {
		return nil, &InsufficientCreditsError{Balance: acct.CreditBalance}
	}
	return acct, nil
}

// StartSession opens a new conversation. firstMessage may be empty; the
// companion then opens with DefaultGreeting and the session gets a date-stamped
// title instead of one derived from the message.
func (g *Gate) StartSession(ctx context.Context, accountId uuid.UUID, firstMessage string) (*StartResult, error) {
	firstMessage = strings.TrimSpace(firstMessage)

	if _, err := g.checkAccount(ctx, accountId); err != nil {
		return nil, err
	}

	balance, err := g.accounts.DeductCredits(ctx, accountId, 1)
	if err != nil {
		return nil, err
	}

	// The credit is spent from here on, even if a later step fails.
	opening := firstMessage
	if opening == "" {
		opening = DefaultGreeting
	}

	reply, err := g.provider.Chat(ctx, []llm.Message{{Role: RoleUser, Content: opening}})
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	now := time.Now()
	turns := make([]Turn, 0, 2)
	if firstMessage != "" {
		turns = append(turns, Turn{Role: RoleUser, Content: firstMessage, CreatedAt: now})
	}
	turns = append(turns, Turn{Role: RoleAssistant, Content: reply, CreatedAt: now})

	session, err := g.transcripts.Create(ctx, accountId, DeriveTitle(firstMessage, now), turns)
	if err != nil {
		return nil, err
	}

	return &StartResult{Session: session, Reply: reply, Balance: balance}, nil
}

// PostMessage appends one user turn to an owned session and returns the
// companion's reply plus the post-deduction balance.
func (g *Gate) PostMessage(ctx context.Context, accountId, sessionId uuid.UUID, text string) (*ChatResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}

	if _, err := g.checkAccount(ctx, accountId); err != nil {
		return nil, err
	}

	session, err := g.transcripts.Get(ctx, accountId, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	balance, err := g.accounts.DeductCredits(ctx, accountId, 1)
	if err != nil {
		return nil, err
	}

	window := BuildHistoryWindow(session.Turns)
	reply, err := g.provider.Chat(ctx, append(window, llm.Message{Role: RoleUser, Content: text}))
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	now := time.Now()
	err = g.transcripts.AppendTurns(ctx, sessionId, []Turn{
		{Role: RoleUser, Content: text, CreatedAt: now},
		{Role: RoleAssistant, Content: reply, CreatedAt: now},
	})
	if err != nil {
		return nil, err
	}

	return &ChatResult{Reply: reply, Balance: balance}, nil
}

// RenameSession sets a user-supplied title. No credit interaction.
func (g *Gate) RenameSession(ctx context.Context, accountId, sessionId uuid.UUID, newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" || len([]rune(newTitle)) > RenameTitleMaxLen {
		return ErrInvalidInput
	}

	session, err := g.transcripts.Get(ctx, accountId, sessionId)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}

	return g.transcripts.Rename(ctx, sessionId, newTitle)
}

// ListSessions returns the account's sessions newest-activity-first.
func (g *Gate) ListSessions(ctx context.Context, accountId uuid.UUID) ([]*Session, error) {
	return g.transcripts.ListByAccount(ctx, accountId)
}

// GetTranscript returns one owned session including its turns.
func (g *Gate) GetTranscript(ctx context.Context, accountId, sessionId uuid.UUID) (*Session, error) {
	session, err := g.transcripts.Get(ctx, accountId, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	return session, nil
}
