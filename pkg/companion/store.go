package companion

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account is the credit-gated view of a registered user.
type Account struct {
	Id            uuid.UUID
	DisplayName   string
	CreditBalance int
	Banned        bool
}

// Turn is one message in a session transcript. Turns are immutable once
// appended; ordering is insertion order.
type Turn struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// Session is one conversation thread, owned by exactly one account.
type Session struct {
	Id             uuid.UUID
	AccountId      uuid.UUID
	Title          string
	Turns          []Turn
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// AccountStore supplies balance/ban state and the conditional credit decrement.
type AccountStore interface {
	// Get returns nil, nil when the account does not exist.
	Get(ctx context.Context, accountId uuid.UUID) (*Account, error)

	// DeductCredits atomically decrements the balance if and only if it holds at
	// least amount credits, and returns the post-deduction balance. Two
	// concurrent calls must never both spend the same last credit. Fails with
	// *InsufficientCreditsError or ErrConflict.
	DeductCredits(ctx context.Context, accountId uuid.UUID, amount int) (int, error)
}

// TranscriptStore persists per-session message logs. Get returns nil, nil when
// the session is absent or not owned by accountId.
type TranscriptStore interface {
	Create(ctx context.Context, accountId uuid.UUID, title string, turns []Turn) (*Session, error)
	Get(ctx context.Context, accountId, sessionId uuid.UUID) (*Session, error)
	AppendTurns(ctx context.Context, sessionId uuid.UUID, turns []Turn) error
	Rename(ctx context.Context, sessionId uuid.UUID, title string) error

	// ListByAccount returns sessions newest-activity-first, without turns.
	ListByAccount(ctx context.Context, accountId uuid.UUID) ([]*Session, error)
}
