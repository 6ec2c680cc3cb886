package companion_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"mindmate-be/pkg/companion"
	"mindmate-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory collaborators ---

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*companion.Account
}

func newFakeAccountStore(accounts ...*companion.Account) *fakeAccountStore {
	m := make(map[uuid.UUID]*companion.Account)
	for _, a := range accounts {
		m[a.Id] = a
	}
	return &fakeAccountStore{accounts: m}
}

func (s *fakeAccountStore) Get(_ context.Context, id uuid.UUID) (*companion.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *acct
	return &copied, nil
}

func (s *fakeAccountStore) DeductCredits(_ context.Context, id uuid.UUID, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return 0, companion.ErrConflict
	}
	if acct.CreditBalance < amount {
		return 0, &companion.InsufficientCreditsError{Balance: acct.CreditBalance}
	}
	acct.CreditBalance -= amount
	return acct.CreditBalance, nil
}

func (s *fakeAccountStore) balance(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id].CreditBalance
}

type fakeTranscriptStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*companion.Session
}

func newFakeTranscriptStore() *fakeTranscriptStore {
	return &fakeTranscriptStore{sessions: make(map[uuid.UUID]*companion.Session)}
}

func (s *fakeTranscriptStore) Create(_ context.Context, accountId uuid.UUID, title string, turns []companion.Turn) (*companion.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := &companion.Session{
		Id:        uuid.New(),
		AccountId: accountId,
		Title:     title,
		Turns:     append([]companion.Turn(nil), turns...),
	}
	s.sessions[session.Id] = session
	copied := *session
	return &copied, nil
}

func (s *fakeTranscriptStore) Get(_ context.Context, accountId, sessionId uuid.UUID) (*companion.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionId]
	if !ok || session.AccountId != accountId {
		return nil, nil
	}
	copied := *session
	copied.Turns = append([]companion.Turn(nil), session.Turns...)
	return &copied, nil
}

func (s *fakeTranscriptStore) AppendTurns(_ context.Context, sessionId uuid.UUID, turns []companion.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionId]
	if !ok {
		return errors.New("session missing")
	}
	session.Turns = append(session.Turns, turns...)
	return nil
}

func (s *fakeTranscriptStore) Rename(_ context.Context, sessionId uuid.UUID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionId]
	if !ok {
		return errors.New("session missing")
	}
	session.Title = title
	return nil
}

func (s *fakeTranscriptStore) ListByAccount(_ context.Context, accountId uuid.UUID) ([]*companion.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*companion.Session
	for _, session := range s.sessions {
		if session.AccountId == accountId {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeProvider returns a canned reply and records the last history it was sent.
type fakeProvider struct {
	mu          sync.Mutex
	reply       string
	err         error
	lastHistory []llm.Message
}

func (p *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastHistory = append([]llm.Message(nil), history...)
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func newTestGate(balance int, banned bool) (*companion.Gate, uuid.UUID, *fakeAccountStore, *fakeTranscriptStore, *fakeProvider) {
	accountId := uuid.New()
	accounts := newFakeAccountStore(&companion.Account{
		Id:            accountId,
		DisplayName:   "Test User",
		CreditBalance: balance,
		Banned:        banned,
	})
	transcripts := newFakeTranscriptStore()
	provider := &fakeProvider{reply: "I'm here for you."}
	return companion.NewGate(accounts, transcripts, provider), accountId, accounts, transcripts, provider
}

// --- Tests ---

func TestStartSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Happy Path Deducts One Credit And Builds Transcript", func(t *testing.T) {
		gate, accountId, accounts, _, _ := newTestGate(5, false)

		res, err := gate.StartSession(ctx, accountId, "I feel anxious")
		require.NoError(t, err)
		assert.Equal(t, 4, res.Balance)
		assert.Equal(t, 4, accounts.balance(accountId))
		assert.Equal(t, "I feel anxious", res.Session.Title)
		require.Len(t, res.Session.Turns, 2)
		assert.Equal(t, companion.RoleUser, res.Session.Turns[0].Role)
		assert.Equal(t, "I feel anxious", res.Session.Turns[0].Content)
		assert.Equal(t, companion.RoleAssistant, res.Session.Turns[1].Role)
		assert.Equal(t, res.Reply, res.Session.Turns[1].Content)
	})

	t.Run("No First Message Uses Greeting And Date Title", func(t *testing.T) {
		gate, accountId, _, _, provider := newTestGate(3, false)

		res, err := gate.StartSession(ctx, accountId, "")
		require.NoError(t, err)
		// Transcript holds only the assistant turn
		require.Len(t, res.Session.Turns, 1)
		assert.Equal(t, companion.RoleAssistant, res.Session.Turns[0].Role)
		assert.Contains(t, res.Session.Title, "Conversation on ")
		// The generation call saw the greeting as the sole user turn
		require.Len(t, provider.lastHistory, 1)
		assert.Equal(t, companion.DefaultGreeting, provider.lastHistory[0].Content)
		assert.Equal(t, "user", provider.lastHistory[0].Role)
	})

	t.Run("Unknown Account Fails NotFound", func(t *testing.T) {
		gate, _, _, _, _ := newTestGate(1, false)
		_, err := gate.StartSession(ctx, uuid.New(), "hi")
		assert.ErrorIs(t, err, companion.ErrNotFound)
	})

	t.Run("Banned Account Fails Forbidden Without Charge", func(t *testing.T) {
		gate, accountId, accounts, _, _ := newTestGate(5, true)
		_, err := gate.StartSession(ctx, accountId, "hi")
		assert.ErrorIs(t, err, companion.ErrForbidden)
		assert.Equal(t, 5, accounts.balance(accountId))
	})

	t.Run("Zero Balance Fails With Current Balance", func(t *testing.T) {
		gate, accountId, accounts, _, _ := newTestGate(0, false)
		_, err := gate.StartSession(ctx, accountId, "hi")
		var insufficient *companion.InsufficientCreditsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 0, insufficient.Balance)
		assert.Equal(t, 0, accounts.balance(accountId))
	})

	t.Run("Generation Failure Still Spends The Credit", func(t *testing.T) {
		gate, accountId, accounts, _, provider := newTestGate(3, false)
		provider.err = errors.New("upstream 500")

		_, err := gate.StartSession(ctx, accountId, "hi")
		var generation *companion.GenerationError
		require.ErrorAs(t, err, &generation)
		assert.Equal(t, 2, accounts.balance(accountId))
	})
}

func TestPostMessage(t *testing.T) {
	ctx := context.Background()

	start := func(t *testing.T, gate *companion.Gate, accountId uuid.UUID) uuid.UUID {
		res, err := gate.StartSession(ctx, accountId, "I feel anxious")
		require.NoError(t, err)
		return res.Session.Id
	}

	t.Run("Empty Text Is Rejected Before Any Checks", func(t *testing.T) {
		gate, accountId, accounts, _, _ := newTestGate(2, false)
		_, err := gate.PostMessage(ctx, accountId, uuid.New(), "   ")
		assert.ErrorIs(t, err, companion.ErrInvalidInput)
		assert.Equal(t, 2, accounts.balance(accountId))
	})

	t.Run("Foreign Session Collapses To NotFound", func(t *testing.T) {
		gate, accountId, _, transcripts, _ := newTestGate(5, false)
		otherId := uuid.New()
		other, err := transcripts.Create(ctx, otherId, "theirs", nil)
		require.NoError(t, err)

		_, err = gate.PostMessage(ctx, accountId, other.Id, "hello")
		assert.ErrorIs(t, err, companion.ErrNotFound)
	})

	t.Run("Sequential Appends Preserve Order", func(t *testing.T) {
		gate, accountId, _, _, _ := newTestGate(10, false)
		sessionId := start(t, gate, accountId)

		_, err := gate.PostMessage(ctx, accountId, sessionId, "turn A")
		require.NoError(t, err)
		_, err = gate.PostMessage(ctx, accountId, sessionId, "turn B")
		require.NoError(t, err)

		session, err := gate.GetTranscript(ctx, accountId, sessionId)
		require.NoError(t, err)
		require.Len(t, session.Turns, 6)
		assert.Equal(t, "turn A", session.Turns[2].Content)
		assert.Equal(t, "turn B", session.Turns[4].Content)
	})

	t.Run("Provider Receives Normalized Window Plus New Message", func(t *testing.T) {
		gate, accountId, _, _, provider := newTestGate(10, false)
		sessionId := start(t, gate, accountId)

		_, err := gate.PostMessage(ctx, accountId, sessionId, "how do I calm down?")
		require.NoError(t, err)

		history := provider.lastHistory
		require.NotEmpty(t, history)
		assert.Equal(t, "user", history[0].Role)
		for i := 1; i < len(history); i++ {
			assert.NotEqual(t, history[i-1].Role, history[i].Role, "roles must alternate")
		}
		assert.Equal(t, "how do I calm down?", history[len(history)-1].Content)
	})

	t.Run("Generation Failure Spends Credit And Skips Append", func(t *testing.T) {
		gate, accountId, accounts, _, provider := newTestGate(5, false)
		sessionId := start(t, gate, accountId)
		before := accounts.balance(accountId)

		provider.err = errors.New("timeout")
		_, err := gate.PostMessage(ctx, accountId, sessionId, "hello?")
		var generation *companion.GenerationError
		require.ErrorAs(t, err, &generation)
		assert.Equal(t, before-1, accounts.balance(accountId))

		provider.err = nil
		session, err := gate.GetTranscript(ctx, accountId, sessionId)
		require.NoError(t, err)
		assert.Len(t, session.Turns, 2, "failed turn must not be persisted")
	})
}

func TestConcurrentCreditSpend(t *testing.T) {
	ctx := context.Background()

	run := func(t *testing.T, balance, requests int) (succeeded, insufficient int) {
		gate, accountId, accounts, _, _ := newTestGate(balance, false)
		sessionRes, err := gate.StartSession(ctx, accountId, "warmup")
		require.NoError(t, err)
		// StartSession consumed one credit
		remaining := balance - 1

		var wg sync.WaitGroup
		results := make(chan error, requests)
		for i := 0; i < requests; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, err := gate.PostMessage(ctx, accountId, sessionRes.Session.Id, fmt.Sprintf("msg %d", n))
				results <- err
			}(i)
		}
		wg.Wait()
		close(results)

		for err := range results {
			if err == nil {
				succeeded++
				continue
			}
			var ins *companion.InsufficientCreditsError
			if errors.As(err, &ins) || errors.Is(err, companion.ErrConflict) {
				insufficient++
				continue
			}
			t.Fatalf("unexpected error kind: %v", err)
		}

		final := accounts.balance(accountId)
		assert.GreaterOrEqual(t, final, 0, "balance must never go negative")
		assert.Equal(t, remaining-succeeded, final)
		return succeeded, insufficient
	}

	t.Run("Exactly N Requests Against Balance N All Succeed", func(t *testing.T) {
		// Balance 9: 1 for the warmup session, 8 for the 8 concurrent turns.
		succeeded, insufficient := run(t, 9, 8)
		assert.Equal(t, 8, succeeded)
		assert.Equal(t, 0, insufficient)
	})

	t.Run("Oversubscribed Requests Spend Only The Balance", func(t *testing.T) {
		succeeded, insufficient := run(t, 5, 8)
		assert.Equal(t, 4, succeeded)
		assert.Equal(t, 4, insufficient)
	})
}

func TestRenameSession(t *testing.T) {
	ctx := context.Background()

	gate, accountId, accounts, _, _ := newTestGate(5, false)
	res, err := gate.StartSession(ctx, accountId, "first")
	require.NoError(t, err)

	t.Run("Valid Rename Persists Without Credit Interaction", func(t *testing.T) {
		before := accounts.balance(accountId)
		require.NoError(t, gate.RenameSession(ctx, accountId, res.Session.Id, "Evening check-in"))
		session, err := gate.GetTranscript(ctx, accountId, res.Session.Id)
		require.NoError(t, err)
		assert.Equal(t, "Evening check-in", session.Title)
		assert.Equal(t, before, accounts.balance(accountId))
	})

	t.Run("Empty And Oversized Titles Are Rejected", func(t *testing.T) {
		assert.ErrorIs(t, gate.RenameSession(ctx, accountId, res.Session.Id, "  "), companion.ErrInvalidInput)

		long := make([]rune, companion.RenameTitleMaxLen+1)
		for i := range long {
			long[i] = 'x'
		}
		assert.ErrorIs(t, gate.RenameSession(ctx, accountId, res.Session.Id, string(long)), companion.ErrInvalidInput)
	})

	t.Run("Foreign Session Is NotFound", func(t *testing.T) {
		assert.ErrorIs(t, gate.RenameSession(ctx, uuid.New(), res.Session.Id, "ok"), companion.ErrNotFound)
	})
}

func TestEndToEndScenario(t *testing.T) {
	// Account with exactly one credit: the first turn succeeds, the second is
	// rejected and the balance never dips below zero.
	ctx := context.Background()
	gate, accountId, accounts, _, _ := newTestGate(1, false)

	res, err := gate.StartSession(ctx, accountId, "I feel anxious")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Balance)
	assert.Equal(t, "I feel anxious", res.Session.Title)
	require.Len(t, res.Session.Turns, 2)
	assert.Equal(t, companion.RoleUser, res.Session.Turns[0].Role)
	assert.Equal(t, companion.RoleAssistant, res.Session.Turns[1].Role)

	_, err = gate.StartSession(ctx, accountId, "still anxious")
	var insufficient *companion.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Balance)
	assert.Equal(t, 0, accounts.balance(accountId))
}
