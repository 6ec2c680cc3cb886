package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/pkg/serverutils"
	"mindmate-be/pkg/companion"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeCompanionService struct {
	startRes   *dto.StartSessionResponse
	startErr   error
	messageRes *dto.PostMessageResponse
	messageErr error

	lastUserId    uuid.UUID
	lastSessionId uuid.UUID
}

func (f *fakeCompanionService) StartSession(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	f.lastUserId = userId
	return f.startRes, f.startErr
}

func (f *fakeCompanionService) PostMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.PostMessageRequest) (*dto.PostMessageResponse, error) {
	f.lastUserId = userId
	f.lastSessionId = sessionId
	return f.messageRes, f.messageErr
}

func (f *fakeCompanionService) RenameSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.RenameSessionRequest) error {
	return nil
}

func (f *fakeCompanionService) ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error) {
	return nil, nil
}

func (f *fakeCompanionService) GetTranscript(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.TranscriptResponse, error) {
	return nil, nil
}

func signTestToken(t *testing.T, userId uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId.String(),
		"role":    "user",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func newCompanionApp(svc *fakeCompanionService) *fiber.App {
	app := fiber.New()
	ctrl := NewCompanionController(svc, serverutils.NewRateLimiter(100, 100))
	ctrl.RegisterRoutes(app.Group("/api"))
	return app
}

func TestStartSessionRequiresToken(t *testing.T) {
	app := newCompanionApp(&fakeCompanionService{})

	req := httptest.NewRequest("POST", "/api/companion/v1/sessions", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestStartSessionCreated(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userId := uuid.New()
	svc := &fakeCompanionService{
		startRes: &dto.StartSessionResponse{
			SessionId:     uuid.New(),
			Title:         "New conversation",
			CreditBalance: 24,
		},
	}
	app := newCompanionApp(svc)

	req := httptest.NewRequest("POST", "/api/companion/v1/sessions", strings.NewReader(`{"first_message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, userId))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, userId, svc.lastUserId)
}

func TestPostMessagePaywall(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := &fakeCompanionService{
		messageErr: &companion.InsufficientCreditsError{Balance: 0},
	}
	app := newCompanionApp(svc)

	sessionId := uuid.New()
	req := httptest.NewRequest("POST", "/api/companion/v1/sessions/"+sessionId.String()+"/messages", strings.NewReader(`{"content":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, uuid.New()))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var parsed serverutils.BaseResponse[map[string]int]
	assert.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, 0, parsed.Data["credit_balance"])
	assert.Equal(t, sessionId, svc.lastSessionId)
}

func TestPostMessageBadSessionIdIs404(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	app := newCompanionApp(&fakeCompanionService{})

	req := httptest.NewRequest("POST", "/api/companion/v1/sessions/not-a-uuid/messages", strings.NewReader(`{"content":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, uuid.New()))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetTranscriptOtherUsersSessionIs404(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := &fakeCompanionService{}
	app := newCompanionApp(svc)

	// The service hides foreign sessions behind the same not-found error
	svc.messageErr = companion.ErrNotFound

	req := httptest.NewRequest("POST", "/api/companion/v1/sessions/"+uuid.NewString()+"/messages", strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, uuid.New()))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
