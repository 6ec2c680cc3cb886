package service

import (
	"context"
	"testing"
	"time"

	"mindmate-be/internal/entity"
	"mindmate-be/internal/model"
	"mindmate-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeNotificationRepo struct {
	created []*model.Notification
}

func (f *fakeNotificationRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type recordingDelivery struct {
	sent []model.Notification
}

func (r *recordingDelivery) Send(userID uuid.UUID, n model.Notification) {
	r.sent = append(r.sent, n)
}

func (r *recordingDelivery) Broadcast(n model.Notification) {}

func TestHandleEventRendersTemplate(t *testing.T) {
	repo := &fakeNotificationRepo{}
	delivery := &recordingDelivery{}
	svc := NewNotificationService(repo, nil, delivery, noopLogger{})

	userId := uuid.New()
	event := events.BaseEvent{
		Type: entity.NotificationCreditsGranted,
		Data: map[string]interface{}{
			"user_id":        userId.String(),
			"credits":        150,
			"credit_balance": 163,
		},
		OccurredAt: time.Now(),
	}

	err := svc.handleEvent(context.Background(), event)

	assert.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, userId, repo.created[0].UserId)
	assert.Equal(t, "150 credits were added to your account. New balance: 163.", repo.created[0].Message)
	assert.Len(t, delivery.sent, 1)
}

func TestHandleEventStripsSubjectPrefix(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil, noopLogger{})

	event := events.BaseEvent{
		Type: "events." + entity.NotificationLowCredits,
		Data: map[string]interface{}{"user_id": uuid.New().String(), "credit_balance": 3},
	}

	err := svc.handleEvent(context.Background(), event)

	assert.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, entity.NotificationLowCredits, repo.created[0].TypeCode)
}

func TestHandleEventIgnoresAuditOnlyTypes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil, noopLogger{})

	event := events.BaseEvent{
		Type: "USER_LOGIN",
		Data: map[string]interface{}{"user_id": uuid.New().String()},
	}

	err := svc.handleEvent(context.Background(), event)

	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestHandleEventSkipsMissingUserId(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil, noopLogger{})

	event := events.BaseEvent{
		Type: entity.NotificationWelcome,
		Data: map[string]interface{}{"credits": 25},
	}

	err := svc.handleEvent(context.Background(), event)

	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestPayloadUserIDVariants(t *testing.T) {
	id := uuid.New()

	got, ok := payloadUserID(map[string]interface{}{"user_id": id.String()})
	assert.True(t, ok)
	assert.Equal(t, id, got)

	got, ok = payloadUserID(map[string]interface{}{"user_id": id})
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = payloadUserID(map[string]interface{}{"user_id": "not-a-uuid"})
	assert.False(t, ok)

	_, ok = payloadUserID(map[string]interface{}{})
	assert.False(t, ok)
}
