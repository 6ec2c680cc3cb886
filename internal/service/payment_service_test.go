package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/entity"
	"mindmate-be/internal/repository/contract"
	"mindmate-be/internal/repository/specification"
	"mindmate-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePaymentRepo struct {
	contract.PaymentRepository

	record       *entity.PaymentRecord
	markPaidHits int
	transitioned bool
	statusSet    entity.PaymentStatus
}

func (f *fakePaymentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentRecord, error) {
	return f.record, nil
}

func (f *fakePaymentRepo) MarkPaid(ctx context.Context, orderId string) (bool, error) {
	f.markPaidHits++
	return f.transitioned, nil
}

func (f *fakePaymentRepo) MarkStatus(ctx context.Context, orderId string, status entity.PaymentStatus) error {
	f.statusSet = status
	return nil
}

type fakeUserRepo struct {
	contract.UserRepository

	balance      int
	creditsAdded int
}

func (f *fakeUserRepo) AddCredits(ctx context.Context, userId uuid.UUID, amount int) (int, error) {
	f.creditsAdded += amount
	f.balance += amount
	return f.balance, nil
}

type fakeLedgerRepo struct {
	contract.CreditTransactionRepository

	rows []*entity.CreditTransaction
}

func (f *fakeLedgerRepo) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	f.rows = append(f.rows, tx)
	return nil
}

type fakePaymentUow struct {
	unitofwork.UnitOfWork

	payments *fakePaymentRepo
	users    *fakeUserRepo
	ledger   *fakeLedgerRepo

	commits   int
	rollbacks int
}

func (f *fakePaymentUow) Begin(ctx context.Context) error { return nil }
func (f *fakePaymentUow) Commit() error                   { f.commits++; return nil }
func (f *fakePaymentUow) Rollback() error                 { f.rollbacks++; return nil }

func (f *fakePaymentUow) PaymentRepository() contract.PaymentRepository { return f.payments }
func (f *fakePaymentUow) UserRepository() contract.UserRepository       { return f.users }
func (f *fakePaymentUow) CreditTransactionRepository() contract.CreditTransactionRepository {
	return f.ledger
}

type fakePaymentFactory struct {
	uow *fakePaymentUow
}

func (f *fakePaymentFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func midtransSignature(orderId, statusCode, grossAmount, serverKey string) string {
	return fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+serverKey)))
}

func newPaymentFixture(record *entity.PaymentRecord, transitioned bool) (*fakePaymentUow, IPaymentService) {
	uow := &fakePaymentUow{
		payments: &fakePaymentRepo{record: record, transitioned: transitioned},
		users:    &fakeUserRepo{balance: 13},
		ledger:   &fakeLedgerRepo{},
	}
	return uow, NewPaymentService(&fakePaymentFactory{uow: uow}, nil, noopLogger{})
}

func TestGetCreditPacksCatalog(t *testing.T) {
	_, svc := newPaymentFixture(nil, false)

	packs, err := svc.GetCreditPacks(context.Background())

	assert.NoError(t, err)
	assert.Len(t, packs, 3)
	assert.Equal(t, "starter", packs[0].Code)
	assert.Equal(t, 50, packs[0].Credits)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "sk-test")
	_, svc := newPaymentFixture(nil, false)

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		TransactionStatus: "settlement",
		OrderId:           "order-1",
		StatusCode:        "200",
		GrossAmount:       "60000.00",
		SignatureKey:      "forged",
	})

	assert.EqualError(t, err, "invalid signature")
}

func TestWebhookSettlementGrantsOnce(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "sk-test")

	record := &entity.PaymentRecord{
		Id:       uuid.New(),
		UserId:   uuid.New(),
		OrderId:  "order-1",
		PackCode: "regular",
		Credits:  150,
		Status:   entity.PaymentStatusPending,
	}
	uow, svc := newPaymentFixture(record, true)

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		TransactionStatus: "settlement",
		OrderId:           "order-1",
		StatusCode:        "200",
		GrossAmount:       "60000.00",
		SignatureKey:      midtransSignature("order-1", "200", "60000.00", "sk-test"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 150, uow.users.creditsAdded)
	assert.Equal(t, 1, uow.commits)

	assert.Len(t, uow.ledger.rows, 1)
	row := uow.ledger.rows[0]
	assert.Equal(t, entity.CreditTransactionPurchase, row.Type)
	assert.Equal(t, 150, row.Amount)
	assert.Equal(t, record.UserId, row.UserId)
}

func TestWebhookReplaySkipsGrant(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "sk-test")

	record := &entity.PaymentRecord{
		Id:      uuid.New(),
		UserId:  uuid.New(),
		OrderId: "order-1",
		Credits: 150,
		Status:  entity.PaymentStatusPaid,
	}
	// MarkPaid reports no transition: the record was already settled
	uow, svc := newPaymentFixture(record, false)

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		TransactionStatus: "settlement",
		OrderId:           "order-1",
		StatusCode:        "200",
		GrossAmount:       "60000.00",
		SignatureKey:      midtransSignature("order-1", "200", "60000.00", "sk-test"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, uow.users.creditsAdded)
	assert.Empty(t, uow.ledger.rows)
}

func TestWebhookExpiryMarksRecord(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "sk-test")

	record := &entity.PaymentRecord{OrderId: "order-2", Status: entity.PaymentStatusPending}
	uow, svc := newPaymentFixture(record, false)

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		TransactionStatus: "expire",
		OrderId:           "order-2",
		StatusCode:        "407",
		GrossAmount:       "25000.00",
		SignatureKey:      midtransSignature("order-2", "407", "25000.00", "sk-test"),
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusExpired, uow.payments.statusSet)
	assert.Equal(t, 0, uow.payments.markPaidHits)
}
