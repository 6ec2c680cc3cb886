package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"os"
	"time"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/entity"
	"mindmate-be/internal/pkg/logger"
	"mindmate-be/internal/repository/specification"
	"mindmate-be/internal/repository/unitofwork"

	"mindmate-be/pkg/events"
	pktNats "mindmate-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// creditPacks is the purchasable catalog. Amounts are IDR.
var creditPacks = []entity.CreditPack{
	{Code: "starter", Name: "Starter Pack", Credits: 50, GrossAmount: 25000},
	{Code: "regular", Name: "Regular Pack", Credits: 150, GrossAmount: 60000},
	{Code: "deep", Name: "Deep Dive Pack", Credits: 400, GrossAmount: 140000},
}

type IPaymentService interface {
	GetCreditPacks(ctx context.Context) ([]*dto.CreditPackResponse, error)
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
	GetPaymentHistory(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentHistoryResponse, error)
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func findCreditPack(code string) *entity.CreditPack {
	for i := range creditPacks {
		if creditPacks[i].Code == code {
			return &creditPacks[i]
		}
	}
	return nil
}

func (s *paymentService) GetCreditPacks(ctx context.Context) ([]*dto.CreditPackResponse, error) {
	res := make([]*dto.CreditPackResponse, 0, len(creditPacks))
	for _, p := range creditPacks {
		res = append(res, &dto.CreditPackResponse{
			Code:        p.Code,
			Name:        p.Name,
			Credits:     p.Credits,
			GrossAmount: p.GrossAmount,
		})
	}
	return res, nil
}

func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	pack := findCreditPack(req.PackCode)
	if pack == nil {
		return nil, errors.New("credit pack not found")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	orderId := uuid.New().String()
	record := &entity.PaymentRecord{
		Id:          uuid.New(),
		UserId:      userId,
		OrderId:     orderId,
		PackCode:    pack.Code,
		Credits:     pack.Credits,
		GrossAmount: pack.GrossAmount,
		Status:      entity.PaymentStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := uow.PaymentRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	// Midtrans calls happen outside the DB write.
	var sClient snap.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(serverKey, env)

	frontendURL := os.Getenv("FRONTEND_URL")
	finishRedirectURL := fmt.Sprintf("%s/app?payment=success", frontendURL)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: pack.GrossAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    pack.Code,
				Price: pack.GrossAmount,
				Qty:   1,
				Name:  pack.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	record.SnapToken = &snapResp.Token
	if err := uow.PaymentRepository().Update(ctx, record); err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		OrderId:         orderId,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	s.logger.Info("PaymentService", "Webhook received", map[string]interface{}{
		"order_id": req.OrderId,
		"status":   req.TransactionStatus,
	})

	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		s.logger.Error("PaymentService", "MIDTRANS_SERVER_KEY not configured", nil)
		return fmt.Errorf("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))

	if req.SignatureKey != expectedSignature {
		s.logger.Warn("PaymentService", "Webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return fmt.Errorf("invalid signature")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.PaymentRepository().FindOne(ctx, specification.ByOrderID{OrderID: req.OrderId})
	if err != nil {
		return err
	}
	if record == nil {
		s.logger.Warn("PaymentService", "Webhook for unknown order", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return fmt.Errorf("payment not found")
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		return s.settlePayment(ctx, uow, record)
	case "deny", "cancel":
		return uow.PaymentRepository().MarkStatus(ctx, record.OrderId, entity.PaymentStatusFailed)
	case "expire":
		return uow.PaymentRepository().MarkStatus(ctx, record.OrderId, entity.PaymentStatusExpired)
	case "pending":
		return nil
	default:
		s.logger.Info("PaymentService", "Webhook status ignored", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}
}

// settlePayment grants the purchased credits exactly once. MarkPaid only
// transitions pending records, so replayed webhooks never double-grant.
func (s *paymentService) settlePayment(ctx context.Context, uow unitofwork.UnitOfWork, record *entity.PaymentRecord) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	transitioned, err := uow.PaymentRepository().MarkPaid(ctx, record.OrderId)
	if err != nil {
		return err
	}
	if !transitioned {
		s.logger.Info("PaymentService", "Order already settled, skipping grant", map[string]interface{}{
			"order_id": record.OrderId,
		})
		return uow.Commit()
	}

	balance, err := uow.UserRepository().AddCredits(ctx, record.UserId, record.Credits)
	if err != nil {
		return err
	}

	notes := fmt.Sprintf("Purchase: %s", record.PackCode)
	ledger := &entity.CreditTransaction{
		Id:           uuid.New(),
		UserId:       record.UserId,
		Type:         entity.CreditTransactionPurchase,
		Amount:       record.Credits,
		BalanceAfter: balance,
		Notes:        &notes,
		RelatedId:    &record.Id,
		CreatedAt:    time.Now(),
	}
	if err := uow.CreditTransactionRepository().Create(ctx, ledger); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: entity.NotificationCreditsGranted,
			Data: map[string]interface{}{
				"user_id":        record.UserId,
				"credits":        record.Credits,
				"pack_code":      record.PackCode,
				"credit_balance": balance,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PaymentService", "Failed to publish event", map[string]interface{}{
				"event": entity.NotificationCreditsGranted,
				"error": err.Error(),
			})
		}
	}

	s.logger.Info("PaymentService", "Order settled", map[string]interface{}{
		"order_id": record.OrderId,
		"credits":  record.Credits,
	})
	return nil
}

func (s *paymentService) GetPaymentHistory(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	records, err := uow.PaymentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.PaymentHistoryResponse, 0, len(records))
	for _, r := range records {
		response = append(response, &dto.PaymentHistoryResponse{
			Id:          r.Id,
			OrderId:     r.OrderId,
			PackCode:    r.PackCode,
			Credits:     r.Credits,
			GrossAmount: r.GrossAmount,
			Status:      string(r.Status),
			PaidAt:      r.PaidAt,
			CreatedAt:   r.CreatedAt,
		})
	}
	return response, nil
}
