package service

import (
	"context"
	"fmt"
	"time"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/entity"
	"mindmate-be/internal/pkg/logger"
	"mindmate-be/internal/repository/specification"
	"mindmate-be/internal/repository/unitofwork"
	"mindmate-be/pkg/events"
	pktNats "mindmate-be/pkg/nats"

	"github.com/google/uuid"
)

type IAdminService interface {
	// User Management
	GetAllUsers(ctx context.Context, limit, offset int, search string) (*dto.AdminUserListResponse, error)
	GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	AdjustCredits(ctx context.Context, adminId, userId uuid.UUID, req *dto.AdminAdjustCreditsRequest) (*dto.CreditBalanceResponse, error)
	UpdateUserRole(ctx context.Context, userId uuid.UUID, role string) error
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error

	// Dashboard
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardResponse, error)

	// Logs
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory     unitofwork.RepositoryFactory
	logger         logger.ILogger
	eventPublisher *pktNats.Publisher
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
	eventPublisher *pktNats.Publisher,
) IAdminService {
	return &adminService{
		uowFactory:     uowFactory,
		logger:         log,
		eventPublisher: eventPublisher,
	}
}

// ============================================================================
// User Management
// ============================================================================

func (s *adminService) GetAllUsers(ctx context.Context, limit, offset int, search string) (*dto.AdminUserListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var users []*entity.User
	var err error
	if search != "" {
		users, err = uow.UserRepository().SearchUsers(ctx, search, limit, offset)
	} else {
		users, err = uow.UserRepository().FindAll(ctx,
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Pagination{Limit: limit, Offset: offset},
		)
	}
	if err != nil {
		return nil, err
	}

	total, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.AdminUserListResponse{
		Users:  make([]dto.AdminUserListItem, 0, len(users)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, u := range users {
		res.Users = append(res.Users, dto.AdminUserListItem{
			Id:            u.Id,
			Email:         u.Email,
			FullName:      u.FullName,
			Role:          string(u.Role),
			Status:        string(u.Status),
			CreditBalance: u.CreditBalance,
			CreatedAt:     u.CreatedAt,
		})
	}
	return res, nil
}

func (s *adminService) GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return userToProfile(user), nil
}

// AdjustCredits adds or removes credits for a user and records the change in
// the ledger. Negative adjustments never push the balance below zero.
func (s *adminService) AdjustCredits(ctx context.Context, adminId, userId uuid.UUID, req *dto.AdminAdjustCreditsRequest) (*dto.CreditBalanceResponse, error) {
	if req.Amount == 0 {
		return nil, fmt.Errorf("amount must not be zero")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	var balance int
	if req.Amount > 0 {
		balance, err = uow.UserRepository().AddCredits(ctx, userId, req.Amount)
		if err != nil {
			return nil, err
		}
	} else {
		var updated bool
		balance, updated, err = uow.UserRepository().DeductCredits(ctx, userId, -req.Amount)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, fmt.Errorf("insufficient balance for adjustment")
		}
	}

	notes := req.Notes
	if notes == "" {
		notes = fmt.Sprintf("Adjusted by admin %s", adminId)
	}
	ledger := &entity.CreditTransaction{
		Id:           uuid.New(),
		UserId:       userId,
		Type:         entity.CreditTransactionAdjustment,
		Amount:       req.Amount,
		BalanceAfter: balance,
		Notes:        &notes,
		RelatedId:    &adminId,
		CreatedAt:    time.Now(),
	}
	if err := uow.CreditTransactionRepository().Create(ctx, ledger); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("AdminService", "Credits adjusted", map[string]interface{}{
		"admin_id": adminId.String(),
		"user_id":  userId.String(),
		"amount":   req.Amount,
		"balance":  balance,
	})

	if req.Amount > 0 {
		s.publishEvent(ctx, entity.NotificationCreditsGranted, map[string]interface{}{
			"user_id":        userId,
			"credits":        req.Amount,
			"credit_balance": balance,
		})
	}

	return &dto.CreditBalanceResponse{CreditBalance: balance}, nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, userId uuid.UUID, role string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	return uow.UserRepository().UpdateRole(ctx, userId, role)
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return err
	}

	s.logger.Info("AdminService", "User status updated", map[string]interface{}{
		"user_id": userId.String(),
		"from":    string(user.Status),
		"to":      status,
	})

	if status == string(entity.UserStatusBanned) && user.Status != entity.UserStatusBanned {
		s.publishEvent(ctx, entity.NotificationAccountBanned, map[string]interface{}{
			"user_id": userId,
		})
	}

	return nil
}

// ============================================================================
// Dashboard
// ============================================================================

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	activeUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusActive))
	if err != nil {
		return nil, err
	}

	bannedUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusBanned))
	if err != nil {
		return nil, err
	}

	totalSessions, err := uow.CompanionSessionRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	messagesToday, err := uow.CompanionMessageRepository().Count(ctx, specification.CreatedSince{Since: startOfDay})
	if err != nil {
		return nil, err
	}

	creditsSpent, err := uow.CreditTransactionRepository().SumByType(ctx, entity.CreditTransactionUsage)
	if err != nil {
		return nil, err
	}

	creditsPurchased, err := uow.CreditTransactionRepository().SumByType(ctx, entity.CreditTransactionPurchase)
	if err != nil {
		return nil, err
	}

	growth, err := uow.UserRepository().GetUserGrowth(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardResponse{
		TotalUsers:       totalUsers,
		ActiveUsers:      activeUsers,
		BannedUsers:      bannedUsers,
		TotalSessions:    totalSessions,
		MessagesToday:    messagesToday,
		CreditsSpent:     creditsSpent,
		CreditsPurchased: creditsPurchased,
		UserGrowth:       growth,
	}, nil
}

// ============================================================================
// Logs
// ============================================================================

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	entries, err := s.logger.GetLogs(level, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, &dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Timestamp: e.Timestamp,
		})
	}
	return res, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("log not found")
	}

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        entry.Id,
			Level:     entry.Level,
			Module:    entry.Module,
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		},
		Details: entry.Details,
	}, nil
}

func (s *adminService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("AdminService", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
