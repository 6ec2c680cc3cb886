package service

import (
	"context"
	"fmt"
	"strings"

	"mindmate-be/internal/dto"
	"mindmate-be/internal/entity"
	"mindmate-be/internal/pkg/logger"
	"mindmate-be/internal/repository/specification"
	"mindmate-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetCreditBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error)
	GetCreditHistory(ctx context.Context, userId uuid.UUID) ([]*dto.CreditTransactionResponse, error)
	DeleteAccount(ctx context.Context, userId uuid.UUID, req *dto.DeleteAccountRequest) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IUserService {
	return &userService{uowFactory: uowFactory, logger: log}
}

func (us *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := us.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return userToProfile(user), nil
}

func (us *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := us.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	newEmail := strings.ToLower(strings.TrimSpace(req.Email))
	if newEmail != "" && newEmail != user.Email {
		existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: newEmail})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("email already in use")
		}
		user.Email = newEmail
	}

	user.FullName = strings.TrimSpace(req.FullName)

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return userToProfile(user), nil
}

func (us *userService) GetCreditBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error) {
	uow := us.uowFactory.NewUnitOfWork(ctx)

	balance, err := uow.UserRepository().GetCreditBalance(ctx, userId)
	if err != nil {
		return nil, err
	}

	spent, err := uow.CreditTransactionRepository().SumSpentSince(ctx, userId, 30)
	if err != nil {
		return nil, err
	}

	return &dto.CreditBalanceResponse{
		CreditBalance:  balance,
		SpentLast30Day: spent,
	}, nil
}

func (us *userService) GetCreditHistory(ctx context.Context, userId uuid.UUID) ([]*dto.CreditTransactionResponse, error) {
	uow := us.uowFactory.NewUnitOfWork(ctx)

	transactions, err := uow.CreditTransactionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.CreditTransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		notes := ""
		if tx.Notes != nil {
			notes = *tx.Notes
		}
		response = append(response, &dto.CreditTransactionResponse{
			Id:           tx.Id,
			Type:         string(tx.Type),
			Amount:       tx.Amount,
			BalanceAfter: tx.BalanceAfter,
			Notes:        notes,
			CreatedAt:    tx.CreatedAt,
		})
	}
	return response, nil
}

// DeleteAccount soft-deletes the account. Password accounts must confirm
// their password; OAuth-only accounts have no password to confirm.
func (us *userService) DeleteAccount(ctx context.Context, userId uuid.UUID, req *dto.DeleteAccountRequest) error {
	uow := us.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if user.PasswordHash != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
			return fmt.Errorf("invalid password")
		}
	}

	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return err
	}

	us.logger.Info("user_service", "Account deleted", map[string]interface{}{"user_id": userId.String()})
	return nil
}

func userToProfile(user *entity.User) *dto.UserProfileResponse {
	avatar := ""
	if user.AvatarURL != nil {
		avatar = *user.AvatarURL
	}
	return &dto.UserProfileResponse{
		Id:            user.Id,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          string(user.Role),
		Status:        string(user.Status),
		AvatarURL:     avatar,
		CreditBalance: user.CreditBalance,
		CreatedAt:     user.CreatedAt,
	}
}
