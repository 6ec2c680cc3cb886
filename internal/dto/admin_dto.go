package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

type AdminUserListItem struct {
	Id            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	CreditBalance int       `json:"credit_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

type AdminUserListResponse struct {
	Users  []AdminUserListItem `json:"users"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

type AdminAdjustCreditsRequest struct {
	Amount int    `json:"amount" validate:"required"`
	Notes  string `json:"notes" validate:"omitempty,max=500"`
}

type AdminUpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type AdminUpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active banned"`
}

type AdminDashboardResponse struct {
	TotalUsers       int64                    `json:"total_users"`
	ActiveUsers      int                      `json:"active_users"`
	BannedUsers      int                      `json:"banned_users"`
	TotalSessions    int64                    `json:"total_sessions"`
	MessagesToday    int64                    `json:"messages_today"`
	CreditsSpent     int64                    `json:"credits_spent"`
	CreditsPurchased int64                    `json:"credits_purchased"`
	UserGrowth       []map[string]interface{} `json:"user_growth"`
}
