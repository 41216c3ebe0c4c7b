package models

// Request models
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Name           string `json:"name" binding:"required"`
	InvitationCode string `json:"invitationCode" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type FinanceRequest struct {
	Type        string  `json:"type" binding:"required,oneof=income expense"`
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
	Date        string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ListFinanceQuery holds the (already parsed) query parameters for list requests
type ListFinanceQuery struct {
	Type   string
	Limit  int
	Offset int
}

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// AuthData is returned from register and login
type AuthData struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UserData wraps the authenticated user for /auth/me
type UserData struct {
	User *User `json:"user"`
}

// FinanceListData is the payload of a finance list response
type FinanceListData struct {
	Records    []FinanceRecord `json:"records"`
	Summary    Summary         `json:"summary"`
	Pagination Pagination      `json:"pagination"`
}
