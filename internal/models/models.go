package models

import (
	"time"
)

// Record types for finance entries
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// User represents a user in the system
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"` // Password hash, not returned in JSON
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FinanceRecord represents a single income or expense entry owned by a user
type FinanceRecord struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Type        string    `db:"type" json:"type"` // "income" or "expense"
	Category    string    `db:"category" json:"category"`
	Amount      float64   `db:"amount" json:"amount"`
	Description string    `db:"description" json:"description"`
	Date        string    `db:"date" json:"date"` // calendar date, YYYY-MM-DD
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TypeSummary aggregates one record type across all of a user's records
type TypeSummary struct {
	Total float64 `db:"total" json:"total"`
	Count int64   `db:"count" json:"count"`
}

// Summary holds per-type totals plus the resulting balance
type Summary struct {
	Income  TypeSummary `json:"income"`
	Expense TypeSummary `json:"expense"`
	Balance float64     `json:"balance"`
}

// Pagination echoes the window used for a list request
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}
