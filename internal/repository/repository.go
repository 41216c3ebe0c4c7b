package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/akuteman/finance-tracker/internal/models"
	"github.com/jmoiron/sqlx"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// Finance record operations
	CreateFinanceRecord(ctx context.Context, record *models.FinanceRecord) error
	GetFinanceRecord(ctx context.Context, userID, recordID int64) (*models.FinanceRecord, error)
	ListFinanceRecords(ctx context.Context, userID int64, q models.ListFinanceQuery) ([]models.FinanceRecord, error)
	SummarizeFinance(ctx context.Context, userID int64) (*models.Summary, error)
	UpdateFinanceRecord(ctx context.Context, record *models.FinanceRecord) error
	DeleteFinanceRecord(ctx context.Context, userID, recordID int64) error
}

// SQLRepository implements the Repository interface on top of sqlx. Queries
// use ? placeholders and are passed through Rebind, so the same code runs
// against PostgreSQL in production and sqlite in tests.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a new SQL-backed repository
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *SQLRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *SQLRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := r.db.Rebind(`
		INSERT INTO users (email, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	return r.db.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.db.Rebind(`SELECT * FROM users WHERE email = ?`)

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := r.db.Rebind(`SELECT * FROM users WHERE id = ?`)

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Finance repository methods
func (r *SQLRepository) CreateFinanceRecord(ctx context.Context, record *models.FinanceRecord) error {
	query := r.db.Rebind(`
		INSERT INTO finance (user_id, type, category, amount, description, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	return r.db.QueryRowContext(ctx, query,
		record.UserID, record.Type, record.Category, record.Amount,
		record.Description, record.Date, record.CreatedAt, record.UpdatedAt).Scan(&record.ID)
}

// GetFinanceRecord fetches a record by id scoped to its owner. Filtering on
// both id and user_id is what makes cross-user access impossible.
func (r *SQLRepository) GetFinanceRecord(ctx context.Context, userID, recordID int64) (*models.FinanceRecord, error) {
	query := r.db.Rebind(`SELECT * FROM finance WHERE id = ? AND user_id = ?`)

	var record models.FinanceRecord
	err := r.db.GetContext(ctx, &record, query, recordID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Record not found (or owned by someone else)
		}
		return nil, err
	}

	return &record, nil
}

func (r *SQLRepository) ListFinanceRecords(
	ctx context.Context,
	userID int64,
	q models.ListFinanceQuery,
) ([]models.FinanceRecord, error) {
	query := `SELECT * FROM finance WHERE user_id = ?`
	args := []interface{}{userID}

	if q.Type == models.TypeIncome || q.Type == models.TypeExpense {
		query += ` AND type = ?`
		args = append(args, q.Type)
	}

	query += ` ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset)

	records := []models.FinanceRecord{}
	err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// SummarizeFinance aggregates over all of the user's records, regardless of
// any pagination window or type filter applied to the listing itself.
func (r *SQLRepository) SummarizeFinance(ctx context.Context, userID int64) (*models.Summary, error) {
	query := r.db.Rebind(`
		SELECT type, SUM(amount) AS total, COUNT(*) AS count
		FROM finance
		WHERE user_id = ?
		GROUP BY type
	`)

	rows := []struct {
		Type  string  `db:"type"`
		Total float64 `db:"total"`
		Count int64   `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	summary := &models.Summary{}
	for _, row := range rows {
		switch row.Type {
		case models.TypeIncome:
			summary.Income = models.TypeSummary{Total: row.Total, Count: row.Count}
		case models.TypeExpense:
			summary.Expense = models.TypeSummary{Total: row.Total, Count: row.Count}
		}
	}
	summary.Balance = summary.Income.Total - summary.Expense.Total

	return summary, nil
}

func (r *SQLRepository) UpdateFinanceRecord(ctx context.Context, record *models.FinanceRecord) error {
	query := r.db.Rebind(`
		UPDATE finance
		SET type = ?, category = ?, amount = ?, description = ?, date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`)

	record.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		record.Type, record.Category, record.Amount, record.Description,
		record.Date, record.UpdatedAt, record.ID, record.UserID)

	return err
}

func (r *SQLRepository) DeleteFinanceRecord(ctx context.Context, userID, recordID int64) error {
	query := r.db.Rebind(`DELETE FROM finance WHERE id = ? AND user_id = ?`)

	_, err := r.db.ExecContext(ctx, query, recordID, userID)
	return err
}
