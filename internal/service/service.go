package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akuteman/finance-tracker/internal/auth"
	"github.com/akuteman/finance-tracker/internal/config"
	"github.com/akuteman/finance-tracker/internal/models"
	"github.com/akuteman/finance-tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors mapped to HTTP statuses at the handler boundary
var (
	ErrInvalidInvitation  = errors.New("invalid invitation code")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrRecordNotFound     = errors.New("finance record not found")
)

// ValidationError reports malformed input that survived request binding
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Service defines all the business logic operations
type Service interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthData, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthData, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)

	// Finance records
	ListFinance(ctx context.Context, userID int64, q models.ListFinanceQuery) (*models.FinanceListData, error)
	CreateFinance(ctx context.Context, userID int64, req models.FinanceRequest) (*models.FinanceRecord, error)
	UpdateFinance(ctx context.Context, userID, recordID int64, req models.FinanceRequest) (*models.FinanceRecord, error)
	DeleteFinance(ctx context.Context, userID, recordID int64) error
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo      repository.Repository
	jwtSecret []byte
	authCfg   config.AuthConfig
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, authCfg config.AuthConfig) Service {
	return &DefaultService{
		repo:      repo,
		jwtSecret: []byte(authCfg.JWTSecret),
		authCfg:   authCfg,
	}
}

// Authentication methods
func (s *DefaultService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthData, error) {
	// Validate the invitation code before touching the database
	if req.InvitationCode != s.authCfg.InvitationCode {
		return nil, ErrInvalidInvitation
	}

	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.authCfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	// Create the user
	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.IssueToken(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthData{User: user, Token: token}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthData, error) {
	// Get the user
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	// Unknown email and wrong password answer identically
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthData{User: user, Token: token}, nil
}

func (s *DefaultService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// Finance methods
func (s *DefaultService) ListFinance(
	ctx context.Context,
	userID int64,
	q models.ListFinanceQuery,
) (*models.FinanceListData, error) {
	records, err := s.repo.ListFinanceRecords(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("error listing finance records: %w", err)
	}

	// Summary covers all of the user's records, not just the current page
	summary, err := s.repo.SummarizeFinance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error summarizing finance records: %w", err)
	}

	return &models.FinanceListData{
		Records: records,
		Summary: *summary,
		Pagination: models.Pagination{
			Limit:  q.Limit,
			Offset: q.Offset,
			Total:  len(records),
		},
	}, nil
}

func (s *DefaultService) CreateFinance(
	ctx context.Context,
	userID int64,
	req models.FinanceRequest,
) (*models.FinanceRecord, error) {
	cleaned, err := normalizeFinanceRequest(req)
	if err != nil {
		return nil, err
	}

	record := &models.FinanceRecord{
		UserID:      userID,
		Type:        cleaned.Type,
		Category:    cleaned.Category,
		Amount:      cleaned.Amount,
		Description: cleaned.Description,
		Date:        cleaned.Date,
	}

	if err := s.repo.CreateFinanceRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("error creating finance record: %w", err)
	}

	return record, nil
}

func (s *DefaultService) UpdateFinance(
	ctx context.Context,
	userID int64,
	recordID int64,
	req models.FinanceRequest,
) (*models.FinanceRecord, error) {
	// Ownership check before any mutation
	existing, err := s.repo.GetFinanceRecord(ctx, userID, recordID)
	if err != nil {
		return nil, fmt.Errorf("error getting finance record: %w", err)
	}

	if existing == nil {
		return nil, ErrRecordNotFound
	}

	cleaned, err := normalizeFinanceRequest(req)
	if err != nil {
		return nil, err
	}

	existing.Type = cleaned.Type
	existing.Category = cleaned.Category
	existing.Amount = cleaned.Amount
	existing.Description = cleaned.Description
	existing.Date = cleaned.Date

	if err := s.repo.UpdateFinanceRecord(ctx, existing); err != nil {
		return nil, fmt.Errorf("error updating finance record: %w", err)
	}

	return existing, nil
}

func (s *DefaultService) DeleteFinance(ctx context.Context, userID, recordID int64) error {
	existing, err := s.repo.GetFinanceRecord(ctx, userID, recordID)
	if err != nil {
		return fmt.Errorf("error getting finance record: %w", err)
	}

	if existing == nil {
		return ErrRecordNotFound
	}

	if err := s.repo.DeleteFinanceRecord(ctx, userID, recordID); err != nil {
		return fmt.Errorf("error deleting finance record: %w", err)
	}

	return nil
}

// normalizeFinanceRequest applies the validation shared by create and update:
// trims category and description, rejects blank categories, and defaults the
// date to today (UTC) when absent.
func normalizeFinanceRequest(req models.FinanceRequest) (models.FinanceRequest, error) {
	if req.Type != models.TypeIncome && req.Type != models.TypeExpense {
		return req, ValidationError("Invalid type")
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		return req, ValidationError("Invalid category")
	}

	if req.Amount <= 0 {
		return req, ValidationError("Invalid amount")
	}

	req.Description = strings.TrimSpace(req.Description)

	if req.Date == "" {
		req.Date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return req, ValidationError("Invalid date")
	}

	return req, nil
}
