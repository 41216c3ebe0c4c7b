package repository_test

import (
	"context"
	"testing"

	"github.com/akuteman/finance-tracker/internal/api/testutils"
	"github.com/akuteman/finance-tracker/internal/models"
	"github.com/akuteman/finance-tracker/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite runs the repository against an in-memory database
type RepositoryTestSuite struct {
	suite.Suite
	db   *sqlx.DB
	repo *repository.SQLRepository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.db = testutils.SetupTestDB(s.T())
	s.repo = repository.NewSQLRepository(s.db)
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *RepositoryTestSuite) createUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(s.T(), s.repo.CreateUser(s.ctx, user))
	return user
}

func (s *RepositoryTestSuite) createRecord(userID int64, recordType, category string, amount float64, date string) *models.FinanceRecord {
	record := &models.FinanceRecord{
		UserID:   userID,
		Type:     recordType,
		Category: category,
		Amount:   amount,
		Date:     date,
	}
	require.NoError(s.T(), s.repo.CreateFinanceRecord(s.ctx, record))
	return record
}

func (s *RepositoryTestSuite) TestCreateUserAssignsIDAndTimestamps() {
	user := s.createUser("alice@example.com")

	assert.NotZero(s.T(), user.ID)
	assert.False(s.T(), user.CreatedAt.IsZero())
	assert.False(s.T(), user.UpdatedAt.IsZero())
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	s.createUser("alice@example.com")

	dup := &models.User{
		Email:        "alice@example.com",
		Name:         "Imposter",
		PasswordHash: "hash",
	}
	err := s.repo.CreateUser(s.ctx, dup)
	assert.Error(s.T(), err, "unique constraint should reject the second insert")

	// The original row is untouched
	user, err := s.repo.GetUserByEmail(s.ctx, "alice@example.com")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), user)
	assert.Equal(s.T(), "Test User", user.Name)
}

func (s *RepositoryTestSuite) TestGetUserByEmailAbsent() {
	user, err := s.repo.GetUserByEmail(s.ctx, "nobody@example.com")
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), user)
}

func (s *RepositoryTestSuite) TestGetUserByID() {
	created := s.createUser("alice@example.com")

	user, err := s.repo.GetUserByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), user)
	assert.Equal(s.T(), created.Email, user.Email)

	absent, err := s.repo.GetUserByID(s.ctx, created.ID+1000)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), absent)
}

func (s *RepositoryTestSuite) TestFinanceRecordOwnershipScoping() {
	alice := s.createUser("alice@example.com")
	bob := s.createUser("bob@example.com")

	record := s.createRecord(alice.ID, models.TypeIncome, "Salary", 5000, "2024-01-01")

	// Owner can read it
	found, err := s.repo.GetFinanceRecord(s.ctx, alice.ID, record.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.Equal(s.T(), record.ID, found.ID)

	// Anyone else gets nothing, even with the right id
	foreign, err := s.repo.GetFinanceRecord(s.ctx, bob.ID, record.ID)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), foreign)
}

func (s *RepositoryTestSuite) TestListFinanceRecordsOrderingAndPaging() {
	alice := s.createUser("alice@example.com")
	s.createRecord(alice.ID, models.TypeExpense, "Rent", 1500, "2024-01-02")
	s.createRecord(alice.ID, models.TypeIncome, "Salary", 5000, "2024-01-01")
	s.createRecord(alice.ID, models.TypeExpense, "Groceries", 80, "2024-01-03")

	records, err := s.repo.ListFinanceRecords(s.ctx, alice.ID, models.ListFinanceQuery{Limit: 50})
	require.NoError(s.T(), err)
	require.Len(s.T(), records, 3)

	// Most recent date first
	assert.Equal(s.T(), "2024-01-03", records[0].Date)
	assert.Equal(s.T(), "2024-01-02", records[1].Date)
	assert.Equal(s.T(), "2024-01-01", records[2].Date)

	// Pagination window
	page, err := s.repo.ListFinanceRecords(s.ctx, alice.ID, models.ListFinanceQuery{Limit: 1, Offset: 1})
	require.NoError(s.T(), err)
	require.Len(s.T(), page, 1)
	assert.Equal(s.T(), "2024-01-02", page[0].Date)
}

func (s *RepositoryTestSuite) TestListFinanceRecordsTypeFilter() {
	alice := s.createUser("alice@example.com")
	s.createRecord(alice.ID, models.TypeIncome, "Salary", 5000, "2024-01-01")
	s.createRecord(alice.ID, models.TypeExpense, "Rent", 1500, "2024-01-02")

	incomes, err := s.repo.ListFinanceRecords(s.ctx, alice.ID, models.ListFinanceQuery{Type: models.TypeIncome, Limit: 50})
	require.NoError(s.T(), err)
	require.Len(s.T(), incomes, 1)
	assert.Equal(s.T(), "Salary", incomes[0].Category)

	// Unknown filter values are ignored rather than rejected
	all, err := s.repo.ListFinanceRecords(s.ctx, alice.ID, models.ListFinanceQuery{Type: "bogus", Limit: 50})
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 2)
}

func (s *RepositoryTestSuite) TestSummarizeFinance() {
	alice := s.createUser("alice@example.com")
	bob := s.createUser("bob@example.com")

	s.createRecord(alice.ID, models.TypeIncome, "Salary", 5000, "2024-01-01")
	s.createRecord(alice.ID, models.TypeExpense, "Rent", 1500, "2024-01-02")
	s.createRecord(alice.ID, models.TypeExpense, "Groceries", 500, "2024-01-03")

	// Bob's records must not leak into Alice's summary
	s.createRecord(bob.ID, models.TypeIncome, "Salary", 9999, "2024-01-01")

	summary, err := s.repo.SummarizeFinance(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.TypeSummary{Total: 5000, Count: 1}, summary.Income)
	assert.Equal(s.T(), models.TypeSummary{Total: 2000, Count: 2}, summary.Expense)
	assert.Equal(s.T(), float64(3000), summary.Balance)
}

func (s *RepositoryTestSuite) TestSummarizeFinanceEmpty() {
	alice := s.createUser("alice@example.com")

	summary, err := s.repo.SummarizeFinance(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.TypeSummary{}, summary.Income)
	assert.Equal(s.T(), models.TypeSummary{}, summary.Expense)
	assert.Zero(s.T(), summary.Balance)
}

func (s *RepositoryTestSuite) TestUpdateFinanceRecord() {
	alice := s.createUser("alice@example.com")
	record := s.createRecord(alice.ID, models.TypeExpense, "Rent", 1500, "2024-01-02")

	record.Category = "Housing"
	record.Amount = 1600
	require.NoError(s.T(), s.repo.UpdateFinanceRecord(s.ctx, record))

	stored, err := s.repo.GetFinanceRecord(s.ctx, alice.ID, record.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), stored)
	assert.Equal(s.T(), "Housing", stored.Category)
	assert.Equal(s.T(), float64(1600), stored.Amount)
}

func (s *RepositoryTestSuite) TestDeleteFinanceRecordScoped() {
	alice := s.createUser("alice@example.com")
	bob := s.createUser("bob@example.com")
	record := s.createRecord(alice.ID, models.TypeExpense, "Rent", 1500, "2024-01-02")

	// A delete scoped to the wrong user is a no-op
	require.NoError(s.T(), s.repo.DeleteFinanceRecord(s.ctx, bob.ID, record.ID))
	still, err := s.repo.GetFinanceRecord(s.ctx, alice.ID, record.ID)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), still)

	// The owner's delete removes it
	require.NoError(s.T(), s.repo.DeleteFinanceRecord(s.ctx, alice.ID, record.ID))
	gone, err := s.repo.GetFinanceRecord(s.ctx, alice.ID, record.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), gone)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
