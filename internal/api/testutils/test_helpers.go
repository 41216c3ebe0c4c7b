package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akuteman/finance-tracker/internal/api"
	"github.com/akuteman/finance-tracker/internal/auth"
	"github.com/akuteman/finance-tracker/internal/config"
	"github.com/akuteman/finance-tracker/internal/models"
	"github.com/akuteman/finance-tracker/internal/repository"
	"github.com/akuteman/finance-tracker/internal/service"
	"github.com/akuteman/finance-tracker/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite" // sqlite driver for the in-memory test database
)

// Fixed credentials used by the harness
const (
	TestJWTSecret      = "test-secret-key"
	TestInvitationCode = "test-invitation-code"
	TestUserEmail      = "testuser@example.com"
	TestUserPassword   = "testpassword"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  repository.Repository
	Service     service.Service
	JWTSecret   []byte
	DB          *sqlx.DB
	TestUserID  int64
	TestUserJWT string
}

// SetupTestDB opens an in-memory sqlite database with the application schema.
// The single-connection pool matters: every pooled connection would otherwise
// get its own empty :memory: database.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err, "Failed to open test database")
	db.SetMaxOpenConns(1)
	require.NoError(t, db.Ping(), "Failed to ping test database")

	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE finance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			category TEXT NOT NULL,
			amount REAL NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range schema {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "Failed to create test schema")
	}

	return db
}

// SetupTestContext creates a new test context with initialized dependencies
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	db := SetupTestDB(t)

	authCfg := config.AuthConfig{
		JWTSecret:      TestJWTSecret,
		InvitationCode: TestInvitationCode,
		BcryptCost:     bcrypt.MinCost,
	}

	// Create repository
	repo := repository.NewSQLRepository(db)

	// Create service
	svc := service.NewDefaultService(repo, authCfg)

	// Create API handler
	handler := api.NewHandler(svc, utils.NewLogger(), []byte(authCfg.JWTSecret))

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(api.RequestIDMiddleware())

	// Set up routes
	handler.SetupRoutes(router)

	testCtx := &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		JWTSecret:  []byte(authCfg.JWTSecret),
		DB:         db,
	}

	// Create the default test user
	user, token := testCtx.CreateUser(t, TestUserEmail, TestUserPassword, "Test User")
	testCtx.TestUserID = user.ID
	testCtx.TestUserJWT = token

	return testCtx
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(t *TestContext) {
	if t.DB != nil {
		t.DB.Close()
	}
}

// CreateUser inserts a user directly through the repository and returns it
// together with a valid token, bypassing the registration endpoint.
func (tc *TestContext) CreateUser(t *testing.T, email, password, name string) (*models.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err, "Failed to hash test password")

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
	}
	err = tc.Repository.CreateUser(context.Background(), user)
	require.NoError(t, err, "Failed to create test user")

	token, err := auth.IssueToken(user.ID, user.Email, tc.JWTSecret)
	require.NoError(t, err, "Failed to issue test token")

	return user, token
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

// Envelope mirrors models.Response with the data field left generic, so
// tests can dig into it without per-endpoint types.
type Envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   string         `json:"error"`
	Message string         `json:"message"`
}

// ParseEnvelope decodes a recorded response body
func ParseEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to decode response body")
	return env
}
