package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/akuteman/finance-tracker/internal/models"
	"github.com/akuteman/finance-tracker/internal/service"
	"github.com/akuteman/finance-tracker/internal/utils"
	"github.com/gin-gonic/gin"
)

// Default pagination window for finance listings
const (
	defaultLimit  = 50
	defaultOffset = 0
)

// Handler holds the dependencies for the HTTP handlers
type Handler struct {
	svc       service.Service
	log       *utils.Logger
	jwtSecret []byte
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, log *utils.Logger, jwtSecret []byte) *Handler {
	return &Handler{
		svc:       svc,
		log:       log,
		jwtSecret: jwtSecret,
	}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/health", h.Health)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", h.Logout)
		authRoutes.GET("/me", AuthMiddleware(h.jwtSecret), h.Me)
	}

	finance := api.Group("/finance", AuthMiddleware(h.jwtSecret))
	{
		finance.GET("", h.ListFinance)
		finance.POST("", h.CreateFinance)
		finance.PUT("/:id", h.UpdateFinance)
		finance.DELETE("/:id", h.DeleteFinance)
	}
}

// Health reports that the API is up
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Register creates a new user account, gated by the invitation code
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	data, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, data, "")
}

// Login authenticates a user and returns a fresh token
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	data, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, data, "")
}

// Logout is a stateless no-op: the client just discards its token
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *gin.Context) {
	user, err := h.svc.CurrentUser(c.Request.Context(), c.GetInt64(ContextUserID))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, models.UserData{User: user}, "")
}

// ListFinance returns a page of the caller's records plus the overall summary
func (h *Handler) ListFinance(c *gin.Context) {
	q := models.ListFinanceQuery{
		Type:   c.Query("type"),
		Limit:  queryInt(c, "limit", defaultLimit),
		Offset: queryInt(c, "offset", defaultOffset),
	}

	data, err := h.svc.ListFinance(c.Request.Context(), c.GetInt64(ContextUserID), q)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, data, "")
}

// CreateFinance stores a new income or expense record for the caller
func (h *Handler) CreateFinance(c *gin.Context) {
	var req models.FinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	record, err := h.svc.CreateFinance(c.Request.Context(), c.GetInt64(ContextUserID), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, record, "Finance record created successfully")
}

// UpdateFinance replaces the mutable fields of a record the caller owns
func (h *Handler) UpdateFinance(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "Finance record not found")
		return
	}

	var req models.FinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	record, err := h.svc.UpdateFinance(c.Request.Context(), c.GetInt64(ContextUserID), recordID, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, record, "Finance record updated successfully")
}

// DeleteFinance removes a record the caller owns
func (h *Handler) DeleteFinance(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "Finance record not found")
		return
	}

	if err := h.svc.DeleteFinance(c.Request.Context(), c.GetInt64(ContextUserID), recordID); err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Finance record deleted successfully",
	})
}

// respondServiceError translates service-layer errors into the response
// envelope. Anything unrecognized is logged and collapsed to a generic 500
// so storage details never reach the client.
func (h *Handler) respondServiceError(c *gin.Context, err error) {
	var validationErr service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, service.ErrInvalidInvitation):
		respondError(c, http.StatusBadRequest, "Invalid invitation code")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "Finance record not found")
	default:
		h.log.Error("request %s failed: %v", c.GetString(ContextRequestID), err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func respondData(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.Response{
		Success: false,
		Error:   message,
	})
}

// queryInt parses an integer query parameter, falling back to the default on
// absent or malformed values.
func queryInt(c *gin.Context, key string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
