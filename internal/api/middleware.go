package api

import (
	"net/http"
	"strings"

	"github.com/akuteman/finance-tracker/internal/auth"
	"github.com/akuteman/finance-tracker/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the middleware below
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextRequestID = "requestID"
)

// AuthMiddleware returns a Gin middleware that authenticates requests via the
// Authorization header. Every failure mode (missing header, malformed header,
// forged signature, expired token) answers with the same generic 401 so a
// client cannot tell them apart.
func AuthMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c)
			return
		}

		// Expect exactly "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c)
			return
		}

		claims, err := auth.VerifyToken(parts[1], jwtSecret)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, models.Response{
		Success: false,
		Error:   "Unauthorized",
	})
	c.Abort()
}

// RequestIDMiddleware tags every request with a uuid for log correlation
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(ContextRequestID, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// CORSMiddleware answers preflight requests and attaches CORS headers.
// Origins on the allow list are echoed back; anything else gets "*".
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowOrigin := "*"
		if allowed[origin] {
			allowOrigin = origin
		}

		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", allowOrigin)
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		header.Set("Access-Control-Max-Age", "86400")
		header.Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
