package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"aeps-agent.backend/pkg/jwt"
	"aeps-agent.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// AgentIDKey is the context key for the authenticated agent
	AgentIDKey = "agentId"
	// AgentTokenKey holds the raw bearer token forwarded to the partner
	AgentTokenKey = "agentToken"
	// MerchantCodeKey is the context key for the agent's merchant code
	MerchantCodeKey = "merchantCode"
	// AgentRoleKey is the context key for the agent role
	AgentRoleKey = "agentRole"
)

// AuthMiddleware validates the agent bearer token
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Warn(ctx, "Authorization header is missing", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.Warn(ctx, "Agent token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			message := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": message,
			})
			return
		}

		c.Set(AgentIDKey, claims.AgentID)
		c.Set(AgentTokenKey, tokenString)
		c.Set(MerchantCodeKey, claims.MerchantCode)
		c.Set(AgentRoleKey, claims.Role)

		c.Request = c.Request.WithContext(context.WithValue(ctx, logger.AgentIDKey, claims.AgentID.String()))

		c.Next()
	}
}

// GetAgentID gets the agent ID from context
func GetAgentID(c *gin.Context) (uuid.UUID, bool) {
	agentID, exists := c.Get(AgentIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := agentID.(uuid.UUID)
	return id, ok
}

// GetAgentRole gets the agent role from context
func GetAgentRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(AgentRoleKey)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		agentRole, exists := GetAgentRole(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Agent role not found",
			})
			return
		}

		for _, role := range roles {
			if strings.EqualFold(agentRole, role) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    "FORBIDDEN",
			"message": "Insufficient permissions",
		})
	}
}
