package middleware

import (
	"net/http"
	"strings"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/service"
	"github.com/aokimoto/orderdesk-backend/internal/errors"
	"github.com/aokimoto/orderdesk-backend/pkg/redis"
	"github.com/aokimoto/orderdesk-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for session information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

type AuthMiddleware struct {
	jwtSecret string
	sessions  service.SessionService
}

func NewAuthMiddleware(jwtSecret string, sessions service.SessionService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		sessions:  sessions,
	}
}

// Authenticate validates the JWT and establishes the identity. The role is
// NOT taken from the token: RequireRole resolves it from the user record so
// a role change is picked up on the next evaluation.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "ログインが必要です")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "認証形式が正しくありません")
			c.Abort()
			return
		}
		token := parts[1]

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "ログインの有効期限が切れました")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "認証トークンが無効です")
			}
			c.Abort()
			return
		}

		// Signed-out tokens are revoked until their natural expiry
		if redis.IsTokenBlacklisted(c.Request.Context(), token) {
			log.Warn("Revoked token presented", map[string]interface{}{
				"path":    c.Request.URL.Path,
				"user_id": claims.UserID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "ログアウト済みのセッションです")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, model.NormalizeEmail(claims.Email))

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
			"email":   claims.Email,
		})

		c.Next()
	}
}

// RequireRole gates a protected route group on a required role. The role is
// re-resolved from the users collection on every request; the resolver
// fails closed, so a store error reads as unauthorized and redirects.
func (m *AuthMiddleware) RequireRole(requiredRole model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		email, _ := GetUserEmail(c)
		res := m.sessions.Resolve(email)
		c.Set(UserRoleKey, res.Role)

		switch EvaluateGuard(res.Identity, res.Role, res.Loading, requiredRole) {
		case GuardPending:
			// Resolution is synchronous here, so this only fires if a
			// future resolver becomes asynchronous again. No decision yet.
			errors.RespondWithError(c, http.StatusServiceUnavailable, errors.AuthzRolePending, "権限を確認しています。しばらくお待ちください")
			c.Abort()
			return
		case GuardRedirectEntry:
			if res.Identity == "" {
				log.Warn("No identity for protected route", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.Unauthorized(c, "ログインが必要です")
			} else {
				log.Warn("Insufficient role for protected route", map[string]interface{}{
					"email":         res.Identity,
					"role":          res.Role,
					"required_role": requiredRole,
					"path":          c.Request.URL.Path,
				})
				errors.Forbidden(c, "アクセス権限がありません")
			}
			c.Abort()
			return
		}

		log.Debug("Role check passed", map[string]interface{}{
			"email":         res.Identity,
			"role":          res.Role,
			"required_role": requiredRole,
		})
		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserEmail extracts the normalized user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserRole extracts the resolved user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(model.UserRole), true
}
