package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/internal/app/service"
	"github.com/aokimoto/orderdesk-backend/internal/db"
	"github.com/aokimoto/orderdesk-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func setupAuthMiddlewareTest(t *testing.T) (*gin.Engine, repository.UserRepository) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authMiddleware := NewAuthMiddleware(testSecret, service.NewSessionService(userRepo))

	router := gin.New()
	router.GET("/manager-only",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleManager),
		func(c *gin.Context) {
			role, _ := GetUserRole(c)
			c.JSON(http.StatusOK, gin.H{"role": role})
		},
	)

	return router, userRepo
}

func registerUser(t *testing.T, userRepo repository.UserRepository, email string, role model.UserRole) string {
	t.Helper()

	user := &model.User{
		Email:        model.NormalizeEmail(email),
		PasswordHash: "x",
		Name:         "テストユーザー",
		Role:         role,
		Status:       model.StatusActive,
	}
	require.NoError(t, userRepo.Create(user))

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	router, _ := setupAuthMiddlewareTest(t)

	w := get(router, "/manager-only", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router, _ := setupAuthMiddlewareTest(t)

	req := httptest.NewRequest("GET", "/manager-only", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_INVALID")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	router, userRepo := setupAuthMiddlewareTest(t)

	user := &model.User{Email: "manager@example.com", PasswordHash: "x", Name: "m", Role: model.RoleManager}
	require.NoError(t, userRepo.Create(user))
	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), testSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	w := get(router, "/manager-only", tokens.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestAuthMiddleware_ManagerPasses(t *testing.T) {
	router, userRepo := setupAuthMiddlewareTest(t)

	token := registerUser(t, userRepo, "manager@example.com", model.RoleManager)
	w := get(router, "/manager-only", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "manager")
}

func TestAuthMiddleware_CustomerForbidden(t *testing.T) {
	router, userRepo := setupAuthMiddlewareTest(t)

	token := registerUser(t, userRepo, "customer@example.com", model.RoleCustomer)
	w := get(router, "/manager-only", token)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHZ_FORBIDDEN")
}

// A valid token whose identity has no user record resolves to the
// unauthorized role and is refused.
func TestAuthMiddleware_IdentityWithoutRecordForbidden(t *testing.T) {
	router, _ := setupAuthMiddlewareTest(t)

	tokens, err := util.GenerateTokenPair(42, "ghost@example.com", "manager", testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)

	w := get(router, "/manager-only", tokens.AccessToken)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// The token's role claim is never trusted for authorization: the stored
// record decides, so a demotion takes effect while old tokens are live.
func TestAuthMiddleware_DemotionTakesEffectNextRequest(t *testing.T) {
	router, userRepo := setupAuthMiddlewareTest(t)

	token := registerUser(t, userRepo, "manager@example.com", model.RoleManager)
	assert.Equal(t, http.StatusOK, get(router, "/manager-only", token).Code)

	user, err := userRepo.FindByEmail("manager@example.com")
	require.NoError(t, err)
	user.Role = model.RoleCustomer
	require.NoError(t, userRepo.Update(user))

	assert.Equal(t, http.StatusForbidden, get(router, "/manager-only", token).Code)
}
