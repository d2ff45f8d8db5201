package service

import (
	"testing"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSessionServiceTest(t *testing.T) (SessionService, repository.UserRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	return NewSessionService(userRepo), userRepo, testDB
}

func createTestUser(t *testing.T, userRepo repository.UserRepository, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Email:        model.NormalizeEmail(email),
		PasswordHash: "x",
		Name:         "山田 太郎",
		NameKana:     "ヤマダ タロウ",
		Role:         role,
		Status:       model.StatusActive,
	}
	require.NoError(t, userRepo.Create(user))
	return user
}

func TestSessionService_Resolve(t *testing.T) {
	sessions, userRepo, _ := setupSessionServiceTest(t)

	createTestUser(t, userRepo, "customer@example.com", model.RoleCustomer)
	createTestUser(t, userRepo, "manager@example.com", model.RoleManager)

	tests := []struct {
		name         string
		email        string
		wantIdentity string
		wantRole     model.UserRole
	}{
		{
			name:         "No session",
			email:        "",
			wantIdentity: "",
			wantRole:     "",
		},
		{
			name:         "Customer record",
			email:        "customer@example.com",
			wantIdentity: "customer@example.com",
			wantRole:     model.RoleCustomer,
		},
		{
			name:         "Manager record",
			email:        "manager@example.com",
			wantIdentity: "manager@example.com",
			wantRole:     model.RoleManager,
		},
		{
			name:         "Lookup is keyed by normalized email",
			email:        "  MANAGER@Example.com ",
			wantIdentity: "manager@example.com",
			wantRole:     model.RoleManager,
		},
		{
			name:         "Identity without a user record resolves unauthorized",
			email:        "ghost@example.com",
			wantIdentity: "ghost@example.com",
			wantRole:     model.RoleUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sessions.Resolve(tt.email)

			assert.Equal(t, tt.wantIdentity, res.Identity)
			assert.Equal(t, tt.wantRole, res.Role)
			assert.False(t, res.Loading)
		})
	}
}

// A store failure must resolve to unauthorized, never to an error that a
// caller might interpret as "allow".
func TestSessionService_Resolve_FailsClosedOnStoreError(t *testing.T) {
	sessions, userRepo, testDB := setupSessionServiceTest(t)

	createTestUser(t, userRepo, "manager@example.com", model.RoleManager)

	// Closing the underlying connection makes every lookup fail
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	res := sessions.Resolve("manager@example.com")
	assert.Equal(t, "manager@example.com", res.Identity)
	assert.Equal(t, model.RoleUnauthorized, res.Role)
	assert.False(t, res.Loading)
}
