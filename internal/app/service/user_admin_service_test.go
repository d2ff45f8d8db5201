package service

import (
	"testing"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserAdminTest(t *testing.T) (UserAdminService, repository.UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	return NewUserAdminService(userRepo), userRepo
}

func TestUserAdminService_ListUsers(t *testing.T) {
	svc, userRepo := setupUserAdminTest(t)

	createTestUser(t, userRepo, "a@example.com", model.RoleCustomer)
	createTestUser(t, userRepo, "b@example.com", model.RoleManager)

	users, err := svc.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserAdminService_UpdateUser(t *testing.T) {
	svc, userRepo := setupUserAdminTest(t)

	user := createTestUser(t, userRepo, "taro@example.com", model.RoleCustomer)

	updated, err := svc.UpdateUser(user.ID, UserEdit{
		Name:     "山田 太郎",
		NameKana: "ヤマダ タロウ",
		Role:     model.RoleManager,
		Status:   model.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, updated.Role)

	// The email key never changes through an edit
	assert.Equal(t, "taro@example.com", updated.Email)

	// The promotion is visible to the next role resolution
	res := NewSessionService(userRepo).Resolve("taro@example.com")
	assert.Equal(t, model.RoleManager, res.Role)
}

func TestUserAdminService_UpdateUser_ParkAccountAsUnauthorized(t *testing.T) {
	svc, userRepo := setupUserAdminTest(t)

	user := createTestUser(t, userRepo, "taro@example.com", model.RoleManager)

	updated, err := svc.UpdateUser(user.ID, UserEdit{
		Name:     user.Name,
		NameKana: user.NameKana,
		Role:     model.RoleUnauthorized,
		Status:   model.StatusSuspended,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUnauthorized, updated.Role)
	assert.Equal(t, model.StatusSuspended, updated.Status)
}

func TestUserAdminService_UpdateUser_Errors(t *testing.T) {
	svc, userRepo := setupUserAdminTest(t)

	user := createTestUser(t, userRepo, "taro@example.com", model.RoleCustomer)

	edit := UserEdit{
		Name:   user.Name,
		Role:   model.RoleCustomer,
		Status: model.StatusActive,
	}

	badRole := edit
	badRole.Role = model.UserRole("superadmin")
	_, err := svc.UpdateUser(user.ID, badRole)
	assert.ErrorIs(t, err, ErrInvalidRole)

	badStatus := edit
	badStatus.Status = model.UserStatus("frozen")
	_, err = svc.UpdateUser(user.ID, badStatus)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateUser(99999, edit)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
