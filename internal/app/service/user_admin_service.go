package service

import (
	"errors"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole   = errors.New("invalid user role")
	ErrInvalidStatus = errors.New("invalid user status")
)

// UserEdit carries a manager's edit of a user record. Email is the record
// key and is never edited; passwords change only through the reset flow.
type UserEdit struct {
	Name     string
	NameKana string
	Role     model.UserRole
	Status   model.UserStatus
}

// UserAdminService backs the manager's role-administration view
type UserAdminService interface {
	ListUsers() ([]model.User, error)
	UpdateUser(id uint, edit UserEdit) (*model.User, error)
}

type userAdminService struct {
	userRepo repository.UserRepository
}

func NewUserAdminService(userRepo repository.UserRepository) UserAdminService {
	return &userAdminService{userRepo: userRepo}
}

func (s *userAdminService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

// UpdateUser applies a manager's edit to a user record. A role change
// takes effect on the target's next guarded request, when the resolver
// re-reads the record; no session is revoked here.
func (s *userAdminService) UpdateUser(id uint, edit UserEdit) (*model.User, error) {
	if !edit.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if !edit.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Name = edit.Name
	user.NameKana = edit.NameKana
	user.Role = edit.Role
	user.Status = edit.Status

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user record", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Info("User record updated by manager", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"status":  user.Status,
	})
	return user, nil
}
