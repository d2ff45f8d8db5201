package service

import (
	"errors"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/pkg/logger"
	"gorm.io/gorm"
)

// Resolution is the published session state downstream access control
// depends on. Exactly one of three shapes ever leaves Resolve:
//
//	no session:          Identity == "", Role == "", Loading == false
//	session, resolving:  Loading == true (role undetermined, not unauthorized)
//	session, resolved:   Identity != "", Role is a storable role or unauthorized
type Resolution struct {
	Identity string         `json:"identity"` // normalized email, "" when logged out
	Role     model.UserRole `json:"role"`
	Loading  bool           `json:"loading"`
}

type SessionService interface {
	Resolve(email string) Resolution
}

type sessionService struct {
	userRepo repository.UserRepository
}

func NewSessionService(userRepo repository.UserRepository) SessionService {
	return &sessionService{userRepo: userRepo}
}

// Resolve maps an authenticated identity to its role by keyed lookup of the
// user record under the normalized email.
//
// Fail-closed policy: a missing record resolves to unauthorized, and so does
// any lookup failure. The error is logged, never propagated; a transient
// store error must never grant access.
func (s *sessionService) Resolve(email string) Resolution {
	identity := model.NormalizeEmail(email)
	if identity == "" {
		return Resolution{}
	}

	user, err := s.userRepo.FindByEmail(identity)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Role lookup failed, resolving as unauthorized", err, map[string]interface{}{
				"email": identity,
			})
		} else {
			logger.Warn("No user record for authenticated identity", map[string]interface{}{
				"email": identity,
			})
		}
		return Resolution{Identity: identity, Role: model.RoleUnauthorized}
	}

	logger.Debug("Role resolved for session", map[string]interface{}{
		"email": identity,
		"role":  user.Role,
	})
	return Resolution{Identity: identity, Role: user.Role}
}
