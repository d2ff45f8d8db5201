package repository

import (
	"time"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/pkg/logger"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(reset *model.PasswordReset) error
	FindByToken(token string) (*model.PasswordReset, error)
	MarkAsUsed(id uint) error
	DeleteExpired() (int64, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(reset *model.PasswordReset) error {
	logger.Debug("Creating password reset record in database", map[string]interface{}{
		"email": reset.Email,
	})

	if err := r.db.Create(reset).Error; err != nil {
		logger.Error("Failed to create password reset record in database", err, map[string]interface{}{
			"email": reset.Email,
		})
		return err
	}

	return nil
}

func (r *passwordResetRepository) FindByToken(token string) (*model.PasswordReset, error) {
	logger.Debug("Finding password reset record by token in database", nil)

	var reset model.PasswordReset
	if err := r.db.Where("token = ?", token).First(&reset).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find password reset record in database", err, nil)
		}
		return nil, err
	}

	return &reset, nil
}

func (r *passwordResetRepository) MarkAsUsed(id uint) error {
	logger.Debug("Marking password reset token as used", map[string]interface{}{
		"reset_id": id,
	})

	if err := r.db.Model(&model.PasswordReset{}).Where("id = ?", id).
		Update("used", true).Error; err != nil {
		logger.Error("Failed to mark password reset token as used", err, map[string]interface{}{
			"reset_id": id,
		})
		return err
	}

	return nil
}

// DeleteExpired purges expired and already-used reset tokens
func (r *passwordResetRepository) DeleteExpired() (int64, error) {
	logger.Debug("Deleting expired password reset tokens", nil)

	result := r.db.Where("expires_at < ? OR used = ?", time.Now(), true).
		Delete(&model.PasswordReset{})
	if result.Error != nil {
		logger.Error("Failed to delete expired password reset tokens", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Expired password reset tokens deleted", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
