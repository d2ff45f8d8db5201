package db

import (
	"os"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/pkg/logger"
	"github.com/aokimoto/orderdesk-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Order{},
		&model.PasswordReset{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed creates the initial manager account if no manager exists yet.
// Credentials come from SEED_MANAGER_EMAIL / SEED_MANAGER_PASSWORD.
func Seed() error {
	email := model.NormalizeEmail(os.Getenv("SEED_MANAGER_EMAIL"))
	password := os.Getenv("SEED_MANAGER_PASSWORD")
	if email == "" || password == "" {
		logger.Info("No seed manager credentials configured, skipping seed")
		return nil
	}

	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleManager).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Manager account already exists, skipping seed", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	manager := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Manager",
		Role:         model.RoleManager,
		Status:       model.StatusActive,
	}
	if err := DB.Create(manager).Error; err != nil {
		logger.Error("Failed to seed manager account", err)
		return err
	}

	logger.Info("Seeded initial manager account", map[string]interface{}{
		"email": email,
	})
	return nil
}
