package scheduler

import (
	"github.com/aokimoto/orderdesk-backend/internal/app/service"
	"github.com/aokimoto/orderdesk-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ResetTokenScheduler purges expired and used password reset tokens on a
// daily cron so the table does not grow without bound.
type ResetTokenScheduler struct {
	cron                 *cron.Cron
	passwordResetService service.PasswordResetService
}

func NewResetTokenScheduler(passwordResetService service.PasswordResetService) *ResetTokenScheduler {
	return &ResetTokenScheduler{
		cron:                 cron.New(),
		passwordResetService: passwordResetService,
	}
}

func (s *ResetTokenScheduler) Start() error {
	// Daily at 04:00, outside business hours
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled reset token purge", nil)

		deleted, err := s.passwordResetService.PurgeExpired()
		if err != nil {
			logger.Error("Failed to purge reset tokens from scheduler", err)
			return
		}

		logger.Info("Finished scheduled reset token purge", map[string]interface{}{
			"deleted": deleted,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for reset token purge", err)
		return err
	}

	s.cron.Start()
	logger.Info("Reset token scheduler started successfully (daily at 4:00 AM)", nil)

	return nil
}

func (s *ResetTokenScheduler) Stop() {
	logger.Info("Stopping reset token scheduler...", nil)
	s.cron.Stop()
	logger.Info("Reset token scheduler stopped", nil)
}
