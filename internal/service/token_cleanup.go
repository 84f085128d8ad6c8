package service

import (
	"time"

	"stackit/qa-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenCleanup defines a function used to periodically cleanup old
// verification tokens that aren't needed anymore
func TokenCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			err := db.
				Where("cleanup_at < ?", time.Now()).
				Delete(model.VerificationToken{}).
				Error
			if err != nil {
				zap.L().Error("Failed to cleanup expired tokens", zap.Error(err))
				continue
			}
		}
	}()
}
