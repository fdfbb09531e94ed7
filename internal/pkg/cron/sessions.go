package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
)

// SessionJobs sweeps session state that has outlived its tokens.
type SessionJobs struct {
	logger        *slog.Logger
	refreshTokens auth.RefreshTokenRepository
	tokens        jwt.Service
	now           func() time.Time
}

func NewSessionJobs(logger *slog.Logger, refreshTokens auth.RefreshTokenRepository, tokens jwt.Service, now func() time.Time) *SessionJobs {
	return &SessionJobs{
		logger:        logger,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		now:           now,
	}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("purge_expired_refresh_tokens", interval, j.PurgeExpiredRefreshTokens)
	scheduler.AddJob("purge_revoked_access_tokens", interval, j.PurgeRevokedAccessTokens)
}

// PurgeExpiredRefreshTokens deletes stored refresh tokens past their expiry.
// Expired tokens already read as revoked, so deleting them changes no outcome.
func (j *SessionJobs) PurgeExpiredRefreshTokens(ctx context.Context) error {
	deleted, err := j.refreshTokens.DeleteExpiredRefreshTokens(ctx, j.now())
	if err != nil {
		return fmt.Errorf("purge refresh tokens: %w", err)
	}
	if deleted > 0 {
		j.logger.Info("Purged expired refresh tokens", "count", deleted)
	}
	return nil
}

func (j *SessionJobs) PurgeRevokedAccessTokens(ctx context.Context) error {
	if purged := j.tokens.PurgeRevoked(j.now()); purged > 0 {
		j.logger.Info("Purged revoked access tokens", "count", purged)
	}
	return nil
}
