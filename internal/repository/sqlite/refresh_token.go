package sqlite

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"gorm.io/gorm"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// CreateRefreshToken implements auth.RefreshTokenRepository.
func (r *refreshTokenRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	m := refreshTokenModel{
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
		UserAgent: session.UserAgent,
		IPAddress: session.IPAddress,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// IsRefreshTokenRevoked implements auth.RefreshTokenRepository.
func (r *refreshTokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	var m refreshTokenModel
	err := conn(ctx, r.db).
		Where("token_hash = ?", hashToken(token)).
		Order("expires_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return m.RevokedAt != nil || !m.ExpiresAt.After(time.Now()), nil
}

// RevokeRefreshToken implements auth.RefreshTokenRepository.
func (r *refreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	err := conn(ctx, r.db).Model(&refreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashToken(token)).
		Update("revoked_at", time.Now().UTC()).Error
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// DeleteExpiredRefreshTokens implements auth.RefreshTokenRepository.
func (r *refreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	result := conn(ctx, r.db).Where("expires_at <= ?", before.UTC()).Delete(&refreshTokenModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
