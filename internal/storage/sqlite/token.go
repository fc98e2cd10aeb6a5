package sqlite

import (
	"context"
	"time"

	"github.com/pribylovaa/catalog-backend/internal/models"

	"gorm.io/gorm"
)

// CreateToken сохраняет новую пару токенов пользователя.
func (s *Storage) CreateToken(
	ctx context.Context,
	userID int64,
	access, refresh string,
	accessTTL, refreshTTL time.Duration,
) (*models.Token, error) {
	const op = "storage.sqlite.CreateToken"

	now := time.Now().UTC()
	rec := tokenRecord{
		AccessToken:      access,
		RefreshToken:     refresh,
		UserID:           userID,
		AccessExpiresAt:  now.Add(accessTTL).UnixMicro(),
		RefreshExpiresAt: now.Add(refreshTTL).UnixMicro(),
	}

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, mapErr(op, err)
	}

	return rec.toModel(), nil
}

// TokenByAccess находит запись по access-токену.
func (s *Storage) TokenByAccess(ctx context.Context, access string) (*models.Token, error) {
	const op = "storage.sqlite.TokenByAccess"

	var rec tokenRecord
	if err := s.db.WithContext(ctx).First(&rec, "access_token = ?", access).Error; err != nil {
		return nil, mapErr(op, err)
	}

	return rec.toModel(), nil
}

// TokenByRefresh находит запись по refresh-токену.
func (s *Storage) TokenByRefresh(ctx context.Context, refresh string) (*models.Token, error) {
	const op = "storage.sqlite.TokenByRefresh"

	var rec tokenRecord
	if err := s.db.WithContext(ctx).First(&rec, "refresh_token = ?", refresh).Error; err != nil {
		return nil, mapErr(op, err)
	}

	return rec.toModel(), nil
}

// BlacklistToken помечает запись отозванной. Повторный вызов не ошибка.
func (s *Storage) BlacklistToken(ctx context.Context, access string) (*models.Token, error) {
	const op = "storage.sqlite.BlacklistToken"

	var rec tokenRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&tokenRecord{}).
			Where("access_token = ?", access).
			Update("blacklisted", true)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.First(&rec, "access_token = ?", access).Error
	})
	if err != nil {
		return nil, mapErr(op, err)
	}

	return rec.toModel(), nil
}

// IsBlacklisted сообщает, отозван ли access-токен.
func (s *Storage) IsBlacklisted(ctx context.Context, access string) (bool, error) {
	const op = "storage.sqlite.IsBlacklisted"

	var n int64
	err := s.db.WithContext(ctx).
		Model(&tokenRecord{}).
		Where("access_token = ? AND blacklisted = ?", access, true).
		Count(&n).Error
	if err != nil {
		return false, mapErr(op, err)
	}

	return n > 0, nil
}

// RotateAccessToken заменяет access-токен записи на месте.
func (s *Storage) RotateAccessToken(ctx context.Context, id int64, access string, expiresAt time.Time) error {
	const op = "storage.sqlite.RotateAccessToken"

	res := s.db.WithContext(ctx).
		Model(&tokenRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"access_token":      access,
			"access_expires_at": expiresAt.UnixMicro(),
		})
	if res.Error != nil {
		return mapErr(op, res.Error)
	}

	if res.RowsAffected == 0 {
		return mapErr(op, gorm.ErrRecordNotFound)
	}

	return nil
}

// DeleteExpiredTokens удаляет записи с истёкшим access- или refresh-токеном.
func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.sqlite.DeleteExpiredTokens"

	cutoff := now.UnixMicro()
	res := s.db.WithContext(ctx).
		Where("access_expires_at <= ? OR refresh_expires_at <= ?", cutoff, cutoff).
		Delete(&tokenRecord{})
	if res.Error != nil {
		return 0, mapErr(op, res.Error)
	}

	return res.RowsAffected, nil
}
