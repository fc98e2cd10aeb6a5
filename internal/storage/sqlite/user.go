package sqlite

import (
	"context"
	"strings"

	"github.com/pribylovaa/catalog-backend/internal/models"
	"github.com/pribylovaa/catalog-backend/internal/storage"

	"gorm.io/gorm"
)

// SaveUser создает пользователя; email хранится в нижнем регистре.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.sqlite.SaveUser"

	rec := userRecord{
		Email:        strings.ToLower(user.Email),
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsActive:     user.IsActive,
	}

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return mapErr(op, err)
	}

	user.ID = rec.ID
	user.Email = rec.Email
	user.CreatedAt = rec.CreatedAt.UTC()
	user.UpdatedAt = rec.UpdatedAt.UTC()

	return nil
}

// UserByEmail находит пользователя по email без учёта регистра.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.sqlite.UserByEmail"

	var rec userRecord
	if err := s.db.WithContext(ctx).First(&rec, "email = ?", strings.ToLower(email)).Error; err != nil {
		return nil, mapErr(op, err)
	}

	return rec.toModel(), nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.sqlite.UserByID"

	var rec userRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, mapErr(op, err)
	}

	return rec.toModel(), nil
}

// DeleteUser удаляет пользователя и его токены в одной транзакции.
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	const op = "storage.sqlite.DeleteUser"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&tokenRecord{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&userRecord{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
	if err != nil {
		return mapErr(op, err)
	}

	return nil
}

var _ storage.UserStorage = (*Storage)(nil)
