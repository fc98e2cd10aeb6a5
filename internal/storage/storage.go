// storage описывает контракты хранилища пользователей и токенов.
package storage

//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/catalog-backend/internal/models"
)

var (
	// ErrNotFound - запись не найдена (пользователь/токен).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists - нарушение уникальности (email/access/refresh).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает пользователя и заполняет ID и таймстемпы.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id int64) (*models.User, error)
	// DeleteUser удаляет пользователя вместе с его токенами.
	DeleteUser(ctx context.Context, id int64) error
}

// TokenStorage выполняет операции над записями токенов.
type TokenStorage interface {
	// CreateToken сохраняет новую пару; сроки считаются от текущего момента.
	CreateToken(ctx context.Context, userID int64, access, refresh string, accessTTL, refreshTTL time.Duration) (*models.Token, error)
	// TokenByAccess находит запись по access-токену.
	TokenByAccess(ctx context.Context, access string) (*models.Token, error)
	// TokenByRefresh находит запись по refresh-токену.
	TokenByRefresh(ctx context.Context, refresh string) (*models.Token, error)
	// BlacklistToken помечает запись отозванной и возвращает её.
	BlacklistToken(ctx context.Context, access string) (*models.Token, error)
	// IsBlacklisted сообщает, отозван ли access-токен. Неизвестный токен не отозван.
	IsBlacklisted(ctx context.Context, access string) (bool, error)
	// RotateAccessToken заменяет access-токен записи, не трогая refresh.
	RotateAccessToken(ctx context.Context, id int64, access string, expiresAt time.Time) error
	// DeleteExpiredTokens удаляет записи, у которых истёк хотя бы один из токенов.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	TokenStorage
	Close()
}
