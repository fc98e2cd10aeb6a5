package sqlite

import (
	"time"

	"github.com/pribylovaa/catalog-backend/internal/models"
)

// userRecord - строка таблицы users.
type userRecord struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

// tokenRecord - строка таблицы tokens.
// Сроки хранятся в микросекундах Unix, чтобы сравнение в SQL было числовым.
type tokenRecord struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	AccessToken      string `gorm:"uniqueIndex;not null"`
	RefreshToken     string `gorm:"uniqueIndex;not null"`
	UserID           int64  `gorm:"index;not null"`
	AccessExpiresAt  int64  `gorm:"index;not null"`
	RefreshExpiresAt int64  `gorm:"index;not null"`
	Blacklisted      bool   `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (tokenRecord) TableName() string { return "tokens" }

func (r *tokenRecord) toModel() *models.Token {
	return &models.Token{
		ID:               r.ID,
		AccessToken:      r.AccessToken,
		RefreshToken:     r.RefreshToken,
		UserID:           r.UserID,
		AccessExpiresAt:  time.UnixMicro(r.AccessExpiresAt).UTC(),
		RefreshExpiresAt: time.UnixMicro(r.RefreshExpiresAt).UTC(),
		Blacklisted:      r.Blacklisted,
		CreatedAt:        r.CreatedAt.UTC(),
		UpdatedAt:        r.UpdatedAt.UTC(),
	}
}
