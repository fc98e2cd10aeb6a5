package models

import "time"

// Token - запись о выданной паре токенов.
//
// Инварианты:
//   - AccessToken и RefreshToken глобально уникальны;
//   - при refresh меняются только AccessToken и AccessExpiresAt, ID сохраняется;
//   - Blacklisted устанавливается один раз и больше не сбрасывается.
//
// Связь с пользователем - только через UserID (без ленивой подгрузки).
type Token struct {
	ID               int64
	AccessToken      string
	RefreshToken     string
	UserID           int64
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	Blacklisted      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RefreshExpired сообщает, истёк ли refresh-токен записи к моменту now.
// После этого запись годится только для очистки.
func (t *Token) RefreshExpired(now time.Time) bool {
	return !t.RefreshExpiresAt.After(now)
}
