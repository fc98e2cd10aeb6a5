package models

import "time"

// User - учётная запись пользователя.
//
// Запись создаётся при регистрации и читается при входе; подсистема токенов
// её не изменяет. Email хранится в нижнем регистре.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
