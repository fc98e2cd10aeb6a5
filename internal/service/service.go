// service содержит бизнес-логику подсистемы аутентификации:
// выпуск, проверку, обновление и отзыв токенов (TokenService) и
// сценарии регистрации/входа/выхода поверх них (AuthService).
//
// Сервисы не хранят состояние запроса и безопасны для конкурентного
// использования, если потокобезопасно переданное хранилище.
// Ошибки возвращаются как sentinel-значения ниже и маппятся транспортом
// на HTTP-статусы (см. internal/errors).
package service

import (
	"errors"
	"fmt"

	"github.com/pribylovaa/catalog-backend/internal/token"
)

var (
	// ErrInvalidCredentials - неверная пара email/пароль, пользователь не найден
	// или неактивен. Причина намеренно не различается. HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken - неверная подпись/алгоритм/структура токена,
	// неизвестный или отозванный refresh-токен. HTTP 401.
	ErrInvalidToken = token.ErrInvalidToken

	// ErrTokenExpired - срок действия токена истёк. HTTP 401.
	ErrTokenExpired = token.ErrTokenExpired

	// ErrTokenRevoked - access-токен отозван (logout/revoke). HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrTokenNotFound - access-токен не выдавался этим сервисом
	// или уже удалён очисткой. HTTP 401.
	ErrTokenNotFound = errors.New("token not found")

	// ErrEmailTaken - e-mail уже занят другим пользователем. HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrPersistence - хранилище недоступно или отказало. HTTP 503.
	ErrPersistence = errors.New("persistence unavailable")

	// ErrPartialRegistration - пользователь создан, токены выпустить не удалось,
	// и откатить создание тоже не удалось. HTTP 500.
	ErrPartialRegistration = errors.New("registration incomplete")

	// ErrInvalidEmail - e-mail имеет некорректный формат. HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword - пароль короче минимальной длины. HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrPasswordTooLong - пароль длиннее, чем принимает bcrypt. HTTP 400.
	ErrPasswordTooLong = errors.New("password is too long")

	// ErrEmptyPassword - пароль пустой. HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")
)

// persistErr оборачивает ошибку хранилища в ErrPersistence,
// сохраняя исходную цепочку (в т.ч. context.Canceled/DeadlineExceeded).
func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
