package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pribylovaa/catalog-backend/internal/models"
	"github.com/pribylovaa/catalog-backend/internal/password"
	"github.com/pribylovaa/catalog-backend/internal/pkg/log"
	"github.com/pribylovaa/catalog-backend/internal/pkg/redact"
	"github.com/pribylovaa/catalog-backend/internal/storage"
)

// MinPasswordLength - минимальная длина пароля в рунах.
const MinPasswordLength = 6

// compensationTimeout ограничивает откат регистрации, который выполняется
// даже после отмены контекста запроса.
const compensationTimeout = 5 * time.Second

// RegisterInput - данные для регистрации.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService реализует регистрацию, вход, выход и получение текущего пользователя.
type AuthService struct {
	users  storage.UserStorage
	tokens *TokenService
	hasher *password.Hasher
}

// NewAuthService создаёт AuthService.
func NewAuthService(users storage.UserStorage, tokens *TokenService, hasher *password.Hasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

// Register создаёт пользователя и выпускает ему первую пару токенов.
// Если выпуск не удался, пользователь удаляется; если не удалось и это,
// возвращаются пользователь и ErrPartialRegistration.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.Register"

	lg := log.From(ctx)

	email, err := validateEmail(in.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(in.Password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.users.UserByEmail(ctx, email)
	if err == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, persistErr(op, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		IsActive:     true,
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		// гонка двух регистраций с одним email.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, nil, persistErr(op, err)
	}

	pair, err := s.tokens.Issue(ctx, user.ID, user.Email)
	if err != nil {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
		defer cancel()

		if derr := s.users.DeleteUser(cctx, user.ID); derr != nil {
			lg.Error("register_compensation_failed",
				slog.Int64("user_id", user.ID),
				slog.String("email", redact.Email(email)),
				slog.String("err", derr.Error()),
			)
			return user, nil, fmt.Errorf("%s: %w: %w", op, ErrPartialRegistration, err)
		}

		if errors.Is(err, ErrPersistence) {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		return nil, nil, persistErr(op, err)
	}

	lg.Info("user_registered",
		slog.Int64("user_id", user.ID),
		slog.String("email", redact.Email(email)),
	)

	return user, pair, nil
}

// Login проверяет учётные данные и выпускает новую пару токенов.
// Любая ошибка учётных данных даёт ErrInvalidCredentials без уточнения причины.
func (s *AuthService) Login(ctx context.Context, email, pw string) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.Login"

	lg := log.From(ctx)

	normEmail, err := validateEmail(email)
	if err != nil || pw == "" {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.users.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Info("login_failed", slog.String("email", redact.Email(normEmail)))
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, persistErr(op, err)
	}

	if !s.hasher.Verify(pw, user.PasswordHash) || !user.IsActive {
		lg.Info("login_failed", slog.String("email", redact.Email(normEmail)))
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.tokens.Issue(ctx, user.ID, user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, pair, nil
}

// Logout отзывает access-токен. Неизвестный токен не считается ошибкой.
func (s *AuthService) Logout(ctx context.Context, access string) error {
	const op = "service.auth.Logout"

	if err := s.tokens.Revoke(ctx, access); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CurrentUser возвращает владельца действующего access-токена.
func (s *AuthService) CurrentUser(ctx context.Context, access string) (*models.User, error) {
	const op = "service.auth.CurrentUser"

	claims, err := s.tokens.ValidateAccess(ctx, access)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uid, ok := claims.UserID()
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := s.users.UserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}

		return nil, persistErr(op, err)
	}

	return user, nil
}

// validateEmail проверяет формат email и приводит его к нижнему регистру.
// Допускается только голый адрес, без отображаемого имени.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if pw == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	// ограничение bcrypt считается в байтах, а не в рунах.
	if len(pw) > password.MaxLength {
		return fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
	}

	return nil
}
