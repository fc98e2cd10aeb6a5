package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/catalog-backend/internal/models"
	"github.com/pribylovaa/catalog-backend/internal/storage"
)

const tokenColumns = `id, access_token, refresh_token, user_id, access_expires_at, refresh_expires_at, blacklisted, created_at, updated_at`

// CreateToken сохраняет новую пару токенов пользователя.
func (s *Storage) CreateToken(
	ctx context.Context,
	userID int64,
	access, refresh string,
	accessTTL, refreshTTL time.Duration,
) (*models.Token, error) {
	const op = "storage.postgres.CreateToken"

	now := time.Now().UTC()

	query := `
		INSERT INTO tokens(access_token, refresh_token, user_id, access_expires_at, refresh_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + tokenColumns

	tok, err := scanToken(s.db.QueryRow(ctx, query,
		access,
		refresh,
		userID,
		now.Add(accessTTL),
		now.Add(refreshTTL),
		now,
	))
	if err != nil {
		return nil, mapErr(op, err)
	}

	return tok, nil
}

// TokenByAccess находит запись по access-токену.
func (s *Storage) TokenByAccess(ctx context.Context, access string) (*models.Token, error) {
	const op = "storage.postgres.TokenByAccess"

	tok, err := scanToken(s.db.QueryRow(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE access_token = $1`, access))
	if err != nil {
		return nil, mapErr(op, err)
	}

	return tok, nil
}

// TokenByRefresh находит запись по refresh-токену.
func (s *Storage) TokenByRefresh(ctx context.Context, refresh string) (*models.Token, error) {
	const op = "storage.postgres.TokenByRefresh"

	tok, err := scanToken(s.db.QueryRow(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE refresh_token = $1`, refresh))
	if err != nil {
		return nil, mapErr(op, err)
	}

	return tok, nil
}

// BlacklistToken помечает запись отозванной. Повторный вызов не ошибка.
func (s *Storage) BlacklistToken(ctx context.Context, access string) (*models.Token, error) {
	const op = "storage.postgres.BlacklistToken"

	query := `
		UPDATE tokens
		SET blacklisted = TRUE, updated_at = now()
		WHERE access_token = $1
		RETURNING ` + tokenColumns

	tok, err := scanToken(s.db.QueryRow(ctx, query, access))
	if err != nil {
		return nil, mapErr(op, err)
	}

	return tok, nil
}

// IsBlacklisted сообщает, отозван ли access-токен.
func (s *Storage) IsBlacklisted(ctx context.Context, access string) (bool, error) {
	const op = "storage.postgres.IsBlacklisted"

	query := `SELECT EXISTS (SELECT 1 FROM tokens WHERE access_token = $1 AND blacklisted)`

	var blacklisted bool
	if err := s.db.QueryRow(ctx, query, access).Scan(&blacklisted); err != nil {
		return false, mapErr(op, err)
	}

	return blacklisted, nil
}

// RotateAccessToken заменяет access-токен записи на месте.
func (s *Storage) RotateAccessToken(ctx context.Context, id int64, access string, expiresAt time.Time) error {
	const op = "storage.postgres.RotateAccessToken"

	query := `
		UPDATE tokens
		SET access_token = $2, access_expires_at = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query, id, access, expiresAt.UTC())
	if err != nil {
		return mapErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteExpiredTokens удаляет записи с истёкшим access- или refresh-токеном
// одним запросом и возвращает число удалённых строк.
func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.postgres.DeleteExpiredTokens"

	query := `
		DELETE FROM tokens
		WHERE access_expires_at <= $1 OR refresh_expires_at <= $1
	`

	tag, err := s.db.Exec(ctx, query, now.UTC())
	if err != nil {
		return 0, mapErr(op, err)
	}

	return tag.RowsAffected(), nil
}

func scanToken(row rowScanner) (*models.Token, error) {
	var tok models.Token
	err := row.Scan(
		&tok.ID,
		&tok.AccessToken,
		&tok.RefreshToken,
		&tok.UserID,
		&tok.AccessExpiresAt,
		&tok.RefreshExpiresAt,
		&tok.Blacklisted,
		&tok.CreatedAt,
		&tok.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &tok, nil
}
