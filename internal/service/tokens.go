package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/catalog-backend/internal/cache"
	"github.com/pribylovaa/catalog-backend/internal/config"
	"github.com/pribylovaa/catalog-backend/internal/models"
	"github.com/pribylovaa/catalog-backend/internal/pkg/log"
	"github.com/pribylovaa/catalog-backend/internal/pkg/redact"
	"github.com/pribylovaa/catalog-backend/internal/storage"
	"github.com/pribylovaa/catalog-backend/internal/token"
)

// TokenService управляет жизненным циклом пары токенов:
// ISSUED → (ACCESS_ROTATED)* → BLACKLISTED | EXPIRED_AND_PURGED.
type TokenService struct {
	store     storage.TokenStorage
	codec     *token.Codec
	cfg       config.AuthConfig
	blacklist cache.BlacklistCache // может быть nil, если кэш не сконфигурирован
	now       func() time.Time
}

// NewTokenService создаёт TokenService.
func NewTokenService(store storage.TokenStorage, codec *token.Codec, cfg config.AuthConfig) *TokenService {
	return &TokenService{
		store: store,
		codec: codec,
		cfg:   cfg,
		now:   time.Now,
	}
}

// SetBlacklistCache устанавливает кэш отзывов (опционально).
func (s *TokenService) SetBlacklistCache(c cache.BlacklistCache) {
	s.blacklist = c
}

// Issue выпускает и сохраняет новую пару токенов для пользователя.
// Не идемпотентен: каждый вызов создаёт новую запись.
func (s *TokenService) Issue(ctx context.Context, userID int64, subject string) (*models.TokenPair, error) {
	const op = "service.tokens.Issue"

	lg := log.From(ctx)

	access, err := s.encode(subject, userID, token.TypeAccess, s.cfg.AccessTokenTTL())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refresh, err := s.encode(subject, userID, token.TypeRefresh, s.cfg.RefreshTokenTTL())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := s.store.CreateToken(ctx, userID, access, refresh, s.cfg.AccessTokenTTL(), s.cfg.RefreshTokenTTL())
	if err != nil {
		lg.Error("token_persist_failed",
			slog.String("op", op),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return nil, persistErr(op, err)
	}

	lg.Info("token_issued",
		slog.Int64("user_id", userID),
		slog.Int64("token_id", rec.ID),
	)

	return &models.TokenPair{
		AccessToken:      rec.AccessToken,
		RefreshToken:     rec.RefreshToken,
		TokenType:        models.TokenTypeBearer,
		AccessExpiresAt:  rec.AccessExpiresAt,
		RefreshExpiresAt: rec.RefreshExpiresAt,
	}, nil
}

// ValidateAccess проверяет access-токен и возвращает его claims.
// Порядок проверок: существование → отзыв → подпись → срок.
func (s *TokenService) ValidateAccess(ctx context.Context, access string) (token.Claims, error) {
	const op = "service.tokens.ValidateAccess"

	lg := log.From(ctx)

	// отзыв из кэша подразумевает, что запись существовала.
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, access)
		if err != nil {
			lg.Warn("blacklist_cache_read_failed",
				slog.String("token_fp", redact.Fingerprint(access)),
				slog.String("err", err.Error()),
			)
		} else if revoked {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}
	}

	rec, err := s.store.TokenByAccess(ctx, access)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}

		return nil, persistErr(op, err)
	}

	if rec.Blacklisted {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	claims, err := s.codec.Validate(access)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.Type() != token.TypeAccess {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// Refresh выпускает новый access-токен по refresh-токену и записывает его
// в ту же запись. Refresh-токен не меняется. При гонке выигрывает последняя запись.
func (s *TokenService) Refresh(ctx context.Context, refresh string) (string, error) {
	const op = "service.tokens.Refresh"

	lg := log.From(ctx)

	rec, err := s.store.TokenByRefresh(ctx, refresh)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return "", persistErr(op, err)
	}

	if rec.Blacklisted {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	now := s.now().UTC()
	if rec.RefreshExpired(now) {
		lg.Info("refresh_expired", slog.Int64("token_id", rec.ID))
		return "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	claims, err := s.codec.Decode(refresh)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, ok := claims.UserID()
	if !ok || uid != rec.UserID || claims.Type() != token.TypeRefresh {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	access, err := s.encode(claims.Subject(), uid, token.TypeAccess, s.cfg.AccessTokenTTL())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.RotateAccessToken(ctx, rec.ID, access, now.Add(s.cfg.AccessTokenTTL())); err != nil {
		// запись могла быть удалена очисткой между чтением и обновлением.
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return "", persistErr(op, err)
	}

	lg.Info("access_token_refreshed",
		slog.Int64("user_id", uid),
		slog.Int64("token_id", rec.ID),
	)

	return access, nil
}

// Revoke навсегда отзывает access-токен.
func (s *TokenService) Revoke(ctx context.Context, access string) error {
	const op = "service.tokens.Revoke"

	lg := log.From(ctx)

	rec, err := s.store.BlacklistToken(ctx, access)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}

		return persistErr(op, err)
	}

	if s.blacklist != nil {
		ttl := rec.AccessExpiresAt.Sub(s.now())
		if err := s.blacklist.MarkRevoked(ctx, access, rec.UserID, ttl); err != nil {
			lg.Warn("blacklist_cache_write_failed",
				slog.String("token_fp", redact.Fingerprint(access)),
				slog.String("err", err.Error()),
			)
		}
	}

	lg.Info("token_revoked",
		slog.Int64("user_id", rec.UserID),
		slog.Int64("token_id", rec.ID),
		slog.String("token_fp", redact.Fingerprint(access)),
	)

	return nil
}

// PurgeExpired удаляет записи, у которых истёк access- или refresh-токен.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	const op = "service.tokens.PurgeExpired"

	n, err := s.store.DeleteExpiredTokens(ctx, s.now().UTC())
	if err != nil {
		return 0, persistErr(op, err)
	}

	return n, nil
}

func (s *TokenService) encode(subject string, userID int64, typ string, ttl time.Duration) (string, error) {
	return s.codec.Encode(token.Claims{
		token.ClaimSubject: subject,
		token.ClaimUserID:  userID,
		token.ClaimType:    typ,
	}, ttl)
}
