// token кодирует и декодирует подписанные JWT с ограниченным сроком жизни.
//
// Декодирование (проверка подписи и структуры) отделено от проверки срока:
// Decode отдаёт claims даже просроченного токена, Validate дополнительно
// требует, чтобы exp был строго позже текущего времени.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken - неверная подпись, алгоритм или структура токена.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired - срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrUnsupportedAlgorithm - алгоритм подписи не поддерживается кодеком.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	// ErrEmptySecret - не задан ключ подписи.
	ErrEmptySecret = errors.New("empty signing secret")
)

// Codec подписывает и проверяет токены одним ключом и алгоритмом.
// Экземпляр неизменяем и безопасен для конкурентного использования.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	now    func() time.Time
}

// Option настраивает Codec.
type Option func(*Codec)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec создаёт кодек. Поддерживаются только HMAC-алгоритмы (HS256/HS384/HS512).
func NewCodec(secret, algorithm, issuer string, opts ...Option) (*Codec, error) {
	const op = "token.NewCodec"

	if secret == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnsupportedAlgorithm, algorithm)
	}

	c := &Codec{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Algorithm возвращает имя алгоритма подписи.
func (c *Codec) Algorithm() string { return c.method.Alg() }

// Encode подписывает claims, добавляя exp = now+ttl, iat, iss и jti (если не задан).
// Исходная карта claims не изменяется.
func (c *Codec) Encode(claims Claims, ttl time.Duration) (string, error) {
	const op = "token.Encode"

	now := c.now().UTC()

	out := claims.clone()
	out[ClaimIssuedAt] = now.Unix()
	out[ClaimExpiresAt] = now.Add(ttl).Unix()
	if _, ok := out[ClaimID]; !ok {
		out[ClaimID] = uuid.NewString()
	}
	if c.issuer != "" {
		out[ClaimIssuer] = c.issuer
	}

	signed, err := jwt.NewWithClaims(c.method, jwt.MapClaims(out)).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Decode проверяет подпись, алгоритм, издателя и структуру токена, не проверяя сроки.
func (c *Codec) Decode(tokenStr string) (Claims, error) {
	const op = "token.Decode"

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	mc := jwt.MapClaims{}
	parsed, err := parser.ParseWithClaims(tokenStr, mc, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, ErrInvalidToken
		}

		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if c.issuer != "" {
		if iss, _ := mc[ClaimIssuer].(string); iss != c.issuer {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
	}

	return Claims(mc), nil
}

// Validate декодирует токен и проверяет срок: exp должен быть строго позже now.
// При ErrTokenExpired claims тоже возвращаются, чтобы вызывающий мог их залогировать.
func (c *Codec) Validate(tokenStr string) (Claims, error) {
	const op = "token.Validate"

	claims, err := c.Decode(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exp, ok := claims.ExpiresAt()
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !exp.After(c.now()) {
		return claims, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	return claims, nil
}
