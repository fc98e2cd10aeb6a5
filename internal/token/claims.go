package token

import (
	"encoding/json"
	"time"
)

// Ключи claims, которые выставляет сервис.
const (
	ClaimSubject   = "sub"
	ClaimUserID    = "uid"
	ClaimType      = "typ"
	ClaimID        = "jti"
	ClaimIssuer    = "iss"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
)

// Типы токенов в claim "typ".
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims - полезная нагрузка подписанного токена.
type Claims map[string]any

// Subject возвращает claim "sub" или пустую строку.
func (c Claims) Subject() string {
	s, _ := c[ClaimSubject].(string)
	return s
}

// Type возвращает claim "typ" или пустую строку.
func (c Claims) Type() string {
	s, _ := c[ClaimType].(string)
	return s
}

// UserID возвращает claim "uid".
// После декодирования JSON числа приходят как float64, поэтому поддерживаются оба вида.
func (c Claims) UserID() (int64, bool) {
	switch v := c[ClaimUserID].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// ExpiresAt возвращает claim "exp" как время UTC.
func (c Claims) ExpiresAt() (time.Time, bool) {
	var sec int64
	switch v := c[ClaimExpiresAt].(type) {
	case int64:
		sec = v
	case float64:
		sec = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		sec = n
	default:
		return time.Time{}, false
	}

	return time.Unix(sec, 0).UTC(), true
}

func (c Claims) clone() Claims {
	out := make(Claims, len(c)+4)
	for k, v := range c {
		out[k] = v
	}

	return out
}
