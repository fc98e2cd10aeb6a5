package models

import "time"

// TokenTypeBearer - тип токена, отдаваемый клиенту.
const TokenTypeBearer = "bearer"

// TokenPair - пара токенов, выдаваемая при регистрации и входе.
//
// Описание:
//   - AccessToken - короткоживущий JWT для доступа к API;
//   - RefreshToken - долгоживущий JWT, которым выпускаются новые access-токены;
//   - AccessExpiresAt/RefreshExpiresAt - моменты истечения (UTC).
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	TokenType        string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
