// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимает доменную ошибку сервиса (sentinel из internal/service,
// обёрнутую через %w), на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Маппинг выполняется только через errors.Is, текст ошибки наружу не уходит.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/catalog-backend/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

var (
	// ErrInvalidArgument - некорректное тело или параметры запроса.
	ErrInvalidArgument = stderrors.New("invalid argument")
	// ErrUnauthenticated - запрос без учётных данных (нет Bearer-токена).
	ErrUnauthenticated = stderrors.New("unauthenticated")
)

// APIError - единый формат для фронта.
// Code - короткий стабильный код для машиночитаемой обработки на FE.
// Message - безопасное человекочитаемое описание.
// RequestID - прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse - корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// mapping - порядок важен: контекстные ошибки проверяются раньше
// ErrPersistence, которая может их оборачивать.
var mapping = []struct {
	target error
	status int
	code   string
	msg    string
}{
	{context.Canceled, StatusClientClosedRequest, "canceled", "canceled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"},
	{ErrInvalidArgument, http.StatusBadRequest, "invalid_argument", "invalid argument"},
	{service.ErrInvalidEmail, http.StatusBadRequest, "invalid_argument", "invalid email"},
	{service.ErrEmptyPassword, http.StatusBadRequest, "invalid_argument", "password is empty"},
	{service.ErrWeakPassword, http.StatusBadRequest, "invalid_argument", "password is too weak"},
	{service.ErrPasswordTooLong, http.StatusBadRequest, "invalid_argument", "password is too long"},
	{ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
	{service.ErrEmailTaken, http.StatusConflict, "already_exists", "email already taken"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "invalid credentials"},
	{service.ErrTokenNotFound, http.StatusUnauthorized, "token_not_found", "token not found"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked", "token revoked"},
	{service.ErrTokenExpired, http.StatusUnauthorized, "token_expired", "token expired"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token", "invalid token"},
	{service.ErrPartialRegistration, http.StatusInternalServerError, "registration_incomplete", "registration incomplete"},
	{service.ErrPersistence, http.StatusServiceUnavailable, "persistence_unavailable", "service unavailable"},
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - неизвестная ошибка - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err != nil {
		for _, m := range mapping {
			if stderrors.Is(err, m.target) {
				return m.status, ErrorResponse{Error: APIError{Code: m.code, Message: m.msg}}
			}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: APIError{
			Code:    "internal",
			Message: "internal error",
		},
	}
}

// WriteError - хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
