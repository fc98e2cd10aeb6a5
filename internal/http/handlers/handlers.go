package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	apierrors "github.com/pribylovaa/catalog-backend/internal/errors"
	"github.com/pribylovaa/catalog-backend/internal/service"
)

// maxBodyBytes ограничивает размер JSON-тела запроса.
const maxBodyBytes = 1 << 20

// Handlers агрегирует зависимости REST-адаптера (сервисы auth и токенов).
type Handlers struct {
	auth   *service.AuthService
	tokens *service.TokenService
}

func New(auth *service.AuthService, tokens *service.TokenService) *Handlers {
	return &Handlers{auth: auth, tokens: tokens}
}

// writeJSON - единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict - строгий JSON-декодер: запрещаем неизвестные поля
// и хвост после первого JSON-значения.
func decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrInvalidArgument, err)
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return apierrors.ErrInvalidArgument
	}

	return nil
}

// decodeLogin читает учётные данные из формы или из JSON-тела.
func decodeLogin(w http.ResponseWriter, r *http.Request, in *loginRequest) error {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "application/x-www-form-urlencoded" {
		return decodeStrict(w, r, in)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrInvalidArgument, err)
	}

	in.Email = r.PostForm.Get("username")
	in.Password = r.PostForm.Get("password")
	return nil
}
