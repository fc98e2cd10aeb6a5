package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/catalog-backend/internal/errors"
	"github.com/pribylovaa/catalog-backend/internal/http/middleware"
	"github.com/pribylovaa/catalog-backend/internal/models"
	"github.com/pribylovaa/catalog-backend/internal/service"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, pair, err := h.auth.Register(r.Context(), service.RegisterInput{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: userFromModel(user), Token: pairFromModel(pair)})
}

// Login принимает JSON {email,password} или OAuth2 password-форму
// (application/x-www-form-urlencoded, поля username/password).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeLogin(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, pair, err := h.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: userFromModel(user), Token: pairFromModel(pair)})
}

// Logout отзывает access-токен из заголовка Authorization.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	access, ok := middleware.TokenFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	if err := h.auth.Logout(r.Context(), access); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handlers) Revoke(w http.ResponseWriter, r *http.Request) {
	var in accessTokenRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if in.AccessToken == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	if err := h.tokens.Revoke(r.Context(), in.AccessToken); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if in.RefreshToken == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	access, err := h.tokens.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access, TokenType: models.TokenTypeBearer})
}

func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	var in accessTokenRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if in.AccessToken == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	claims, err := h.tokens.ValidateAccess(r.Context(), in.AccessToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{Valid: true, Claims: claims})
}

// Me возвращает владельца access-токена из заголовка Authorization.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	access, ok := middleware.TokenFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), access)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: userFromModel(user)})
}
