package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/pribylovaa/catalog-backend/internal/models"
	"github.com/pribylovaa/catalog-backend/internal/storage"

	"github.com/stretchr/testify/require"
)

// newStorage - изолированная in-memory база на каждый тест.
func newStorage(t *testing.T) *Storage {
	t.Helper()

	st, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(st.Close)

	return st
}

func seedUser(t *testing.T, st *Storage, email string) *models.User {
	t.Helper()

	u := &models.User{Email: email, PasswordHash: "hash", FirstName: "Ann", LastName: "Lee", IsActive: true}
	require.NoError(t, st.SaveUser(context.Background(), u))

	return u
}

func TestNew_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "")
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	t.Parallel()

	st := newStorage(t)
	require.NoError(t, st.Ping(context.Background()))
}

func TestSaveUser_And_Lookups(t *testing.T) {
	t.Parallel()

	st := newStorage(t)
	ctx := context.Background()

	u := seedUser(t, st, "User@Example.com")
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, "user@example.com", u.Email)
	require.False(t, u.CreatedAt.IsZero())

	second := seedUser(t, st, "other@example.com")
	require.Equal(t, int64(2), second.ID)

	byEmail, err := st.UserByEmail(ctx, "USER@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, "Ann", byEmail.FirstName)
	require.True(t, byEmail.IsActive)

	byID, err := st.UserByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, "other@example.com", byID.Email)
}

func TestSaveUser_InactiveIsKept(t *testing.T) {
	t.Parallel()

	st := newStorage(t)
	ctx := context.Background()

	u := &models.User{Email: "off@example.com", PasswordHash: "h", IsActive: false}
	require.NoError(t, st.SaveUser(ctx, u))

	got, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestSaveUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	st := newStorage(t)
	seedUser(t, st, "dup@example.com")

	err := st.SaveUser(context.Background(), &models.User{Email: "DUP@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestUserLookups_NotFound(t *testing.T) {
	t.Parallel()

	st := newStorage(t)
	ctx := context.Background()

	_, err := st.UserByEmail(ctx, "absent@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UserByID(ctx, 7)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.ErrorIs(t, st.DeleteUser(ctx, 7), storage.ErrNotFound)
}

func TestDeleteUser_RemovesTokens(t *testing.T) {
	t.Parallel()

	st := newStorage(t)
	ctx := context.Background()
	u := seedUser(t, st, "gone@example.com")

	_, err := st.CreateToken(ctx, u.ID, "a", "r", time.Minute, time.Hour)
	require.NoError(t, err)

	require.NoError(t, st.DeleteUser(ctx, u.ID))

	_, err = st.UserByID(ctx, u.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = st.TokenByAccess(ctx, "a")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
