package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pribylovaa/catalog-backend/internal/storage"

	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, st *Storage, email string) int64 {
	t.Helper()
	u := newUser(email)
	require.NoError(t, st.SaveUser(context.Background(), u))
	return u.ID
}

// TestIntegration_CreateToken_And_Lookups - запись находится и по access, и по refresh.
func TestIntegration_CreateToken_And_Lookups(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	uid := seedUser(t, st, "tok@example.com")

	before := time.Now().UTC()
	tok, err := st.CreateToken(ctx, uid, "access-1", "refresh-1", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	require.NotZero(t, tok.ID)
	require.Equal(t, uid, tok.UserID)
	require.False(t, tok.Blacklisted)
	require.WithinDuration(t, before.Add(15*time.Minute), tok.AccessExpiresAt, 2*time.Second)
	require.WithinDuration(t, before.Add(7*24*time.Hour), tok.RefreshExpiresAt, 2*time.Second)

	byAccess, err := st.TokenByAccess(ctx, "access-1")
	require.NoError(t, err)
	require.Equal(t, tok.ID, byAccess.ID)

	byRefresh, err := st.TokenByRefresh(ctx, "refresh-1")
	require.NoError(t, err)
	require.Equal(t, tok.ID, byRefresh.ID)

	_, err = st.TokenByAccess(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = st.TokenByRefresh(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_CreateToken_Duplicate - повтор access или refresh даёт ErrAlreadyExists.
func TestIntegration_CreateToken_Duplicate(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	uid := seedUser(t, st, "dup@example.com")

	_, err := st.CreateToken(ctx, uid, "a", "r", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = st.CreateToken(ctx, uid, "a", "r2", time.Minute, time.Hour)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = st.CreateToken(ctx, uid, "a2", "r", time.Minute, time.Hour)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_Blacklist - флаг выставляется, повторный вызов успешен.
func TestIntegration_Blacklist(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	uid := seedUser(t, st, "bl@example.com")

	_, err := st.CreateToken(ctx, uid, "a", "r", time.Minute, time.Hour)
	require.NoError(t, err)

	ok, err := st.IsBlacklisted(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	tok, err := st.BlacklistToken(ctx, "a")
	require.NoError(t, err)
	require.True(t, tok.Blacklisted)

	tok, err = st.BlacklistToken(ctx, "a")
	require.NoError(t, err)
	require.True(t, tok.Blacklisted)

	ok, err = st.IsBlacklisted(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.IsBlacklisted(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = st.BlacklistToken(ctx, "unknown")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_RotateAccessToken - меняется только access-часть, ID сохраняется.
func TestIntegration_RotateAccessToken(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	uid := seedUser(t, st, "rot@example.com")

	tok, err := st.CreateToken(ctx, uid, "a-old", "r", time.Minute, time.Hour)
	require.NoError(t, err)

	exp := time.Now().UTC().Add(30 * time.Minute)
	require.NoError(t, st.RotateAccessToken(ctx, tok.ID, "a-new", exp))

	got, err := st.TokenByRefresh(ctx, "r")
	require.NoError(t, err)
	require.Equal(t, tok.ID, got.ID)
	require.Equal(t, "a-new", got.AccessToken)
	require.WithinDuration(t, exp, got.AccessExpiresAt, time.Millisecond)
	require.WithinDuration(t, tok.RefreshExpiresAt, got.RefreshExpiresAt, time.Millisecond)

	_, err = st.TokenByAccess(ctx, "a-old")
	require.ErrorIs(t, err, storage.ErrNotFound)

	err = st.RotateAccessToken(ctx, 9999, "x", exp)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_DeleteExpiredTokens - удаляются записи с истёкшей любой из частей;
// повторный вызов ничего не удаляет.
func TestIntegration_DeleteExpiredTokens(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	uid := seedUser(t, st, "purge@example.com")

	_, err := st.CreateToken(ctx, uid, "alive-a", "alive-r", time.Hour, 2*time.Hour)
	require.NoError(t, err)
	_, err = st.CreateToken(ctx, uid, "acc-exp-a", "acc-exp-r", -time.Minute, time.Hour)
	require.NoError(t, err)
	_, err = st.CreateToken(ctx, uid, "ref-exp-a", "ref-exp-r", time.Hour, -time.Minute)
	require.NoError(t, err)

	n, err := st.DeleteExpiredTokens(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	_, err = st.TokenByAccess(ctx, "alive-a")
	require.NoError(t, err)
	_, err = st.TokenByAccess(ctx, "acc-exp-a")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = st.TokenByAccess(ctx, "ref-exp-a")
	require.ErrorIs(t, err, storage.ErrNotFound)

	n, err = st.DeleteExpiredTokens(ctx, time.Now())
	require.NoError(t, err)
	require.Zero(t, n)
}
