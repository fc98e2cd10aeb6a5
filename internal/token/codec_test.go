package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

// fakeClock - управляемые часы для проверки сроков без sleep.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(t *testing.T, clk *fakeClock) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, "HS256", "auth-service", WithClock(clk.Now))
	require.NoError(t, err)
	return c
}

func TestNewCodec_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewCodec("", "HS256", "")
	require.ErrorIs(t, err, ErrEmptySecret)

	for _, alg := range []string{"RS256", "ES256", "none", "", "HS1024"} {
		_, err := NewCodec(testSecret, alg, "")
		require.ErrorIs(t, err, ErrUnsupportedAlgorithm, alg)
	}

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		c, err := NewCodec(testSecret, alg, "")
		require.NoError(t, err)
		require.Equal(t, alg, c.Algorithm())
	}
}

func TestEncodeValidate_RoundTrip_UntilTTLElapses(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, clk)

	in := Claims{ClaimSubject: "a@x.com", "role": "admin"}
	tok, err := c.Encode(in, 15*time.Minute)
	require.NoError(t, err)

	got, err := c.Validate(tok)
	require.NoError(t, err)
	for k, v := range in {
		require.Equal(t, v, got[k], k)
	}
	require.Equal(t, "a@x.com", got.Subject())
	require.NotEmpty(t, got[ClaimID])
	require.Equal(t, "auth-service", got[ClaimIssuer])

	exp, ok := got.ExpiresAt()
	require.True(t, ok)
	require.Equal(t, clk.t.Add(15*time.Minute), exp)

	// Encode не должен менять исходную карту.
	_, hasExp := in[ClaimExpiresAt]
	require.False(t, hasExp)

	clk.Advance(14*time.Minute + 59*time.Second)
	_, err = c.Validate(tok)
	require.NoError(t, err)

	// exp == now уже считается истёкшим.
	clk.Advance(time.Second)
	claims, err := c.Validate(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.Equal(t, "a@x.com", claims.Subject(), "claims доступны для логирования")

	// Decode сроки не проверяет.
	decoded, err := c.Decode(tok)
	require.NoError(t, err)
	require.Equal(t, "admin", decoded["role"])
}

func TestEncode_NegativeTTL_ProducesExpiredToken(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Now().UTC()}
	c := newTestCodec(t, clk)

	tok, err := c.Encode(Claims{ClaimSubject: "s"}, -10*time.Second)
	require.NoError(t, err)

	_, err = c.Validate(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestEncode_SameClaimsSameSecond_DistinctTokens(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Now().UTC()}
	c := newTestCodec(t, clk)

	a, err := c.Encode(Claims{ClaimSubject: "s"}, time.Minute)
	require.NoError(t, err)
	b, err := c.Encode(Claims{ClaimSubject: "s"}, time.Minute)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Now().UTC()}
	c := newTestCodec(t, clk)
	now := clk.t

	sign := func(t *testing.T, m jwt.SigningMethod, key []byte, claims jwt.MapClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(m, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	base := func() jwt.MapClaims {
		return jwt.MapClaims{"sub": "s", "iss": "auth-service", "exp": now.Add(time.Hour).Unix()}
	}

	t.Run("wrong secret", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS256, []byte("other-secret"), base())
		_, err := c.Decode(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong alg", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS512, []byte(testSecret), base())
		_, err := c.Decode(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, base()).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = c.Decode(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := base()
		claims["iss"] = "someone-else"
		tok := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)
		_, err := c.Decode(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		for _, s := range []string{"", "abc", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30"} {
			_, err := c.Decode(s)
			require.ErrorIs(t, err, ErrInvalidToken, s)
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		tok, err := c.Encode(Claims{ClaimSubject: "s"}, time.Hour)
		require.NoError(t, err)
		other, err := c.Encode(Claims{ClaimSubject: "x"}, time.Hour)
		require.NoError(t, err)

		// подпись от одного токена, payload от другого.
		p1 := strings.Split(tok, ".")
		p2 := strings.Split(other, ".")
		forged := p1[0] + "." + p2[1] + "." + p1[2]

		_, err = c.Decode(forged)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing exp on validate", func(t *testing.T) {
		claims := base()
		delete(claims, "exp")
		tok := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

		_, err := c.Decode(tok)
		require.NoError(t, err)

		_, err = c.Validate(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_Accessors(t *testing.T) {
	t.Parallel()

	c := Claims{ClaimSubject: "a@x.com", ClaimUserID: float64(42), ClaimType: TypeAccess, ClaimExpiresAt: float64(1700000000)}

	require.Equal(t, "a@x.com", c.Subject())
	require.Equal(t, TypeAccess, c.Type())

	uid, ok := c.UserID()
	require.True(t, ok)
	require.Equal(t, int64(42), uid)

	exp, ok := c.ExpiresAt()
	require.True(t, ok)
	require.Equal(t, time.Unix(1700000000, 0).UTC(), exp)

	_, ok = Claims{ClaimUserID: 1.5}.UserID()
	require.False(t, ok)
	_, ok = Claims{ClaimUserID: "7"}.UserID()
	require.False(t, ok)
	_, ok = Claims{}.ExpiresAt()
	require.False(t, ok)
	require.Empty(t, Claims{}.Subject())
}

func TestEncodeDecode_UserIDSurvivesJSON(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Now().UTC()}
	c := newTestCodec(t, clk)

	tok, err := c.Encode(Claims{ClaimSubject: "s", ClaimUserID: int64(1)}, time.Minute)
	require.NoError(t, err)

	got, err := c.Validate(tok)
	require.NoError(t, err)

	uid, ok := got.UserID()
	require.True(t, ok)
	require.Equal(t, int64(1), uid)
}
