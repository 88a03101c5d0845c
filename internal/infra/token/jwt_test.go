package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	iss := NewJWTIssuer("secret")
	now := time.Now()
	exp := now.Add(time.Hour)

	raw, err := iss.Issue(42, "sid-1", exp, now)
	require.NoError(t, err)

	c, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.UserID)
	assert.Equal(t, "sid-1", c.SessionID)
	assert.Equal(t, exp.Unix(), c.ExpiresAt.Unix())
}

func TestJWTIssuer_Guest(t *testing.T) {
	iss := NewJWTIssuer("secret")
	now := time.Now()

	raw, err := iss.Issue(0, "guest", now.Add(time.Hour), now)
	require.NoError(t, err)

	c, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.UserID)
}

func TestJWTIssuer_Rejects(t *testing.T) {
	iss := NewJWTIssuer("secret")
	now := time.Now()

	expired, err := iss.Issue(1, "s", now.Add(-time.Minute), now.Add(-time.Hour))
	require.NoError(t, err)

	otherKey, err := NewJWTIssuer("other").Issue(1, "s", now.Add(time.Hour), now)
	require.NoError(t, err)

	noSID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "sid": "s",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "1", "sid": "s", "exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"empty":           "",
		"garbage":         "not-a-jwt",
		"expired":         expired,
		"wrong key":       otherKey,
		"missing sid":     noSID,
		"missing exp":     noExp,
		"wrong algorithm": hs512,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Parse(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
