package auth

import (
	"testing"
	"time"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	ts := NewTokenService("s3cret")
	token, exp, err := ts.Sign(models.Identity{UserID: 7, Email: "ana@example.com"}, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	identity, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{UserID: 7, Email: "ana@example.com"}, identity)
}

func TestParseRejects(t *testing.T) {
	ts := NewTokenService("s3cret")

	other, _, err := NewTokenService("other").Sign(models.Identity{UserID: 7}, time.Hour)
	require.NoError(t, err)
	_, err = ts.Parse(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := ts.Sign(models.Identity{UserID: 7}, -time.Minute)
	require.NoError(t, err)
	_, err = ts.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, _, err := ts.Sign(models.Identity{Email: "x@example.com"}, time.Hour)
	require.NoError(t, err)
	_, err = ts.Parse(noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ts.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ts.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
