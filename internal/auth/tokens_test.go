package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewTokenManager_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenManager("too-short", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenManager(testSecret, 0)
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	m, err := NewTokenManager(testSecret, 24*time.Hour)
	require.NoError(t, err)

	token, exp, err := m.Issue("admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestVerify_Expired(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	issuedAt := time.Now()
	m.now = func() time.Time { return issuedAt }
	token, _, err := m.Issue("admin")
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestVerify_Rejects(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)
	other, err := NewTokenManager("fedcba9876543210fedcba9876543210", time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.Issue("admin")
	require.NoError(t, err)

	valid, _, err := m.Issue("admin")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "signed with another key", token: foreign},
		{name: "tampered signature", token: valid[:len(valid)-2] + "xx"},
		{name: "alg none", token: unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := m.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
			assert.Nil(t, claims)
		})
	}
}
