package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAdminToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	tokenString, expiresAt, err := svc.GenerateAdminToken("reviewer@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	reviewer, err := svc.ReviewerFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "reviewer@example.com", reviewer)
}

func TestReviewerFromToken_WrongType(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	_, tokenString, err := svc.JWTAuth().Encode(map[string]interface{}{
		"sub":  "someone",
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	_, err = svc.ReviewerFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidAdminToken)
}

func TestReviewerFromToken_Nil(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	_, err := svc.ReviewerFromToken(nil)
	assert.ErrorIs(t, err, ErrInvalidAdminToken)
}

func TestDecode_WrongSecret(t *testing.T) {
	issuer := NewJWTService(testSecret, time.Hour)
	verifier := NewJWTService("another-secret", time.Hour)

	tokenString, _, err := issuer.GenerateAdminToken("reviewer")
	require.NoError(t, err)

	_, err = verifier.JWTAuth().Decode(tokenString)
	assert.Error(t, err)
}
