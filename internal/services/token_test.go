package services

import (
	"testing"
	"time"

	"taskboard/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{ID: uuid.Must(uuid.NewV4()), Email: "ada@example.com"}
}

func TestJWTTokenService_IssueAndVerify(t *testing.T) {
	svc := NewJWTTokenService("secret", "taskboard", time.Hour)
	user := testUser()

	token, err := svc.Issue(user)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "taskboard", claims.Issuer)
	assert.Equal(t, time.Hour, svc.TTL())
}

func TestJWTTokenService_Expired(t *testing.T) {
	svc := NewJWTTokenService("secret", "taskboard", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTTokenService_RejectsOtherSecretAndIssuer(t *testing.T) {
	issuer := NewJWTTokenService("secret", "taskboard", time.Hour)
	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = NewJWTTokenService("other-secret", "taskboard", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTTokenService("secret", "someone-else", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTTokenService_RejectsUnsignedToken(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uuid.Must(uuid.NewV4()).String(),
		Issuer:    "taskboard",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTTokenService("secret", "taskboard", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTTokenService_Garbage(t *testing.T) {
	_, err := NewJWTTokenService("secret", "", time.Hour).Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher(4)

	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, hasher.Verify("correct horse", hash))
	assert.False(t, hasher.Verify("wrong horse", hash))

	assert.Equal(t, 10, NewPasswordHasher(0).cost)
}
