package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
)

func testUser() *domain.AdminUser {
	return &domain.AdminUser{ID: 7, Username: "AYADMIN", Role: "admin", Venues: []string{"mosaico"}}
}

func TestJWT_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(testUser())
	require.NoError(t, err)

	claims, err := m.Middleware(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "AYADMIN", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, []string{"mosaico"}, claims.Venues)
}

func TestJWT_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.Generate(testUser())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate(testUser())
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestJWT_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: "admin"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour).Validate(signed)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := hashWithCost("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := CheckPassword(hash, "s3cret!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "x")
	assert.Error(t, err)
}
