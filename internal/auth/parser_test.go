package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialaride/reports-service/internal/model"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseValidToken(t *testing.T) {
	parser := NewParser("secret")
	userID := uuid.New()

	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  userID.String(),
		"role": "dispatcher",
	})

	principal, err := parser.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, model.RoleDispatcher, principal.Role)
	assert.True(t, principal.IsDispatcher())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	parser := NewParser("secret")
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": "admin",
	})

	_, err := parser.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	parser := NewParser("secret")
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": "janitor",
	})

	_, err := parser.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsBadSubject(t *testing.T) {
	parser := NewParser("secret")
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  "not-a-uuid",
		"role": "driver",
	})

	_, err := parser.Parse(token)
	assert.Error(t, err)
}
