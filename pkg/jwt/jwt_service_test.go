package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	service := NewJWTService()
	token := service.GenerateToken("8a1f8c1e-23b8-4a6a-9a1f-0f7d56a3e111")
	require.NotEmpty(t, token)

	userID, err := service.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "8a1f8c1e-23b8-4a6a-9a1f-0f7d56a3e111", userID)
}

func TestGetUserIDByTokenRejectsGarbage(t *testing.T) {
	service := NewJWTService()

	_, err := service.GetUserIDByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestGetUserIDByTokenRejectsTamperedToken(t *testing.T) {
	service := NewJWTService()
	token := service.GenerateToken("8a1f8c1e-23b8-4a6a-9a1f-0f7d56a3e111")

	_, err := service.GetUserIDByToken(token + "x")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
