package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"madjoke/src/core/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")

	token, err := tokens.Issue("alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userName, err := tokens.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", userName)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	tokens := NewTokenService("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage",
			token: "invalid-token",
		},
		{
			name:  "empty",
			token: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			assert.Error(t, err)
			assert.True(t, domain.IsUnauthorized(err))
		})
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("alice")
	assert.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}
