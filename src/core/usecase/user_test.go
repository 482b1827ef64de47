package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madjoke/src/core/domain"
	"madjoke/src/infra/repo"
)

func newUserService() (*UserService, *repo.MemoryRepository) {
	store := repo.NewMemoryRepository()
	tokens := NewTokenService("test-secret")
	return NewUserService(store, tokens, slog.Default()), store
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FirstName: "Anony",
		LastName:  "Mus",
		UserName:  "anonymus",
		Email:     "anonymus@anonymus.hu",
		Password:  "anonymus",
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc, _ := newUserService()

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"empty first name", func(in *RegisterInput) { in.FirstName = "" }},
		{"empty last name", func(in *RegisterInput) { in.LastName = "" }},
		{"empty user name", func(in *RegisterInput) { in.UserName = "" }},
		{"empty email", func(in *RegisterInput) { in.Email = "" }},
		{"empty password", func(in *RegisterInput) { in.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			assert.True(t, domain.IsValidationError(err))
		})
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newUserService()

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "anonymus", user.UserName)
	assert.NotEqual(t, "anonymus", user.PasswordHash)

	loggedIn, token, err := svc.Login(context.Background(), "anonymus", "anonymus")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterRejectsTakenUserName(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	assert.True(t, domain.IsConflict(err))
}

func TestLoginErrors(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "nobody", "anonymus")
	require.True(t, domain.IsUnauthorized(err))
	assert.Equal(t, "Incorrect username", err.(*domain.DomainError).Message)

	_, _, err = svc.Login(context.Background(), "anonymus", "wrong")
	require.True(t, domain.IsUnauthorized(err))
	assert.Equal(t, "Incorrect password", err.(*domain.DomainError).Message)
}

func TestUpdateRejectsEmptyPayload(t *testing.T) {
	svc, _ := newUserService()

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), user.ID, domain.UserUpdate{})
	assert.True(t, domain.IsValidationError(err))
}

func TestUpdateAppliesSubset(t *testing.T) {
	svc, _ := newUserService()

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	newName := "anonymus2"
	updated, err := svc.Update(context.Background(), user.ID, domain.UserUpdate{UserName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "anonymus2", updated.UserName)
	// untouched fields survive
	assert.Equal(t, "anonymus@anonymus.hu", updated.Email)
	assert.Equal(t, "Anony", updated.FirstName)
}

func TestChangePassword(t *testing.T) {
	svc, store := newUserService()

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	// wrong old password leaves the stored hash unchanged
	err = svc.ChangePassword(context.Background(), user, "wrong", "newpw")
	require.True(t, domain.IsUnauthorized(err))
	assert.Equal(t, "Incorrect password", err.(*domain.DomainError).Message)

	unchanged, err := store.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.PasswordHash, unchanged.PasswordHash)

	// correct old password rotates the credential
	err = svc.ChangePassword(context.Background(), user, "anonymus", "newpw")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "anonymus", "newpw")
	assert.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "anonymus", "anonymus")
	assert.True(t, domain.IsUnauthorized(err))
}
