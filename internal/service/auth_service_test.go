package service_test

import (
	"context"
	"testing"

	"github.com/dkovac/chatline/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	svc := service.NewAuthService(newMemUserRepo(), "test-secret")

	signup, err := svc.Signup(context.Background(), service.SignupInput{
		Email:    "ana@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signup.AccessToken)
	assert.False(t, signup.User.ProfileSetup)

	login, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ana@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, login.User.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := service.NewAuthService(newMemUserRepo(), "test-secret")

	_, err := svc.Signup(context.Background(), service.SignupInput{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), service.SignupInput{Email: "ana@example.com", Password: "password456"})
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := service.NewAuthService(newMemUserRepo(), "test-secret")

	_, err := svc.Signup(context.Background(), service.SignupInput{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), service.LoginInput{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCreds)
}

func TestUpdateProfileTogglesDMClosed(t *testing.T) {
	repo := newMemUserRepo()
	svc := service.NewAuthService(repo, "test-secret")

	signup, err := svc.Signup(context.Background(), service.SignupInput{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	user, err := svc.UpdateProfile(context.Background(), signup.User.ID, service.UpdateProfileInput{
		FirstName: "Ana",
		LastName:  "Horvat",
		Color:     2,
		DMClosed:  true,
	})
	require.NoError(t, err)
	assert.True(t, user.DMClosed)
	assert.True(t, user.ProfileSetup)

	stored, err := repo.GetByID(context.Background(), signup.User.ID)
	require.NoError(t, err)
	assert.True(t, stored.DMClosed)
}
