package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpAndSignIn(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	user, err := svc.SignUp(ctx, " Player@Example.COM ", "player", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "player@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	signedIn, err := svc.SignIn(ctx, "player@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	assert.Empty(t, signedIn.PasswordHash)
}

func TestSignUpValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "", "player", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignUp(ctx, "player@example.com", "player", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "player@example.com", "player", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "player@example.com", "other", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.SignIn(ctx, "nobody@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignUp(ctx, "player@example.com", "player", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "player@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
