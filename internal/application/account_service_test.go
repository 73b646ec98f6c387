package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/devlinkhq/devlink-api/internal/domain/store/storefake"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAccountService() *AccountService {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAccountService(storefake.New(), jwt, testLogger())
}

func TestRegisterIssuesToken(t *testing.T) {
	svc := newAccountService()

	token, exp, err := svc.Register(context.Background(), "Jane", "Jane@Example.com", "hunter22")
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	require.NotEmpty(t, claims.UserID)

	// registration lowercased the email
	acct, err := svc.Current(context.Background(), claims.UserID)
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", acct.Email)
	require.Empty(t, acct.Password)
	require.Contains(t, acct.Avatar, "gravatar.com")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Jane", "jane@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Other Jane", "JANE@example.com", "different")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestLogin(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Jane", "jane@example.com", "hunter22")
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "Jane@Example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Jane", "jane@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "jane@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentUnknownAccount(t *testing.T) {
	svc := newAccountService()

	_, err := svc.Current(context.Background(), "missing-id")
	require.ErrorIs(t, err, ErrUserNotFound)
}
