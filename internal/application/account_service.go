package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/store"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// AccountService covers registration, login, and current-account lookup.
// Password verification is delegated to bcrypt and has no side effects on
// failure; a failed login leaves no trace beyond a log line.
type AccountService struct {
	Store  store.Store
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAccountService(st store.Store, jwt *helpers.JWTManager, logger *logrus.Logger) *AccountService {
	return &AccountService{Store: st, JWT: jwt, Logger: logger}
}

// Register creates the account and issues a session token. The email is
// case-normalized before storage and doubles as the collection's unique key,
// so a duplicate registration surfaces as ErrAlreadyRegistered rather than a
// generic failure.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (string, time.Time, error) {
	email = strings.ToLower(email)

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", time.Time{}, err
	}

	acct := entity.Account{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hash,
		Avatar:   helpers.GravatarURL(email),
		Date:     time.Now().UTC(),
	}

	if err := s.Store.Create(ctx, store.Users, store.Doc{ID: acct.ID, Key: acct.Email, Body: acct}); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", time.Time{}, ErrAlreadyRegistered
		}
		return "", time.Time{}, err
	}

	return s.JWT.Generate(acct.ID)
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.ToLower(email)

	var acct entity.Account
	err := s.Store.FindOne(ctx, store.Users, store.Filter{Fields: map[string]string{"email": email}}, &acct)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}

	if !helpers.CompareHashAndPassword(acct.Password, password) {
		if s.Logger != nil {
			s.Logger.WithField("user_id", acct.ID).Debug("password mismatch")
		}
		return "", time.Time{}, ErrInvalidCredentials
	}

	return s.JWT.Generate(acct.ID)
}

// Current returns the authenticated account without its password hash.
func (s *AccountService) Current(ctx context.Context, userID string) (entity.Account, error) {
	var acct entity.Account
	err := s.Store.FindOne(ctx, store.Users, store.Filter{ID: userID}, &acct)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return entity.Account{}, ErrUserNotFound
		}
		return entity.Account{}, err
	}
	return acct.Sanitized(), nil
}
