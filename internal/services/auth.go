package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/notify"
)

// TokenSigner issues bearer tokens for a user id.
type TokenSigner interface {
	Sign(userID uuid.UUID) (string, error)
}

// Session is the result of a successful register or login
type Session struct {
	Token string
	User  *models.User
}

// AuthService registers and logs in users
type AuthService struct {
	creds    *Credentials
	tokens   TokenSigner
	notifier notify.Notifier
	log      logrus.FieldLogger
}

func NewAuthService(creds *Credentials, tokens TokenSigner, notifier notify.Notifier, logger logrus.FieldLogger) *AuthService {
	return &AuthService{creds: creds, tokens: tokens, notifier: notifier, log: logger}
}

// Register creates the account, sends a welcome email and returns a token.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*Session, error) {
	user, err := s.creds.CreateUser(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.notifier.Enqueue(notify.Welcome(user.Email, user.FullName))
	s.log.WithField("user_id", user.ID).Info("user registered")
	return &Session{Token: token, User: user}, nil
}

// Login checks credentials. Unknown email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apperrors.Validation("Email and password are required")
	}

	user, err := s.creds.FindByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if !s.creds.VerifyPassword(user, password) {
		return nil, invalidCredentials()
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	user.PasswordHash = ""
	return &Session{Token: token, User: user}, nil
}

func invalidCredentials() error {
	return apperrors.New(apperrors.CodeUnauthorized, "Invalid email or password")
}
