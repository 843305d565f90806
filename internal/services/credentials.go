package services

import (
	"context"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/store"
)

// PasswordCost is the bcrypt work factor for stored passwords
const PasswordCost = 10

// Credentials creates accounts and checks passwords. Passwords are hashed
// here, before anything reaches the store.
type Credentials struct {
	users store.UserStore
	cost  int
}

func NewCredentials(users store.UserStore) *Credentials {
	return &Credentials{users: users, cost: PasswordCost}
}

// CreateUser validates input, hashes the password and persists the account.
// A duplicate email is a validation error and leaves the store unchanged.
func (c *Credentials) CreateUser(ctx context.Context, email, password, fullName string) (*models.User, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)

	switch {
	case fullName == "":
		return nil, apperrors.Validation("Full name is required")
	case email == "":
		return nil, apperrors.Validation("Email is required")
	case password == "":
		return nil, apperrors.Validation("Password is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return nil, apperrors.Validation("Email is invalid")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		Email:        strings.ToLower(addr.Address),
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := c.users.CreateUser(ctx, user); err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// FindByEmail looks up an account. The password hash is loaded only when
// withPassword is set.
func (c *Credentials) FindByEmail(ctx context.Context, email string, withPassword bool) (*models.User, error) {
	user, err := c.users.FindUserByEmail(ctx, strings.TrimSpace(email), withPassword)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// VerifyPassword reports whether candidate matches the stored hash. Any
// failure, including a missing hash, is a mismatch.
func (c *Credentials) VerifyPassword(user *models.User, candidate string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil
}
