package services

import (
	"context"
	"fmt"
	"time"

	"skb-backend/models"
	"skb-backend/utils"
)

// TokenIssuer mints the session token handed out after a successful login.
type TokenIssuer interface {
	Issue(role string) (string, time.Time, error)
}

type AuthService struct {
	credentials CredentialStore
	tokens      TokenIssuer
}

func NewAuthService(credentials CredentialStore, tokens TokenIssuer) *AuthService {
	return &AuthService{credentials: credentials, tokens: tokens}
}

// Authenticate checks username and password against the stored credential.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Identity, error) {
	cred, err := s.credentials.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, cred.PasswordHash) {
		return nil, models.ErrPasswordMismatch
	}
	return &models.Identity{Username: cred.Username, Role: models.RoleAdmin}, nil
}

// Login authenticates and returns a signed session token with its expiry.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	identity, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", time.Time{}, err
	}
	token, exp, err := s.tokens.Issue(identity.Role)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, exp, nil
}
