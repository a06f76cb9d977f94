package services

import (
	"context"
	"fmt"

	"memoirvault/internal/client/api"
	"memoirvault/internal/client/identity"
	"memoirvault/internal/logging"
)

// AuthService handles account registration and the lifetime of the local
// identity session.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout()
	IsLoggedIn() bool
	UserID() string

	// Ping probes backend reachability via the health endpoint.
	Ping(ctx context.Context) error
}

type authService struct {
	client  api.Client
	session *identity.Session
	logger  logging.Logger
}

func NewAuthService(client api.Client, session *identity.Session, logger logging.Logger) AuthService {
	return &authService{client: client, session: session, logger: logger.With("component", "auth_service")}
}

func (s *authService) Register(ctx context.Context, username, password string) error {
	if err := s.client.Register(ctx, username, password); err != nil {
		return fmt.Errorf("registration error: %w", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, username, password string) error {
	result, err := s.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	s.session.SignIn(result.Token, result.UserID)
	s.logger.Info(ctx, "signed in", "user_id", result.UserID)
	return nil
}

func (s *authService) Logout() {
	s.session.SignOut()
}

func (s *authService) IsLoggedIn() bool {
	return s.session.Active()
}

func (s *authService) UserID() string {
	return s.session.UserID()
}

func (s *authService) Ping(ctx context.Context) error {
	return s.client.Health(ctx)
}
