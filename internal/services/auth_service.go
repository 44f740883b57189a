package services

import (
	"context"
	"strings"

	"github.com/vytor/trelloflash/internal/errors"
	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/repository"
	"github.com/vytor/trelloflash/internal/trello"
)

const settingTrelloToken = "trello_token"

// AuthService stores the Trello token and checks it against Trello.
type AuthService interface {
	SetToken(ctx context.Context, token string) error
	ValidateToken(ctx context.Context) (bool, error)
	LoadStoredToken(ctx context.Context) (bool, error)
}

type authService struct {
	settings repository.SettingsRepository
	creds    *trello.Credentials
	client   trello.ClientInterface
}

// NewAuthService creates a new AuthService. creds is the value shared with
// the Trello client.
func NewAuthService(settings repository.SettingsRepository, creds *trello.Credentials, client trello.ClientInterface) AuthService {
	return &authService{settings: settings, creds: creds, client: client}
}

func (s *authService) SetToken(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" {
		return errors.NewValidationError("token", "cannot be empty")
	}

	if err := s.settings.Set(ctx, settingTrelloToken, token); err != nil {
		log.Error("failed to store token: %v", err)
		return errors.NewInternalError(err)
	}
	s.creds.SetToken(token)
	log.Info("trello token updated")
	return nil
}

func (s *authService) ValidateToken(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx)

	if !s.creds.HasToken() {
		log.Debug("no token stored")
		return false, nil
	}

	ok, err := s.client.ValidateToken(ctx)
	if err != nil {
		log.Warn("token validation failed: %v", err)
		return false, errors.FromDomain(err)
	}
	if !ok {
		log.Info("stored token was rejected by trello")
	}
	return ok, nil
}

// LoadStoredToken seeds the shared credentials from storage and reports
// whether a token was found.
func (s *authService) LoadStoredToken(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx)

	token, ok, err := s.settings.Get(ctx, settingTrelloToken)
	if err != nil {
		log.Error("failed to read stored token: %v", err)
		return false, errors.NewInternalError(err)
	}
	if !ok || token == "" {
		log.Info("no stored trello token, authorization required")
		return false, nil
	}
	s.creds.SetToken(token)
	log.Info("loaded stored trello token")
	return true, nil
}
