package services

import (
	"context"
	"strconv"

	"github.com/vytor/trelloflash/internal/errors"
	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/models"
	"github.com/vytor/trelloflash/internal/repository"
	"github.com/vytor/trelloflash/internal/session"
)

const (
	settingSelectionMode = "selection_mode"
	settingCardCount     = "card_count"
)

// PreferenceService remembers the selection mode and card count of the
// last started session.
type PreferenceService interface {
	Get(ctx context.Context) (*models.Preferences, error)
	Update(ctx context.Context, prefs models.Preferences) (*models.Preferences, error)
}

type preferenceService struct {
	settings repository.SettingsRepository
	defaults models.Preferences
}

// NewPreferenceService creates a new PreferenceService. defaults apply
// until the first Update.
func NewPreferenceService(settings repository.SettingsRepository, defaults models.Preferences) PreferenceService {
	return &preferenceService{settings: settings, defaults: defaults}
}

func (s *preferenceService) Get(ctx context.Context) (*models.Preferences, error) {
	log := logger.FromContext(ctx)

	prefs := s.defaults

	mode, ok, err := s.settings.Get(ctx, settingSelectionMode)
	if err != nil {
		log.Error("failed to read selection mode: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if ok {
		if m, err := session.ParseMode(mode); err == nil {
			prefs.SelectionMode = m.String()
		} else {
			log.Warn("ignoring stored selection mode %q: %v", mode, err)
		}
	}

	count, ok, err := s.settings.Get(ctx, settingCardCount)
	if err != nil {
		log.Error("failed to read card count: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if ok {
		if n, err := strconv.Atoi(count); err == nil && n > 0 {
			prefs.CardCount = n
		} else {
			log.Warn("ignoring stored card count %q", count)
		}
	}

	return &prefs, nil
}

func (s *preferenceService) Update(ctx context.Context, prefs models.Preferences) (*models.Preferences, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating preferences: mode=%s, count=%d", prefs.SelectionMode, prefs.CardCount)

	mode, err := session.ParseMode(prefs.SelectionMode)
	if err != nil {
		return nil, errors.NewValidationError("selection_mode", err.Error())
	}
	if prefs.CardCount < 1 {
		return nil, errors.NewValidationError("card_count", "must be at least 1")
	}

	if err := s.settings.Set(ctx, settingSelectionMode, mode.String()); err != nil {
		log.Error("failed to store selection mode: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if err := s.settings.Set(ctx, settingCardCount, strconv.Itoa(prefs.CardCount)); err != nil {
		log.Error("failed to store card count: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &models.Preferences{SelectionMode: mode.String(), CardCount: prefs.CardCount}, nil
}
