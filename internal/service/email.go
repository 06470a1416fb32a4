package service

import (
	"context"
	"fmt"
	"strings"

	"studydesk/internal/document"
	"studydesk/internal/notify"
)

// SaveEmailConfig stores the notification email settings. An empty password
// keeps the stored one. An enabled config needs an address, a password
// (unless supplied from a secret file) and a resolvable SMTP server.
func (s *Service) SaveEmailConfig(ctx context.Context, cfg notify.EmailConfig) (*notify.EmailConfig, error) {
	cfg.Email = strings.TrimSpace(cfg.Email)
	cfg.Service = strings.TrimSpace(cfg.Service)

	_, err := s.store.Update(ctx, func(d *document.Document) error {
		if cfg.Password == "" && d.EmailConfig != nil {
			cfg.Password = d.EmailConfig.Password
		}
		if err := s.validateEmailConfig(cfg); err != nil {
			return err
		}
		stored := cfg
		d.EmailConfig = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Service) validateEmailConfig(cfg notify.EmailConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Email == "" {
		return fmt.Errorf("%w: email address is required", ErrValidation)
	}
	if cfg.Password == "" && !s.externalPassword {
		return fmt.Errorf("%w: email password is required", ErrValidation)
	}
	if _, _, err := notify.ResolveServer(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
