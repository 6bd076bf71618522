// Package users implements registration and credential verification on top
// of the shared document store.
package users

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asmolyar/webpen/internal/common"
	"github.com/asmolyar/webpen/internal/cryptox"
	"github.com/asmolyar/webpen/internal/logging"
	"github.com/asmolyar/webpen/internal/server/auth"
	"github.com/asmolyar/webpen/internal/server/config"
	"github.com/asmolyar/webpen/internal/server/models"
)

// Store is the slice of the document store this service needs.
type Store interface {
	Load(ctx context.Context) (models.Document, error)
	Update(ctx context.Context, fn func(doc models.Document) error) error
}

type Service struct {
	store           Store
	logger          logging.Logger
	jwtSecret       []byte
	sessionValidity time.Duration

	dummyOnce sync.Once
	dummy     string
}

func NewService(store Store, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		store:           store,
		logger:          logger.With("module", "users"),
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
	}
}

// Register creates a new user record with a hashed credential and empty
// projects and profile. It fails with common.ErrAlreadyExists if the
// username is already taken; existing records are never touched.
func (s *Service) Register(ctx context.Context, username, password string) error {

	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	err = s.store.Update(ctx, func(doc models.Document) error {
		if _, ok := doc[username]; ok {
			return common.ErrAlreadyExists
		}
		doc[username] = models.NewUserRecord(hash)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "user registered", "username", username)
	return nil
}

// Login verifies the credentials and returns a signed session token.
// An unknown username and a wrong password both fail with the same
// common.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {

	doc, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}

	rec, ok := doc[username]
	if !ok {
		// burn a verification against a throwaway hash so the missing-user
		// path costs the same as a failed password check
		cryptox.VerifyPassword(s.dummyHash(), password)
		return "", common.ErrInvalidCredentials
	}

	if !cryptox.VerifyPassword(rec.PasswordHash, password) {
		return "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(username, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "username", username)
	return token, nil
}

func (s *Service) dummyHash() string {
	s.dummyOnce.Do(func() {
		h, err := cryptox.HashPassword("throwaway")
		if err == nil {
			s.dummy = h
		}
	})
	return s.dummy
}
