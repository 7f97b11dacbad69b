package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Skotchmaster/geotag_api/internal/apikey"
	"github.com/Skotchmaster/geotag_api/internal/apperr"
	"github.com/Skotchmaster/geotag_api/internal/hash"
	"github.com/Skotchmaster/geotag_api/internal/logging"
	"github.com/Skotchmaster/geotag_api/internal/models"
	"github.com/Skotchmaster/geotag_api/internal/repo"
	"github.com/Skotchmaster/geotag_api/internal/validate"
)

type AuthService struct {
	Store  UserStore
	Events Publisher
}

// Register validates the credentials, stores the user and returns its new
// API key. Validation failures come back as *apperr.Error.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validate.Registration(username, email, password); err != nil {
		return "", err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: pwHash,
		APIKey:   apikey.New(),
	}
	if err := s.Store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) || errors.Is(err, repo.ErrUsernameTaken) {
			l.Warn("register_error", "status", 403, "reason", "user already exists", "error", err)
			return "", err
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return "", fmt.Errorf("create user: %w", err)
	}

	if s.Events != nil {
		pctx, cancel := publishContext(ctx)
		defer cancel()
		ev := UserEvent{Type: "user_registered", UserID: user.ID, Username: user.Username}
		if err := s.Events.PublishEvent(pctx, UserTopic, strconv.FormatUint(uint64(user.ID), 10), ev); err != nil {
			l.Warn("publish_event_failed", "topic", UserTopic, "error", err)
		}
	}

	l.Info("register_success", "user_id", user.ID)
	return user.APIKey, nil
}

// Login returns the stored API key of the user with matching credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if !validate.Email(email) {
		return "", apperr.Validation(http.StatusOK, validate.MsgInvalidEmail)
	}

	user, err := s.Store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 200, "reason", "unknown email")
			return "", ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return "", fmt.Errorf("find user: %w", err)
	}

	if !hash.CheckPassword(user.Password, password) {
		l.Warn("login_failed", "status", 200, "reason", "wrong password", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	l.Info("login_success", "user_id", user.ID)
	return user.APIKey, nil
}

// Authenticate resolves the user owning key.
func (s *AuthService) Authenticate(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, repo.ErrNotFound
	}
	return s.Store.UserByAPIKey(ctx, key)
}
