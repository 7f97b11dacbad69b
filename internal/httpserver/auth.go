package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/geotag_api/internal/apperr"
	"github.com/Skotchmaster/geotag_api/internal/logging"
	"github.com/Skotchmaster/geotag_api/internal/repo"
	"github.com/Skotchmaster/geotag_api/internal/service"
	"github.com/Skotchmaster/geotag_api/internal/transport"
)

const (
	MsgUserAdded          = "User has been successfully added"
	MsgEmailExists        = "Email already exists"
	MsgUsernameExists     = "Username already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgSomethingWrong     = "Something went wrong"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	args, err := transport.ArgsFrom(c)
	if err != nil {
		return err
	}
	var req transport.RegisterRequest
	if err := transport.Decode(args, &req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid arguments", "error", err)
		return err
	}

	key, err := h.Svc.Register(ctx, *req.Username, *req.Email, *req.Password)
	if err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return err
		}
		switch {
		case errors.Is(err, repo.ErrEmailTaken):
			return apperr.Conflict(MsgEmailExists)
		case errors.Is(err, repo.ErrUsernameTaken):
			return apperr.Conflict(MsgUsernameExists)
		}
		return apperr.Internal(MsgSomethingWrong, err)
	}

	return c.JSON(http.StatusCreated, transport.RegisterResponse{Message: MsgUserAdded, APIKey: key})
}

// Login answers bad credentials with 200 like the legacy API did.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	args, err := transport.ArgsFrom(c)
	if err != nil {
		return err
	}
	var req transport.LoginRequest
	if err := transport.Decode(args, &req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid arguments", "error", err)
		return err
	}

	key, err := h.Svc.Login(ctx, *req.Email, *req.Password)
	if err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return err
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_error", "status", 200, "reason", "invalid credentials")
			return apperr.Auth(MsgInvalidCredentials).WithStatus(http.StatusOK)
		}
		return apperr.Internal(MsgSomethingWrong, err)
	}

	return c.JSON(http.StatusOK, transport.LoginResponse{APIKey: key})
}
