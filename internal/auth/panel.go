package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/raysh454/fraudeye/internal/api"
	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
)

// AuthAPI is the subset of the backend the sign-in form needs.
type AuthAPI interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
}

// ErrAuthFailed is wrapped when the backend gives no reason.
var ErrAuthFailed = errors.New("auth failed")

// authFailedMessage is shown when the backend gives no reason.
const authFailedMessage = "Auth failed"

// AuthError carries the message shown next to the sign-in form.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// Panel is the sign-in / sign-up form: it calls the backend and, on success,
// hands the result to the Store.
type Panel struct {
	api    AuthAPI
	store  *Store
	logger logging.Logger
}

func NewPanel(a AuthAPI, store *Store, logger logging.Logger) *Panel {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Panel{api: a, store: store, logger: logger.With(logging.Field{Key: "component", Value: "auth_panel"})}
}

func (p *Panel) Login(ctx context.Context, email, password string) (*model.User, error) {
	res, err := p.api.Login(ctx, model.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return nil, p.authError("login", err)
	}
	return p.save(ctx, res)
}

func (p *Panel) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	res, err := p.api.Register(ctx, model.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return nil, p.authError("register", err)
	}
	return p.save(ctx, res)
}

func (p *Panel) Logout(ctx context.Context) error {
	return p.store.Logout(ctx)
}

func (p *Panel) save(ctx context.Context, res *model.AuthResponse) (*model.User, error) {
	if err := p.store.SaveSession(ctx, res.User, res.Token); err != nil {
		p.logger.Error("saving session", logging.Field{Key: "error", Value: err})
		return nil, &AuthError{Message: authFailedMessage, Err: err}
	}
	u := res.User
	return &u, nil
}

func (p *Panel) authError(op string, err error) error {
	p.logger.Warn(op+" failed", logging.Field{Key: "error", Value: err})
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &AuthError{Message: apiErr.Message, Err: err}
	}
	return &AuthError{Message: authFailedMessage, Err: errors.Join(ErrAuthFailed, err)}
}
