// Package services contains application services for the usuarios client.
// This file defines the authentication service: sign-up, sign-in, profile
// edits and account removal, plus the user-facing wording of their failures.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/usuarios/internal/client/client"
	"github.com/dmitrijs2005/usuarios/internal/client/models"
	"github.com/dmitrijs2005/usuarios/internal/common"
	"github.com/dmitrijs2005/usuarios/internal/logging"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Server messages the API uses for credential failures.
const (
	msgUserNotFound     = "Usuario no encontrado"
	msgWrongPassword    = "Contraseña incorrecta"
	msgDuplicateEntries = "Duplicate entry"
)

// Messages shown to the user.
const (
	MsgEmailNotRegistered = "This email is not linked to any registered account"
	MsgIncorrectPassword  = "Incorrect password"
	MsgEmailTaken         = "This email is already registered"
	MsgLoginFailed        = "Login failed. Please try again."
	MsgRegisterFailed     = "Registration failed. Please try again."
	MsgUpdateFailed       = "Profile update failed. Please try again."
	MsgDeleteFailed       = "Account removal failed. Please try again."
)

// Session is the part of the session store the service drives.
type Session interface {
	Login(ctx context.Context, email, password string) (models.User, error)
	Logout(ctx context.Context)
	Replace(ctx context.Context, u models.User) error
	Current() (models.User, bool)
}

// RegisterInput is a validated sign-up form.
type RegisterInput struct {
	Username string
	Email    string
	Password []byte
}

// UpdateInput carries profile changes. Empty fields keep the current value;
// an empty Password leaves the password unchanged.
type UpdateInput struct {
	Username string
	Email    string
	Status   models.Status
	Password []byte
}

// AuthService defines the account operations used by the CLI.
//
// Password buffers passed in are wiped before the call returns.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (models.User, error)
	Login(ctx context.Context, email string, password []byte) (models.User, error)
	UpdateProfile(ctx context.Context, in UpdateInput) (models.User, error)
	DeleteAccount(ctx context.Context) error
	Logout(ctx context.Context)
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session Session
	logger  logging.Logger
}

// NewAuthService constructs an AuthService over the API client and the
// session store.
func NewAuthService(c client.Client, s Session, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{client: c, session: s, logger: logger}
}

// Register creates the account on the server. It does not sign in.
func (a *authService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	defer common.WipeByteArray(in.Password)

	u, err := a.client.Register(ctx, models.Registration{
		Username: in.Username,
		Email:    in.Email,
		Password: string(in.Password),
	})
	if err != nil {
		return models.User{}, err
	}
	a.logger.Info(ctx, "account registered", "user_id", u.ID)
	return u, nil
}

// Login signs in through the session store; errors are passed through.
func (a *authService) Login(ctx context.Context, email string, password []byte) (models.User, error) {
	defer common.WipeByteArray(password)
	return a.session.Login(ctx, email, string(password))
}

// UpdateProfile posts the full current record with the requested changes
// and stores what the server returns.
func (a *authService) UpdateProfile(ctx context.Context, in UpdateInput) (models.User, error) {
	defer common.WipeByteArray(in.Password)

	cur, ok := a.session.Current()
	if !ok {
		return models.User{}, ErrNotAuthenticated
	}

	upd := models.UserUpdate{
		ID:       cur.ID,
		Username: cur.Username,
		Email:    cur.Email,
		Status:   cur.Status,
	}
	if in.Username != "" {
		upd.Username = in.Username
	}
	if in.Email != "" {
		upd.Email = in.Email
	}
	if in.Status != "" {
		upd.Status = in.Status
	}
	if len(in.Password) > 0 {
		upd.Password = string(in.Password)
	}

	u, err := a.client.UpdateUser(ctx, upd)
	if err != nil {
		return models.User{}, err
	}
	if err := a.session.Replace(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("store updated profile: %w", err)
	}
	a.logger.Info(ctx, "profile updated", "user_id", u.ID)
	return u, nil
}

// DeleteAccount removes the current user on the server and signs out.
// An account the server no longer knows counts as removed.
func (a *authService) DeleteAccount(ctx context.Context) error {
	cur, ok := a.session.Current()
	if !ok {
		return ErrNotAuthenticated
	}

	if err := a.client.DeleteUser(ctx, cur.ID); err != nil && !errors.Is(err, client.ErrNotFound) {
		return err
	}
	a.session.Logout(ctx)
	a.logger.Info(ctx, "account deleted", "user_id", cur.ID)
	return nil
}

func (a *authService) Logout(ctx context.Context) {
	a.session.Logout(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// DescribeLoginError maps a Login failure to the message shown to the user.
func DescribeLoginError(err error) string {
	msg, _ := client.ServerMessage(err)
	switch msg {
	case msgUserNotFound:
		return MsgEmailNotRegistered
	case msgWrongPassword:
		return MsgIncorrectPassword
	default:
		return MsgLoginFailed
	}
}

// DescribeRegisterError maps a Register failure to the message shown to the
// user.
func DescribeRegisterError(err error) string {
	if isDuplicate(err) {
		return MsgEmailTaken
	}
	return MsgRegisterFailed
}

// DescribeUpdateError maps an UpdateProfile failure to the message shown to
// the user.
func DescribeUpdateError(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "Please sign in first"
	case isDuplicate(err):
		return MsgEmailTaken
	default:
		return MsgUpdateFailed
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, client.ErrConflict) {
		return true
	}
	msg, ok := client.ServerMessage(err)
	return ok && strings.Contains(msg, msgDuplicateEntries)
}
