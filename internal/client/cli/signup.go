package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/dmitrijs2005/usuarios/internal/client/services"
	"github.com/dmitrijs2005/usuarios/internal/common"
)

// sleepFn waits d or until ctx is done. Tests replace it.
var sleepFn = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Signup is the registration view. After the account is created it waits
// AutoLoginDelay and signs in with the same credentials; if that fails the
// login view is shown.
func (a *App) Signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := signupForm{Username: username, Email: email, Password: password}
	if err := a.report(checkForm(a.validate, form)); err != nil {
		return err
	}

	// Register wipes its copy; keep one for the automatic sign-in.
	loginPassword := bytes.Clone(password)
	defer common.WipeByteArray(loginPassword)

	if _, err := a.auth.Register(ctx, services.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: password,
	}); err != nil {
		a.logger.Debug(ctx, "registration failed", "error", err)
		a.say(services.DescribeRegisterError(err))
		return err
	}

	a.say("Account created! Signing you in...")
	if err := sleepFn(ctx, a.config.AutoLoginDelay); err != nil {
		return err
	}

	if _, err := a.auth.Login(ctx, form.Email, loginPassword); err != nil {
		a.logger.Warn(ctx, "automatic sign-in failed", "error", err)
		a.say("Automatic sign-in failed, please sign in.")
		return a.Login(ctx)
	}
	return a.Home(ctx)
}
