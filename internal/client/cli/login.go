package cli

import (
	"context"

	"github.com/dmitrijs2005/usuarios/internal/client/services"
	"github.com/dmitrijs2005/usuarios/internal/common"
)

// Login is the login view: it asks for email and password and, once signed
// in, shows the home view. Failures are described to the user and returned.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := loginForm{Email: email, Password: password}
	if err := a.report(checkForm(a.validate, form)); err != nil {
		return err
	}

	if _, err := a.auth.Login(ctx, form.Email, password); err != nil {
		a.logger.Debug(ctx, "login failed", "error", err)
		a.say(services.DescribeLoginError(err))
		return err
	}

	return a.Home(ctx)
}
