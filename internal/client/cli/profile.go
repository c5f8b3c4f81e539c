package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/usuarios/internal/client/models"
	"github.com/dmitrijs2005/usuarios/internal/client/services"
	"github.com/dmitrijs2005/usuarios/internal/common"
)

// Edit asks for profile changes; empty answers keep the current values.
func (a *App) Edit(ctx context.Context) error {
	cur, ok := a.session.Current()
	if !ok {
		a.say("Please sign in first.")
		return services.ErrNotAuthenticated
	}

	username, err := getSimpleText(a.reader, "New username (empty keeps "+cur.Username+")", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "New email (empty keeps "+cur.Email+")", a.out)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "Status activo/inactivo (empty keeps "+string(cur.Status)+")", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "New password (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := updateForm{Username: username, Email: email, Status: strings.ToLower(status), Password: password}
	if err := a.report(checkForm(a.validate, form)); err != nil {
		return err
	}
	if form.empty() {
		a.say("Nothing to change.")
		return nil
	}

	u, err := a.auth.UpdateProfile(ctx, services.UpdateInput{
		Username: form.Username,
		Email:    form.Email,
		Status:   models.Status(form.Status),
		Password: password,
	})
	if err != nil {
		a.logger.Debug(ctx, "profile update failed", "error", err)
		a.say(services.DescribeUpdateError(err))
		return err
	}

	a.say("Profile updated.")
	a.printProfile(u)
	return nil
}

// Delete removes the account after an explicit confirmation.
func (a *App) Delete(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type 'yes' to permanently delete your account", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		a.say("Cancelled.")
		return nil
	}

	if err := a.auth.DeleteAccount(ctx); err != nil {
		a.logger.Debug(ctx, "account removal failed", "error", err)
		a.say(services.MsgDeleteFailed)
		return err
	}
	a.say("Account deleted. Goodbye!")
	return nil
}
