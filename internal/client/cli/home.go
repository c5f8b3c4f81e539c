package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/usuarios/internal/client/models"
	"github.com/dmitrijs2005/usuarios/internal/client/services"
)

// Home refreshes the current user and prints the profile card.
func (a *App) Home(ctx context.Context) error {
	u, err := a.session.Refresh(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		a.say("Please sign in first.")
		return services.ErrNotAuthenticated
	}
	a.printProfile(*u)
	return nil
}

// Refresh re-fetches the profile without redrawing the card.
func (a *App) Refresh(ctx context.Context) error {
	u, err := a.session.Refresh(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		a.say("Please sign in first.")
		return services.ErrNotAuthenticated
	}
	a.say("Profile is up to date.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.say("Signed out.")
	return nil
}

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusActive:
		return "Active"
	case models.StatusInactive:
		return "Inactive"
	default:
		return string(s)
	}
}

func (a *App) printProfile(u models.User) {
	fmt.Fprintf(a.out, "\n  [%s]  Welcome, %s!\n\n", u.Initial(), u.Username)
	fmt.Fprintf(a.out, "  Username: %s\n", u.Username)
	fmt.Fprintf(a.out, "  Email:    %s\n", u.Email)
	fmt.Fprintf(a.out, "  Status:   %s\n\n", statusLabel(u.Status))
}
