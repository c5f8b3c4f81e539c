package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	u, ok := a.session.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf(" (%s)", u.Username)
}

// Root restores the session, shows the landing view and runs the REPL.
// Nothing is rendered before the session store reports ready.
func (a *App) Root(ctx context.Context) {
	go a.session.Initialize(ctx)

	select {
	case <-a.session.Ready():
	case <-ctx.Done():
		return
	}

	printlnFn("Welcome to usuarios CLI (type 'help' for commands)")

	if a.isLoggedIn() {
		_ = a.Home(ctx)
	} else {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
