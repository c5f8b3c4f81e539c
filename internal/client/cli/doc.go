// Package cli provides the interactive usuarios command-line client.
//
// It wires configuration, the persisted session slot, the API client and the
// session store, then runs a REPL whose commands play the role of views:
// login, signup, home (profile card), profile edit, account removal and
// logout. Commands that need a signed-in user send the user to the login
// view instead.
//
// The REPL is started via App.Run(ctx) and only after the session store
// finished restoring the previous session.
package cli
