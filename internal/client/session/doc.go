// Package session holds the client-side authentication state.
//
// A Store owns the current user and mirrors it into a persisted slot so the
// session survives restarts. It is created once at startup, initialized
// before the first view renders and passed down to everything that needs the
// current user.
//
// Writes go to the slot first and to memory second, so the two are either
// both absent or hold the same record. Login and Logout are ordered by when
// they were called: a Login result is dropped only if a later Login or Logout
// already committed. A Refresh result is dropped if anything committed while
// it was in flight.
package session
