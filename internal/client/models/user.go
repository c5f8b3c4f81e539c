// Package models defines client-side data models used by the usuarios client.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Status is the account state reported by the server.
type Status string

const (
	StatusActive   Status = "activo"
	StatusInactive Status = "inactivo"
)

// IsActive reports whether the account is enabled.
func (s Status) IsActive() bool { return s == StatusActive }

// UserID is the server-assigned account identifier. It holds the JSON token
// the server sent, so numeric ids (42) and string ids ("6650f1c2...") are
// both passed back exactly as received.
type UserID string

// String returns the id as text, without JSON quoting.
func (id UserID) String() string {
	var s string
	if json.Unmarshal([]byte(id), &s) == nil {
		return s
	}
	return string(id)
}

// IsZero reports whether id is missing or one of the zero tokens.
func (id UserID) IsZero() bool {
	switch id {
	case "", "0", "null", `""`:
		return true
	}
	return false
}

func (id UserID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if json.Valid([]byte(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v.(type) {
	case nil:
		*id = ""
	case string, json.Number:
		*id = UserID(b)
	default:
		return fmt.Errorf("user id must be a string or a number, got %s", b)
	}
	return nil
}

// User is the account record returned by the usuarios API.
//
// It deliberately has no password field: anything credential-like the server
// might send is dropped on decode and never reaches the session store.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"nombre_usuario"`
	Email    string `json:"correo_electronico"`
	Status   Status `json:"estatus"`
}

// IsZero reports whether u carries no server-assigned identity.
func (u User) IsZero() bool { return u.ID.IsZero() }

// Initial returns the upper-cased first letter of the username, or "U".
func (u User) Initial() string {
	name := strings.TrimSpace(u.Username)
	if name == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"correo_electronico"`
	Password string `json:"password"`
}

// Registration is the sign-up request payload.
type Registration struct {
	Username string `json:"nombre_usuario"`
	Email    string `json:"correo_electronico"`
	Password string `json:"password"`
}

// UserUpdate is the full-record update payload. Password is optional and only
// sent when the user asked to change it.
type UserUpdate struct {
	ID       UserID `json:"id"`
	Username string `json:"nombre_usuario"`
	Email    string `json:"correo_electronico"`
	Status   Status `json:"estatus"`
	Password string `json:"password,omitempty"`
}
