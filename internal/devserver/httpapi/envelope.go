// Package httpapi exposes the users service over the usuarios REST API.
//
// Every response is a JSON envelope: {"body": ...} on success and
// {"error": "..."} otherwise.
package httpapi

import (
	"github.com/dmitrijs2005/usuarios/internal/devserver/users"
)

type envelope struct {
	Error string `json:"error,omitempty"`
	Body  any    `json:"body,omitempty"`
}

// userResponse is the public shape of an account; the password hash never
// leaves the server.
type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"nombre_usuario"`
	Email    string `json:"correo_electronico"`
	Status   string `json:"estatus"`
}

func toResponse(u *users.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Status:   u.Status,
	}
}
