// Package users holds the account model, its storage and the service behind
// the reference usuarios API.
package users

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/usuarios/internal/common"
)

const (
	StatusActive   = "activo"
	StatusInactive = "inactivo"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	Status       string
	PasswordHash []byte
	CreatedAt    time.Time
}

// DuplicateEmailError reports an email that already belongs to an account.
// Its text mirrors the unique-key violation message clients look for.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("Duplicate entry '%s' for key 'correo_electronico'", e.Email)
}

func (e *DuplicateEmailError) Unwrap() error { return common.ErrorAlreadyExists }
