package client

import (
	"context"

	"github.com/dmitrijs2005/usuarios/internal/client/models"
)

// Client is the usuarios API contract consumed by the session store and the
// auth service.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	Register(ctx context.Context, reg models.Registration) (models.User, error)
	GetUserByID(ctx context.Context, id models.UserID) (models.User, error)
	UpdateUser(ctx context.Context, upd models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id models.UserID) error
	Close() error
}
