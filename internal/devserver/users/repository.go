package users

import "context"

// Repository stores accounts. Lookups of missing rows return
// common.ErrorNotFound; a taken email returns *DuplicateEmailError.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Update overwrites username, email and status. An empty PasswordHash
	// keeps the stored one.
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id int64) error
}
