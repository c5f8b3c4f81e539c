package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/usuarios/internal/common"
)

// MemoryRepository keeps accounts in process memory. Returned users are
// copies.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, byID: map[int64]User{}}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return nil, &DuplicateEmailError{Email: user.Email}
	}

	u := *user
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	u.PasswordHash = append([]byte(nil), user.PasswordHash...)
	r.nextID++
	r.byID[u.ID] = u

	return copyUser(u), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Update(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return nil, &DuplicateEmailError{Email: user.Email}
	}

	cur.Username = user.Username
	cur.Email = user.Email
	cur.Status = user.Status
	if len(user.PasswordHash) > 0 {
		cur.PasswordHash = append([]byte(nil), user.PasswordHash...)
	}
	r.byID[cur.ID] = cur

	return copyUser(cur), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// emailTaken must be called with mu held.
func (r *MemoryRepository) emailTaken(email string, except int64) bool {
	for id, u := range r.byID {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func copyUser(u User) *User {
	u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &u
}
