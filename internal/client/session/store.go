package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/usuarios/internal/client/models"
	"github.com/dmitrijs2005/usuarios/internal/client/repositories/slots"
	"github.com/dmitrijs2005/usuarios/internal/logging"
)

// DefaultSlotName is the persisted slot holding the current user.
const DefaultSlotName = "currentUser"

// ErrSuperseded is returned by Login when a Login or Logout issued after it
// has already committed, and by Replace when the record is not the current
// user's. The store keeps the newer state.
var ErrSuperseded = errors.New("session changed while the request was in flight")

// API is the part of the usuarios API the store calls.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	GetUserByID(ctx context.Context, id models.UserID) (models.User, error)
}

// State is the externally visible session state.
type State int

const (
	Uninitialized State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "uninitialized"
	}
}

// Option customizes a Store.
type Option func(*Store)

// WithSlotName overrides DefaultSlotName.
func WithSlotName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.slotName = name
		}
	}
}

// WithRefreshErrorHandler registers fn to be called with every Refresh
// failure. Refresh itself never returns them.
func WithRefreshErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onRefreshError = fn }
}

type Store struct {
	api      API
	slots    slots.Repository
	logger   logging.Logger
	slotName string

	onRefreshError func(error)

	// commitMu serializes commits (slot write + memory swap).
	commitMu sync.Mutex

	mu          sync.Mutex
	current     *models.User
	initialized bool
	// gen counts commits; a Refresh result is dropped if it moved.
	gen uint64
	// issued numbers Login and Logout calls in the order they start;
	// identity is the number of the last one that committed.
	issued   uint64
	identity uint64

	initOnce sync.Once
	ready    chan struct{}
}

func NewStore(api API, repo slots.Repository, logger logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{
		api:      api,
		slots:    repo,
		logger:   logger,
		slotName: DefaultSlotName,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready is closed once Initialize has finished.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// Initialize restores the session from the persisted slot. It never fails:
// a missing, unreadable or corrupt slot yields no session. A corrupt slot is
// erased. Only the first call does anything.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		defer close(s.ready)
		s.initialize(ctx)
	})
}

func (s *Store) initialize(ctx context.Context) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	user := s.restore(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		// a transition already committed; it is newer than the slot
		return
	}
	s.current = user
	s.initialized = true
}

func (s *Store) restore(ctx context.Context) *models.User {
	raw, err := s.slots.Get(ctx, s.slotName)
	if errors.Is(err, slots.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn(ctx, "session slot unreadable, starting signed out", "slot", s.slotName, "error", err)
		return nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || u.IsZero() {
		if err == nil {
			err = errors.New("record has no id")
		}
		s.logger.Warn(ctx, "session slot corrupt, discarding", "slot", s.slotName, "error", err)
		if err := s.slots.Delete(ctx, s.slotName); err != nil {
			s.logger.Error(ctx, "failed to erase corrupt session slot", "slot", s.slotName, "error", err)
		}
		return nil
	}
	return &u
}

// Login authenticates against the API and makes the returned record the
// current user. API errors are returned as is, so their message is the
// server's. On any error the session is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) (models.User, error) {
	seq := s.issue()

	u, err := s.api.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return models.User{}, err
	}

	ok, err := s.commit(ctx, ticket{seq: seq}, &u)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		s.logger.Debug(ctx, "login result superseded", "user_id", u.ID)
		return models.User{}, ErrSuperseded
	}

	s.logger.Info(ctx, "signed in", "user_id", u.ID)
	return u, nil
}

// Logout forgets the current user. It always succeeds; a failure to erase
// the slot is logged.
func (s *Store) Logout(ctx context.Context) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	seq := s.issue()

	if err := s.slots.Delete(ctx, s.slotName); err != nil {
		s.logger.Error(ctx, "failed to erase session slot", "slot", s.slotName, "error", err)
	}

	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.initialized = true
	s.gen++
	s.identity = seq
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info(ctx, "signed out", "user_id", prev.ID)
	}
}

// Refresh re-fetches the current user. Without a session it returns
// (nil, nil) and makes no call. A failed fetch leaves the session as it was,
// is logged and reported to the refresh-error handler, and the current
// record is returned.
func (s *Store) Refresh(ctx context.Context) (*models.User, error) {
	cur, ok, gen := s.snapshot()
	if !ok {
		return nil, nil
	}

	fresh, err := s.api.GetUserByID(ctx, cur.ID)
	if err == nil {
		var committed bool
		committed, err = s.commit(ctx, ticket{gen: gen}, &fresh)
		if err == nil && committed {
			return &fresh, nil
		}
		if err == nil {
			s.logger.Debug(ctx, "refresh result superseded", "user_id", cur.ID)
			return s.currentPtr(), nil
		}
	}

	s.logger.Warn(ctx, "refresh failed, keeping cached user", "user_id", cur.ID, "error", err)
	if s.onRefreshError != nil {
		s.onRefreshError(err)
	}
	return s.currentPtr(), nil
}

// Replace swaps in an updated record for the current user, e.g. after a
// profile edit. It fails with ErrSuperseded when u is not the current user.
func (s *Store) Replace(ctx context.Context, u models.User) error {
	cur, ok, gen := s.snapshot()
	if !ok || cur.ID != u.ID {
		return ErrSuperseded
	}

	committed, err := s.commit(ctx, ticket{gen: gen}, &u)
	if err != nil {
		return err
	}
	if !committed {
		return ErrSuperseded
	}
	return nil
}

// Current returns a copy of the current user.
func (s *Store) Current() (models.User, bool) {
	u, ok, _ := s.snapshot()
	return u, ok
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.current != nil:
		return Authenticated
	case s.initialized:
		return Unauthenticated
	default:
		return Uninitialized
	}
}

func (s *Store) snapshot() (models.User, bool, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.User{}, false, s.gen
	}
	return *s.current, true, s.gen
}

func (s *Store) currentPtr() *models.User {
	u, ok := s.Current()
	if !ok {
		return nil
	}
	return &u
}

// issue numbers a Login or Logout call.
func (s *Store) issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// ticket says when a result may still be committed. A Login carries seq and
// loses only to a later Login or Logout. A Refresh or Replace carries gen and
// loses to any commit made after it was taken.
type ticket struct {
	seq uint64
	gen uint64
}

func (t ticket) stale(s *Store) bool {
	if t.seq != 0 {
		return s.identity > t.seq
	}
	return s.gen != t.gen
}

// commit persists u and then publishes it unless t went stale. It reports
// whether u was committed.
func (s *Store) commit(ctx context.Context, t ticket, u *models.User) (bool, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	stale := t.stale(s)
	s.mu.Unlock()
	if stale {
		return false, nil
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return false, fmt.Errorf("encode session: %w", err)
	}
	if err := s.slots.Put(ctx, s.slotName, raw); err != nil {
		return false, fmt.Errorf("persist session: %w", err)
	}

	cp := *u
	s.mu.Lock()
	s.current = &cp
	s.initialized = true
	s.gen++
	if t.seq > s.identity {
		s.identity = t.seq
	}
	s.mu.Unlock()
	return true, nil
}
