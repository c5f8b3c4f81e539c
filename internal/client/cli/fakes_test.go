package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/usuarios/internal/client/config"
	"github.com/dmitrijs2005/usuarios/internal/client/models"
	"github.com/dmitrijs2005/usuarios/internal/client/services"
)

var alice = models.User{ID: "1", Username: "alice", Email: "a@b.com", Status: models.StatusActive}

// ---- session ----

type fakeSession struct {
	user  *models.User
	ready chan struct{}

	initCalls    int
	refreshCalls int
	refreshTo    *models.User
}

func newFakeSession(u *models.User) *fakeSession {
	return &fakeSession{user: u, ready: make(chan struct{})}
}

func (f *fakeSession) Initialize(context.Context) {
	f.initCalls++
	close(f.ready)
}

func (f *fakeSession) Ready() <-chan struct{} { return f.ready }

func (f *fakeSession) Refresh(context.Context) (*models.User, error) {
	f.refreshCalls++
	if f.user == nil {
		return nil, nil
	}
	if f.refreshTo != nil {
		f.user = f.refreshTo
	}
	cp := *f.user
	return &cp, nil
}

func (f *fakeSession) Current() (models.User, bool) {
	if f.user == nil {
		return models.User{}, false
	}
	return *f.user, true
}

// ---- auth ----

type fakeAuth struct {
	session *fakeSession

	loginEmails []string
	loginPass   []string
	loginErrs   []error
	loginRet    models.User

	regIn  services.RegisterInput
	regErr error

	updIn  services.UpdateInput
	updRet models.User
	updErr error

	deleteCalls int
	deleteErr   error

	logoutCalls int
}

func (f *fakeAuth) Register(_ context.Context, in services.RegisterInput) (models.User, error) {
	f.regIn = in
	f.regIn.Password = append([]byte(nil), in.Password...)
	return models.User{ID: "9", Username: in.Username, Email: in.Email}, f.regErr
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) (models.User, error) {
	f.loginEmails = append(f.loginEmails, email)
	f.loginPass = append(f.loginPass, string(password))
	if len(f.loginErrs) > 0 {
		err := f.loginErrs[0]
		f.loginErrs = f.loginErrs[1:]
		if err != nil {
			return models.User{}, err
		}
	}
	u := f.loginRet
	if u.IsZero() {
		u = alice
	}
	f.session.user = &u
	return u, nil
}

func (f *fakeAuth) UpdateProfile(_ context.Context, in services.UpdateInput) (models.User, error) {
	f.updIn = in
	f.updIn.Password = append([]byte(nil), in.Password...)
	if f.updErr != nil {
		return models.User{}, f.updErr
	}
	f.session.user = &f.updRet
	return f.updRet, nil
}

func (f *fakeAuth) DeleteAccount(context.Context) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.session.user = nil
	return nil
}

func (f *fakeAuth) Logout(context.Context) {
	f.logoutCalls++
	f.session.user = nil
}

func (f *fakeAuth) Close(context.Context) error { return nil }

// ---- app & input ----

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

func newTestApp(t *testing.T, u *models.User) (*App, *fakeAuth, *fakeSession, *bytes.Buffer) {
	t.Helper()
	s := newFakeSession(u)
	fa := &fakeAuth{session: s}
	out := &bytes.Buffer{}
	a := newApp(testConfig(), fa, s, nil, strings.NewReader(""), out)
	return a, fa, s, out
}

// stubInputs feeds texts to getSimpleText and passwords to getPassword in
// order. Running out of answers yields io.EOF.
func stubInputs(t *testing.T, texts []string, passwords ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := strings.TrimSpace(texts[0])
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ *bufio.Reader, _ string, _ io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		v := passwords[0]
		passwords = passwords[1:]
		return nilIfEmpty([]byte(v)), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleepFn
	sleepFn = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	t.Cleanup(func() { sleepFn = orig })
	return &slept
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			if s, ok := a.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}
