package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/usuarios/internal/client/client"
	"github.com/dmitrijs2005/usuarios/internal/client/models"
	"github.com/dmitrijs2005/usuarios/internal/client/services"
)

// ---- login view ----

func TestLogin_SuccessShowsHome(t *testing.T) {
	a, fa, s, out := newTestApp(t, nil)
	stubInputs(t, []string{"  a@b.com "}, "secret")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, []string{"a@b.com"}, fa.loginEmails)
	assert.Equal(t, []string{"secret"}, fa.loginPass)
	assert.Equal(t, 1, s.refreshCalls)
	assert.Contains(t, out.String(), "[A]  Welcome, alice!")
	assert.Contains(t, out.String(), "Status:   Active")
}

func TestLogin_InvalidFormSkipsAPI(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     []string
	}{
		{name: "empty", want: []string{"Email is required", "Password is required"}},
		{name: "bad email", email: "not-an-email", password: "x", want: []string{"Enter a valid email address"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, fa, _, out := newTestApp(t, nil)
			stubInputs(t, []string{tt.email}, tt.password)

			err := a.Login(context.Background())
			require.ErrorIs(t, err, errInvalidForm)
			assert.Empty(t, fa.loginEmails)
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
		})
	}
}

func TestLogin_DescribesServerError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&client.APIError{StatusCode: http.StatusUnauthorized, Message: "Contraseña incorrecta"}, services.MsgIncorrectPassword},
		{&client.APIError{StatusCode: http.StatusNotFound, Message: "Usuario no encontrado"}, services.MsgEmailNotRegistered},
		{client.ErrUnavailable, services.MsgLoginFailed},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			a, fa, s, out := newTestApp(t, nil)
			fa.loginErrs = []error{tt.err}
			stubInputs(t, []string{"a@b.com"}, "secret")

			require.ErrorIs(t, a.Login(context.Background()), tt.err)
			assert.Contains(t, out.String(), tt.want)
			assert.Nil(t, s.user)
		})
	}
}

// ---- signup view ----

func TestSignup_RegistersWaitsAndSignsIn(t *testing.T) {
	a, fa, _, out := newTestApp(t, nil)
	slept := stubSleep(t)
	stubInputs(t, []string{"bob", "b@c.com"}, "123456")
	fa.loginRet = models.User{ID: "9", Username: "bob", Email: "b@c.com", Status: models.StatusActive}

	require.NoError(t, a.Signup(context.Background()))

	assert.Equal(t, "bob", fa.regIn.Username)
	assert.Equal(t, "b@c.com", fa.regIn.Email)
	assert.Equal(t, []byte("123456"), fa.regIn.Password)
	assert.Equal(t, []time.Duration{a.config.AutoLoginDelay}, *slept)
	assert.Equal(t, []string{"123456"}, fa.loginPass)
	assert.Contains(t, out.String(), "Account created!")
	assert.Contains(t, out.String(), "Welcome, bob!")
}

func TestSignup_Validation(t *testing.T) {
	a, fa, _, out := newTestApp(t, nil)
	stubInputs(t, []string{"bo", "b@c"}, "12345")

	require.ErrorIs(t, a.Signup(context.Background()), errInvalidForm)
	assert.Empty(t, fa.regIn.Username)
	assert.Contains(t, out.String(), "Username must be at least 3 characters")
	assert.Contains(t, out.String(), "Password must be at least 6 characters")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	a, fa, _, out := newTestApp(t, nil)
	slept := stubSleep(t)
	fa.regErr = &client.APIError{StatusCode: http.StatusConflict, Message: "Duplicate entry"}
	stubInputs(t, []string{"bob", "b@c.com"}, "123456")

	require.Error(t, a.Signup(context.Background()))
	assert.Contains(t, out.String(), services.MsgEmailTaken)
	assert.Empty(t, *slept)
	assert.Empty(t, fa.loginEmails)
}

func TestSignup_AutoLoginFailureFallsBackToLoginView(t *testing.T) {
	a, fa, _, out := newTestApp(t, nil)
	stubSleep(t)
	fa.loginErrs = []error{client.ErrUnavailable}
	// signup answers, then the login view's answers
	stubInputs(t, []string{"bob", "b@c.com", "a@b.com"}, "123456", "secret")

	require.NoError(t, a.Signup(context.Background()))
	assert.Equal(t, []string{"b@c.com", "a@b.com"}, fa.loginEmails)
	assert.Contains(t, out.String(), "Automatic sign-in failed")
	assert.Contains(t, out.String(), "Welcome, alice!")
}

// ---- home / refresh / logout ----

func TestHome_ShowsRefreshedProfile(t *testing.T) {
	u := alice
	a, _, s, out := newTestApp(t, &u)
	s.refreshTo = &models.User{ID: "1", Username: "alicia", Email: "a@b.com", Status: models.StatusInactive}

	require.NoError(t, a.Home(context.Background()))
	assert.Contains(t, out.String(), "Welcome, alicia!")
	assert.Contains(t, out.String(), "Status:   Inactive")
}

func TestHome_SignedOut(t *testing.T) {
	a, _, _, out := newTestApp(t, nil)
	require.ErrorIs(t, a.Home(context.Background()), services.ErrNotAuthenticated)
	require.ErrorIs(t, a.Refresh(context.Background()), services.ErrNotAuthenticated)
	assert.Contains(t, out.String(), "Please sign in first.")
}

func TestRefresh_Reports(t *testing.T) {
	u := alice
	a, _, s, out := newTestApp(t, &u)
	require.NoError(t, a.Refresh(context.Background()))
	assert.Equal(t, 1, s.refreshCalls)
	assert.Contains(t, out.String(), "Profile is up to date.")
}

func TestLogout(t *testing.T) {
	u := alice
	a, fa, _, out := newTestApp(t, &u)
	require.NoError(t, a.Logout(context.Background()))
	assert.Equal(t, 1, fa.logoutCalls)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Signed out.")
}

func TestOnRefreshError_PrintsNotice(t *testing.T) {
	a, _, _, out := newTestApp(t, nil)
	a.onRefreshError(errors.New("down"))
	assert.Contains(t, out.String(), "showing saved data")
}

// ---- edit / delete ----

func TestEdit_NothingToChange(t *testing.T) {
	u := alice
	a, fa, _, out := newTestApp(t, &u)
	stubInputs(t, []string{"", "", ""}, "")

	require.NoError(t, a.Edit(context.Background()))
	assert.Contains(t, out.String(), "Nothing to change.")
	assert.Empty(t, fa.updIn.Username)
}

func TestEdit_UpdatesProfile(t *testing.T) {
	u := alice
	a, fa, _, out := newTestApp(t, &u)
	fa.updRet = models.User{ID: "1", Username: "alicia", Email: "a@b.com", Status: models.StatusInactive}
	stubInputs(t, []string{"alicia", "", "INACTIVO"}, "newpass")

	require.NoError(t, a.Edit(context.Background()))
	assert.Equal(t, services.UpdateInput{
		Username: "alicia",
		Status:   models.StatusInactive,
		Password: []byte("newpass"),
	}, fa.updIn)
	assert.Contains(t, out.String(), "Profile updated.")
	assert.Contains(t, out.String(), "Welcome, alicia!")
}

func TestEdit_Validation(t *testing.T) {
	u := alice
	a, _, _, out := newTestApp(t, &u)
	stubInputs(t, []string{"al", "nope", "gone"}, "123")

	require.ErrorIs(t, a.Edit(context.Background()), errInvalidForm)
	assert.Contains(t, out.String(), "Username must be at least 3 characters")
	assert.Contains(t, out.String(), "Enter a valid email address")
	assert.Contains(t, out.String(), "Status must be one of: activo inactivo")
	assert.Contains(t, out.String(), "Password must be at least 6 characters")
}

func TestEdit_DuplicateEmail(t *testing.T) {
	u := alice
	a, fa, _, out := newTestApp(t, &u)
	fa.updErr = &client.APIError{StatusCode: http.StatusConflict, Message: "Duplicate entry"}
	stubInputs(t, []string{"", "taken@b.com", ""}, "")

	require.Error(t, a.Edit(context.Background()))
	assert.Contains(t, out.String(), services.MsgEmailTaken)
}

func TestDelete(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		u := alice
		a, fa, _, out := newTestApp(t, &u)
		stubInputs(t, []string{"no"})

		require.NoError(t, a.Delete(context.Background()))
		assert.Zero(t, fa.deleteCalls)
		assert.Contains(t, out.String(), "Cancelled.")
	})

	t.Run("confirmed", func(t *testing.T) {
		u := alice
		a, fa, _, out := newTestApp(t, &u)
		stubInputs(t, []string{"YES"})

		require.NoError(t, a.Delete(context.Background()))
		assert.Equal(t, 1, fa.deleteCalls)
		assert.False(t, a.isLoggedIn())
		assert.Contains(t, out.String(), "Account deleted.")
	})

	t.Run("failed", func(t *testing.T) {
		u := alice
		a, fa, _, out := newTestApp(t, &u)
		fa.deleteErr = client.ErrUnavailable
		stubInputs(t, []string{"yes"})

		require.Error(t, a.Delete(context.Background()))
		assert.True(t, a.isLoggedIn())
		assert.Contains(t, out.String(), services.MsgDeleteFailed)
	})
}

// ---- stats ----

func TestStats(t *testing.T) {
	a, _, _, out := newTestApp(t, nil)

	require.NoError(t, a.Stats(context.Background()))
	assert.Contains(t, out.String(), "No API calls yet.")

	reg := prometheus.NewRegistry()
	m, err := client.NewMetrics(reg)
	require.NoError(t, err)
	a.metrics = reg

	// drive one real call through the client so the counter exists
	c, err := client.NewHTTPClient("http://127.0.0.1:1", client.WithMetrics(m))
	require.NoError(t, err)
	_, _ = c.GetUserByID(context.Background(), "1")

	out.Reset()
	require.NoError(t, a.Stats(context.Background()))
	assert.Regexp(t, `get_user\s+error\s+1`, out.String())
}

// ---- root ----

func TestRoot_InitializesBeforeRendering(t *testing.T) {
	silencePrintln(t)
	u := alice
	s := newFakeSession(&u)
	fa := &fakeAuth{session: s}
	out := &bytes.Buffer{}
	a := newApp(testConfig(), fa, s, nil, strings.NewReader("exit\n"), out)

	a.Root(context.Background())

	assert.Equal(t, 1, s.initCalls)
	assert.Equal(t, 1, s.refreshCalls)
	assert.Contains(t, out.String(), "Welcome, alice!")
}

func TestRoot_SignedOutStartsAtLogin(t *testing.T) {
	silencePrintln(t)
	s := newFakeSession(nil)
	fa := &fakeAuth{session: s}
	out := &bytes.Buffer{}
	a := newApp(testConfig(), fa, s, nil, strings.NewReader("exit\n"), out)
	stubInputs(t, []string{"a@b.com"}, "secret")

	a.Root(context.Background())

	assert.Equal(t, []string{"a@b.com"}, fa.loginEmails)
	assert.Contains(t, out.String(), "Welcome, alice!")
}

func TestRoot_CancelledBeforeReady(t *testing.T) {
	lines := silencePrintln(t)
	s := &stuckSession{fakeSession: newFakeSession(nil)}
	a := newApp(testConfig(), &fakeAuth{session: s.fakeSession}, s, nil, strings.NewReader("login\n"), &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Root(ctx)

	assert.Empty(t, *lines)
}

// stuckSession never becomes ready.
type stuckSession struct{ *fakeSession }

func (s *stuckSession) Initialize(context.Context) {}
