package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/usuarios/internal/client/models"
)

/*************
 * Fake usuarios API
 *************/

type fakeAPI struct {
	lastBody      map[string]any
	lastRequestID string
	lastCType     string
	lastPath      string

	status  int
	payload string
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	f.lastRequestID = r.Header.Get(RequestIDHeader)
	f.lastCType = r.Header.Get("Content-Type")
	f.lastPath = r.URL.Path
	f.lastBody = nil
	if r.Body != nil {
		b, _ := io.ReadAll(r.Body)
		if len(b) > 0 {
			_ = json.Unmarshal(b, &f.lastBody)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.payload)
}

func newServer(t *testing.T, f *fakeAPI) (*HTTPClient, *httptest.Server, *Metrics) {
	t.Helper()

	r := mux.NewRouter()
	api := r.PathPrefix("/api/usuarios").Subrouter()
	api.HandleFunc("/login", f.handler).Methods(http.MethodPost)
	api.HandleFunc("/registrar", f.handler).Methods(http.MethodPost)
	api.HandleFunc("/actualizar", f.handler).Methods(http.MethodPost)
	api.HandleFunc("/eliminar", f.handler).Methods(http.MethodPost)
	api.HandleFunc("/{id}", f.handler).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	c, err := NewHTTPClient(srv.URL+"/api/", WithMetrics(m), WithTimeout(2*time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv, m
}

/*************
 * Success paths
 *************/

func TestLogin_UnwrapsBody(t *testing.T) {
	f := &fakeAPI{status: http.StatusOK, payload: `{"body":{"id":1,"nombre_usuario":"alice","correo_electronico":"a@b.com","estatus":"activo"}}`}
	c, _, m := newServer(t, f)

	u, err := c.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "1", Username: "alice", Email: "a@b.com", Status: models.StatusActive}, u)

	assert.Equal(t, "a@b.com", f.lastBody["correo_electronico"])
	assert.Equal(t, "secret", f.lastBody["password"])
	assert.Equal(t, "application/json", f.lastCType)
	assert.NotEmpty(t, f.lastRequestID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("login", "200")))
}

func TestRegister_SendsRegistrationFields(t *testing.T) {
	f := &fakeAPI{status: http.StatusCreated, payload: `{"body":{"id":9,"nombre_usuario":"bob","correo_electronico":"b@c.com","estatus":"activo"}}`}
	c, _, _ := newServer(t, f)

	u, err := c.Register(context.Background(), models.Registration{Username: "bob", Email: "b@c.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, models.UserID("9"), u.ID)
	assert.Equal(t, "bob", f.lastBody["nombre_usuario"])
	assert.Equal(t, "b@c.com", f.lastBody["correo_electronico"])
	assert.Equal(t, "123456", f.lastBody["password"])
}

func TestGetUserByID_UsesPathAndNoBody(t *testing.T) {
	f := &fakeAPI{status: http.StatusOK, payload: `{"body":{"id":42,"nombre_usuario":"x","correo_electronico":"x@y.z","estatus":"inactivo"}}`}
	c, _, _ := newServer(t, f)

	u, err := c.GetUserByID(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, models.UserID("42"), u.ID)
	assert.Equal(t, models.StatusInactive, u.Status)
	assert.Nil(t, f.lastBody)
	assert.Empty(t, f.lastCType)
}

func TestUpdateUser_SendsFullRecord(t *testing.T) {
	f := &fakeAPI{status: http.StatusOK, payload: `{"body":{"id":3,"nombre_usuario":"new","correo_electronico":"n@e.w","estatus":"activo"}}`}
	c, _, _ := newServer(t, f)

	u, err := c.UpdateUser(context.Background(), models.UserUpdate{ID: "3", Username: "new", Email: "n@e.w", Status: models.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, "new", u.Username)
	assert.EqualValues(t, 3, f.lastBody["id"])
	assert.Equal(t, "activo", f.lastBody["estatus"])
	_, hasPassword := f.lastBody["password"]
	assert.False(t, hasPassword)
}

func TestDeleteUser_PostsIDAndToleratesEmptyBody(t *testing.T) {
	f := &fakeAPI{status: http.StatusOK, payload: ``}
	c, _, _ := newServer(t, f)

	require.NoError(t, c.DeleteUser(context.Background(), "5"))
	assert.EqualValues(t, 5, f.lastBody["id"])
}

func TestStringID_RoundTripsThroughPathAndBody(t *testing.T) {
	f := &fakeAPI{status: http.StatusOK, payload: `{"body":{"id":"6650f1c2","nombre_usuario":"x","correo_electronico":"x@y.z","estatus":"activo"}}`}
	c, _, _ := newServer(t, f)
	ctx := context.Background()

	u, err := c.Login(ctx, models.Credentials{Email: "x@y.z", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "6650f1c2", u.ID.String())

	_, err = c.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "/api/usuarios/6650f1c2", f.lastPath)

	require.NoError(t, c.DeleteUser(ctx, u.ID))
	assert.Equal(t, "6650f1c2", f.lastBody["id"])
}

/*************
 * Envelope errors
 *************/

func TestLogin_ErrorEnvelopeSurfacesServerMessage(t *testing.T) {
	f := &fakeAPI{status: http.StatusUnauthorized, payload: `{"error":"Contraseña incorrecta"}`}
	c, _, _ := newServer(t, f)

	_, err := c.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "bad"})
	require.EqualError(t, err, "Contraseña incorrecta")
	require.ErrorIs(t, err, ErrUnauthorized)

	msg, ok := ServerMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Contraseña incorrecta", msg)
}

func TestRegister_ConflictMatchesSentinel(t *testing.T) {
	f := &fakeAPI{status: http.StatusConflict, payload: `{"error":"Duplicate entry 'a@b.com' for key 'correo_electronico'"}`}
	c, _, _ := newServer(t, f)

	_, err := c.Register(context.Background(), models.Registration{Username: "abc", Email: "a@b.com", Password: "123456"})
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Duplicate entry")
}

func TestError_FallsBackToStatusText(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
		want    string
	}{
		{name: "not json", status: http.StatusBadGateway, payload: "<html>", want: "Bad Gateway"},
		{name: "no error field", status: http.StatusNotFound, payload: `{}`, want: "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeAPI{status: tt.status, payload: tt.payload}
			c, _, _ := newServer(t, f)

			_, err := c.GetUserByID(context.Background(), "1")
			require.EqualError(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestSuccess_MissingBodyIsError(t *testing.T) {
	f := &fakeAPI{status: http.StatusOK, payload: `{}`}
	c, _, _ := newServer(t, f)

	_, err := c.GetUserByID(context.Background(), "1")
	require.ErrorIs(t, err, ErrEmptyBody)
}

func TestSuccess_UndecodableBody(t *testing.T) {
	f := &fakeAPI{status: http.StatusOK, payload: `{"body":"not an object"}`}
	c, _, _ := newServer(t, f)

	_, err := c.GetUserByID(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode body")
}

/*************
 * Transport
 *************/

func TestTransportFailure_WrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	c, err := NewHTTPClient(url, WithMetrics(m))
	require.NoError(t, err)

	_, err = c.GetUserByID(context.Background(), "1")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("get_user", "error")))
}

func TestTimeout_WrapsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	c, err := NewHTTPClient(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.GetUserByID(context.Background(), "1")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewHTTPClient_RejectsEmptyBaseURL(t *testing.T) {
	_, err := NewHTTPClient("  ")
	require.Error(t, err)
}

func TestAPIError_IsMapping(t *testing.T) {
	assert.ErrorIs(t, &APIError{StatusCode: http.StatusForbidden}, ErrUnauthorized)
	assert.ErrorIs(t, &APIError{StatusCode: http.StatusNotFound}, ErrNotFound)
	assert.NotErrorIs(t, &APIError{StatusCode: http.StatusInternalServerError}, ErrNotFound)

	_, ok := ServerMessage(errors.New("plain"))
	assert.False(t, ok)
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := NewMetrics(reg)
	require.NoError(t, err)
	m2, err := NewMetrics(reg)
	require.NoError(t, err)

	m1.observe("login", 200, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m2.requests.WithLabelValues("login", "200")))
}

func TestCallCounts_ReadsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.observe("login", 200, time.Millisecond)
	m.observe("login", 401, time.Millisecond)
	m.observe("login", 401, time.Millisecond)
	m.observe("get_user", 0, time.Millisecond)

	got, err := CallCounts(reg)
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]float64{
		"login":    {"200": 1, "401": 2},
		"get_user": {"error": 1},
	}, got)
}
