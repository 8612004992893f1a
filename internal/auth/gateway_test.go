package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobportal/jobportal-tui/internal/api"
	"github.com/jobportal/jobportal-tui/internal/devserver"
	"github.com/jobportal/jobportal-tui/internal/model"
	"github.com/jobportal/jobportal-tui/internal/session"
	"github.com/jobportal/jobportal-tui/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// harness wires a real devserver, client, session store and sqlite file
// the way cmd/jobportal does.
type harness struct {
	baseURL string
	local   *storage.LocalStore
	store   *session.Store
	client  *api.Client
	gateway *Gateway
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := devserver.New(devserver.Options{
		JWTSecret:  "test-secret-0123456789",
		BcryptCost: bcrypt.MinCost,
	}, quietLogger())
	require.NoError(t, srv.Seed())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	db, err := storage.Open(filepath.Join(t.TempDir(), "jobportal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	local, err := db.Origin(ts.URL)
	require.NoError(t, err)

	h := &harness{baseURL: ts.URL + "/api", local: local}
	h.reload(t)
	return h
}

// reload simulates a fresh application start over the same storage
func (h *harness) reload(t *testing.T) {
	t.Helper()
	h.store = session.NewStore(h.local, quietLogger())
	client, err := api.NewClient(h.baseURL,
		api.WithTokenSource(h.store),
		api.WithUnauthorizedHandler(func() { _ = h.store.Clear() }),
		api.WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	h.client = client
	h.gateway = NewGateway(client, h.store, quietLogger())
}

func TestLogin_RestoreRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.Restore(ctx, h.client)
	require.Equal(t, session.StatusAnonymous, h.store.State().Status)

	id, err := h.gateway.Login(ctx, model.Credentials{Email: "employer@jobportal.dev", Password: "Employer@123"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployer, id.Role)
	assert.Equal(t, session.StatusAuthenticated, h.store.State().Status)

	h.reload(t)
	assert.Equal(t, session.StatusInitializing, h.store.State().Status)

	st := h.store.Restore(ctx, h.client)
	require.Equal(t, session.StatusAuthenticated, st.Status)
	assert.Equal(t, id.ID, st.Identity.ID)
	assert.Equal(t, id.Role, st.Identity.Role)
	assert.Equal(t, id.Email, st.Identity.Email)
}

func TestRegister_SignsIn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	id, err := h.gateway.Register(ctx, model.Registration{
		Name: "Rae", Email: "rae@example.com", Password: "Secret@12", Role: model.RoleApplicant,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleApplicant, id.Role)
	assert.Equal(t, id.ID, h.store.State().Identity.ID)

	_, err = h.gateway.Register(ctx, model.Registration{
		Name: "Rae", Email: "rae@example.com", Password: "Secret@12", Role: model.RoleApplicant,
	})
	assert.Equal(t, ReasonConflict, ReasonOf(err))
}

func TestLogout_Idempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.Restore(ctx, h.client)

	_, err := h.gateway.Login(ctx, model.Credentials{Email: "applicant@jobportal.dev", Password: "Applicant@123"})
	require.NoError(t, err)

	require.NoError(t, h.gateway.Logout())
	require.NoError(t, h.gateway.Logout())
	assert.Equal(t, session.StatusAnonymous, h.store.State().Status)
	assert.Empty(t, h.store.Token())

	_, ok, err := h.local.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogout_ClearsStaleCredential(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.local.Set("token", "stale"))

	require.NoError(t, h.gateway.Logout())
	_, ok, err := h.local.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogin_Failures(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.Restore(ctx, h.client)

	tests := []struct {
		name   string
		creds  model.Credentials
		reason Reason
	}{
		{"wrong password", model.Credentials{Email: "admin@jobportal.dev", Password: "nope"}, ReasonInvalidCredentials},
		{"unknown user", model.Credentials{Email: "ghost@jobportal.dev", Password: "Ghost@123"}, ReasonInvalidCredentials},
		{"unverified", model.Credentials{Email: "unverified@jobportal.dev", Password: "Unverified@123"}, ReasonEmailNotVerified},
		{"missing password", model.Credentials{Email: "admin@jobportal.dev"}, ReasonValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.gateway.Login(ctx, tt.creds)
			require.Error(t, err)
			assert.Equal(t, tt.reason, ReasonOf(err))

			var f *Failure
			require.True(t, errors.As(err, &f))
			assert.NotEmpty(t, f.Message)
			assert.Equal(t, session.StatusAnonymous, h.store.State().Status)
		})
	}
}

func TestLogin_FailureKeepsExistingSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.Restore(ctx, h.client)

	id, err := h.gateway.Login(ctx, model.Credentials{Email: "employer@jobportal.dev", Password: "Employer@123"})
	require.NoError(t, err)
	token := h.store.Token()

	_, err = h.gateway.Login(ctx, model.Credentials{Email: "employer@jobportal.dev", Password: "wrong-pass"})
	assert.Equal(t, ReasonInvalidCredentials, ReasonOf(err))

	st := h.store.State()
	assert.Equal(t, session.StatusAuthenticated, st.Status)
	assert.Equal(t, id.ID, st.Identity.ID)
	assert.Equal(t, token, h.store.Token())

	stored, ok, err := h.local.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, token, stored)
}

func TestRegister_WeakPasswordUsesBackendMessage(t *testing.T) {
	h := newHarness(t)
	_, err := h.gateway.Register(context.Background(), model.Registration{
		Name: "Sam", Email: "sam@example.com", Password: "password1", Role: model.RoleEmployer,
	})
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, ReasonValidation, f.Reason)
	assert.Equal(t, devserver.PasswordRule, f.Message)
}

func TestLogin_BackendUnavailable(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	store := session.NewStore(newMemPersister(), quietLogger())
	client, err := api.NewClient(url, api.WithLogger(quietLogger()))
	require.NoError(t, err)
	g := NewGateway(client, store, quietLogger())

	_, err = g.Login(context.Background(), model.Credentials{Email: "a@b.dev", Password: "x"})
	assert.Equal(t, ReasonUnavailable, ReasonOf(err))
	assert.Equal(t, api.MsgNetwork, err.(*Failure).Message)
}

type fakeBackend struct {
	calls int
	err   error
	res   *model.AuthResult
}

func (f *fakeBackend) Login(context.Context, model.Credentials) (*model.AuthResult, error) {
	f.calls++
	return f.res, f.err
}

func (f *fakeBackend) Register(context.Context, model.Registration) (*model.AuthResult, error) {
	f.calls++
	return f.res, f.err
}

func (f *fakeBackend) RequestPasswordReset(context.Context, string) error {
	f.calls++
	return f.err
}

func (f *fakeBackend) ResetPassword(context.Context, string, string) error {
	f.calls++
	return f.err
}

func (f *fakeBackend) VerifyEmail(context.Context, string) error {
	f.calls++
	return f.err
}

func (f *fakeBackend) SendVerificationEmail(context.Context, string) error {
	f.calls++
	return f.err
}

type memPersister struct {
	values map[string]string
}

func newMemPersister() *memPersister {
	return &memPersister{values: map[string]string{}}
}

func (m *memPersister) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memPersister) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memPersister) Remove(key string) error {
	delete(m.values, key)
	return nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason Reason
		msg    string
	}{
		{"rate limited", &api.Error{Kind: api.KindRateLimited, Status: 429}, ReasonRateLimited, MsgRateLimited},
		{"deactivated", &api.Error{Kind: api.KindForbidden, Status: 403, Message: "Account has been deactivated"}, ReasonInvalidCredentials, "Account has been deactivated"},
		{"unverified", &api.Error{Kind: api.KindForbidden, Status: 403}, ReasonInvalidCredentials, "You do not have permission to do that."},
		{"unverified message", &api.Error{Kind: api.KindForbidden, Status: 403, Message: "Please verify your email"}, ReasonEmailNotVerified, "Please verify your email"},
		{"server", &api.Error{Kind: api.KindServer, Status: 500}, ReasonUnavailable, api.MsgNetwork},
		{"conflict", &api.Error{Kind: api.KindConflict, Status: 409, Message: "User already exists"}, ReasonConflict, "User already exists"},
		{"validation without message", &api.Error{Kind: api.KindValidation, Status: 400}, ReasonValidation, MsgUnknown},
		{"timeout", context.DeadlineExceeded, ReasonUnavailable, api.MsgNetwork},
		{"foreign", errors.New("boom"), ReasonUnknown, MsgUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := classify(tt.err)
			assert.Equal(t, tt.reason, f.Reason)
			assert.Equal(t, tt.msg, f.Message)
			assert.ErrorIs(t, f, tt.err)
		})
	}
}

func TestLocalValidation_MakesNoCalls(t *testing.T) {
	backend := &fakeBackend{}
	g := NewGateway(backend, session.NewStore(newMemPersister(), quietLogger()), quietLogger())
	ctx := context.Background()

	regs := []model.Registration{
		{Email: "a@b.dev", Password: "Secret@12", Role: model.RoleApplicant},
		{Name: "A", Password: "Secret@12", Role: model.RoleApplicant},
		{Name: "A", Email: "not-an-email", Password: "Secret@12", Role: model.RoleApplicant},
		{Name: "A", Email: "a@b.dev", Password: "short", Role: model.RoleApplicant},
		{Name: "A", Email: "a@b.dev", Password: "Secret@12"},
		{Name: "A", Email: "a@b.dev", Password: "Secret@12", Role: model.RoleAdmin},
	}
	for _, reg := range regs {
		_, err := g.Register(ctx, reg)
		assert.Equal(t, ReasonValidation, ReasonOf(err))
	}

	_, err := g.Login(ctx, model.Credentials{Password: "x"})
	assert.Equal(t, ReasonValidation, ReasonOf(err))
	assert.Equal(t, ReasonValidation, ReasonOf(g.ResetPassword(ctx, "tok", "Secret@12", "Secret@13")))
	assert.Equal(t, ReasonValidation, ReasonOf(g.ResetPassword(ctx, "", "Secret@12", "Secret@12")))
	assert.Equal(t, ReasonValidation, ReasonOf(g.VerifyEmail(ctx, " ")))
	assert.Equal(t, ReasonValidation, ReasonOf(g.RequestPasswordReset(ctx, "")))
	assert.Equal(t, ReasonValidation, ReasonOf(g.ResendVerification(ctx, "")))

	assert.Equal(t, 0, backend.calls)
}

func TestLogin_UnusableIdentityLeavesSessionAlone(t *testing.T) {
	backend := &fakeBackend{res: &model.AuthResult{Token: "t", User: model.Identity{ID: "u1", Role: "GUEST"}}}
	store := session.NewStore(newMemPersister(), quietLogger())
	g := NewGateway(backend, store, quietLogger())

	_, err := g.Login(context.Background(), model.Credentials{Email: "a@b.dev", Password: "x"})
	assert.Equal(t, ReasonUnknown, ReasonOf(err))
	assert.Equal(t, session.StatusInitializing, store.State().Status)
}

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.gateway.RequestPasswordReset(ctx, "applicant@jobportal.dev"))
	err := h.gateway.RequestPasswordReset(ctx, "nobody@jobportal.dev")
	assert.Equal(t, ReasonValidation, ReasonOf(err))
	assert.Equal(t, "User not found", err.(*Failure).Message)

	err = h.gateway.ResetPassword(ctx, "bogus", "Brand@New1", "Brand@New1")
	assert.Equal(t, ReasonValidation, ReasonOf(err))
}
