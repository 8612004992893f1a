package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobportal/jobportal-tui/internal/devserver"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// mutableToken lets a test log in and then attach the issued token
type mutableToken struct {
	value atomic.Value
}

func (m *mutableToken) Token() string {
	v, _ := m.value.Load().(string)
	return v
}

func (m *mutableToken) set(tok string) { m.value.Store(tok) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupDevServer(t *testing.T, chatLimit int) string {
	t.Helper()
	srv := devserver.New(devserver.Options{
		JWTSecret:     "test-secret-0123456789",
		ChatRateLimit: chatLimit,
		BcryptCost:    bcrypt.MinCost,
	}, quietLogger())
	require.NoError(t, srv.Seed())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/api"
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(baseURL, append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	return c
}

func loginClient(t *testing.T, baseURL, email, password string) *Client {
	t.Helper()
	tokens := &mutableToken{}
	c := newTestClient(t, baseURL, WithTokenSource(tokens))
	res, err := c.Login(context.Background(), model.Credentials{Email: email, Password: password})
	require.NoError(t, err)
	tokens.set(res.Token)
	return c
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"ftp://host/api", "localhost:8080", "::"} {
		_, err := NewClient(raw)
		assert.Error(t, err, raw)
	}
}

func TestClient_UnauthorizedHook(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid or expired token"}`))
	}))
	defer ts.Close()

	t.Run("fires when a credential was sent", func(t *testing.T) {
		var calls int
		c := newTestClient(t, ts.URL, WithTokenSource(staticToken("stale")), WithUnauthorizedHandler(func() { calls++ }))
		_, err := c.CurrentUser(context.Background())
		assert.Equal(t, KindUnauthorized, KindOf(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("silent without a credential", func(t *testing.T) {
		var calls int
		c := newTestClient(t, ts.URL, WithUnauthorizedHandler(func() { calls++ }))
		_, err := c.Login(context.Background(), model.Credentials{Email: "a@b.dev", Password: "x"})
		assert.Equal(t, KindUnauthorized, KindOf(err))
		assert.Equal(t, "invalid or expired token", UserMessage(err, ""))
		assert.Equal(t, 0, calls)
	})

	t.Run("auth endpoints never carry the credential", func(t *testing.T) {
		var calls int
		var sawHeader atomic.Bool
		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				sawHeader.Store(true)
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
		}))
		defer auth.Close()

		c := newTestClient(t, auth.URL, WithTokenSource(staticToken("live")), WithUnauthorizedHandler(func() { calls++ }))
		_, err := c.Login(context.Background(), model.Credentials{Email: "a@b.dev", Password: "wrong"})
		assert.Equal(t, KindUnauthorized, KindOf(err))
		assert.False(t, sawHeader.Load())
		assert.Equal(t, 0, calls)
	})
}

func TestClient_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := newTestClient(t, url)
	_, err := c.ListJobs(context.Background(), 0, 10, model.JobFilter{})
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, MsgNetwork, UserMessage(err, "fallback"))
}

func TestClient_Cancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newTestClient(t, ts.URL)
	_, err := c.GetJob(ctx, "x")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_EmptyIDIsRejectedLocally(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	err := c.WithdrawApplication(context.Background(), " ")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_QueryContracts(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()
	c := newTestClient(t, ts.URL+"/api")
	ctx := context.Background()

	_, err := c.ListJobs(ctx, 2, 5, model.JobFilter{Location: " Berlin ", Category: ""})
	require.NoError(t, err)
	assert.Equal(t, "/api/jobs", got.URL.Path)
	assert.Equal(t, "Berlin", got.URL.Query().Get("location"))
	assert.False(t, got.URL.Query().Has("category"))
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "5", got.URL.Query().Get("size"))

	_, err = c.UpdateApplicationStatus(ctx, "a1", model.StatusUpdate{Status: model.ApplicationRejected, RejectionReason: "skills"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/applications/a1/status", got.URL.Path)
	assert.Equal(t, "rejected", got.URL.Query().Get("status"))
	assert.Equal(t, "skills", got.URL.Query().Get("rejectionReason"))
	assert.False(t, got.URL.Query().Has("notes"))
}

func TestClient_AgainstDevServer(t *testing.T) {
	base := setupDevServer(t, 5)
	ctx := context.Background()

	t.Run("public listing pages", func(t *testing.T) {
		c := newTestClient(t, base)
		page, err := c.ListJobs(ctx, 0, 5, model.JobFilter{})
		require.NoError(t, err)
		assert.Len(t, page.Content, 5)
		assert.False(t, page.HasPrevious())
		assert.True(t, page.HasNext())

		beyond, err := c.ListJobs(ctx, page.TotalPages, 5, model.JobFilter{})
		require.NoError(t, err)
		assert.NotNil(t, beyond.Content)
		assert.Empty(t, beyond.Content)
	})

	t.Run("login and current user", func(t *testing.T) {
		c := loginClient(t, base, "employer@jobportal.dev", "Employer@123")
		id, err := c.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.RoleEmployer, id.Role)
	})

	t.Run("employer creates a job", func(t *testing.T) {
		c := loginClient(t, base, "employer@jobportal.dev", "Employer@123")
		job, err := c.CreateJob(ctx, model.JobInput{
			Title: "Go Developer", Company: "Acme", Location: "Remote",
			JobType: "remote", Category: "Engineering", Description: "Write Go.",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, job.ID)

		mine, err := c.MyJobs(ctx, 0, 50)
		require.NoError(t, err)
		found := false
		for _, j := range mine.Content {
			found = found || j.ID == job.ID
		}
		assert.True(t, found)

		_, err = c.CreateJob(ctx, model.JobInput{Company: "Acme"})
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Equal(t, "Title is required", UserMessage(err, ""))
	})

	t.Run("applicant is forbidden from employer routes", func(t *testing.T) {
		c := loginClient(t, base, "applicant@jobportal.dev", "Applicant@123")
		_, err := c.MyJobs(ctx, 0, 10)
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("applicant applies and withdraws", func(t *testing.T) {
		c := loginClient(t, base, "applicant@jobportal.dev", "Applicant@123")
		page, err := c.SearchJobs(ctx, "Designer", 0, 10)
		require.NoError(t, err)
		require.Len(t, page.Content, 1)

		app, err := c.Apply(ctx, page.Content[0].ID, model.ApplicationInput{ResumeURL: "https://f/cv.pdf"})
		require.NoError(t, err)
		require.NoError(t, c.WithdrawApplication(ctx, app.ID))

		got, err := c.GetApplication(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationWithdrawn, got.Status)
	})

	t.Run("saved jobs round trip", func(t *testing.T) {
		c := loginClient(t, base, "applicant@jobportal.dev", "Applicant@123")
		featured, err := c.FeaturedJobs(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, featured)
		id := featured[0].ID

		_, err = c.SaveJob(ctx, id)
		require.NoError(t, err)
		saved, err := c.IsJobSaved(ctx, id)
		require.NoError(t, err)
		assert.True(t, saved)

		_, err = c.SaveJob(ctx, id)
		assert.Equal(t, KindConflict, KindOf(err))

		require.NoError(t, c.UnsaveJob(ctx, id))
		saved, err = c.IsJobSaved(ctx, id)
		require.NoError(t, err)
		assert.False(t, saved)
	})

	t.Run("notifications", func(t *testing.T) {
		c := loginClient(t, base, "applicant@jobportal.dev", "Applicant@123")
		n, err := c.UnreadCount(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		require.NoError(t, c.MarkAllNotificationsRead(ctx))
		n, err = c.UnreadCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})
}

func TestClient_ChatRateLimit(t *testing.T) {
	base := setupDevServer(t, 1)
	c := loginClient(t, base, "applicant@jobportal.dev", "Applicant@123")
	ctx := context.Background()

	reply, err := c.Chat(ctx, "what skills are trending?")
	require.NoError(t, err)
	assert.Equal(t, model.IntentJobTrendAnalysis, reply.Intent)

	_, err = c.Chat(ctx, "and now?")
	assert.Equal(t, KindRateLimited, KindOf(err))
	assert.Equal(t, 429, StatusOf(err))
}
