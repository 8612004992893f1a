package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobportal/jobportal-tui/internal/model"
)

func setupTestServer(t *testing.T, chatLimit int) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(Options{
		JWTSecret:     "test-secret-0123456789",
		ChatRateLimit: chatLimit,
		BcryptCost:    bcrypt.MinCost,
	}, logger)
	require.NoError(t, srv.Seed())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func loginAs(t *testing.T, ts *httptest.Server, role model.Role) string {
	t.Helper()
	for _, a := range DemoAccounts {
		if a.Role == role && a.Verified {
			status, body := call(t, ts, http.MethodPost, "/api/auth/login", "", model.Credentials{Email: a.Email, Password: a.Password})
			require.Equal(t, http.StatusOK, status, string(body))
			var res model.AuthResult
			require.NoError(t, json.Unmarshal(body, &res))
			return res.Token
		}
	}
	t.Fatalf("no demo account for %s", role)
	return ""
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t, 5)

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{"applicant", "applicant@jobportal.dev", "Applicant@123", http.StatusOK},
		{"email is case insensitive", "Employer@JobPortal.dev", "Employer@123", http.StatusOK},
		{"wrong password", "applicant@jobportal.dev", "nope", http.StatusUnauthorized},
		{"unknown email", "ghost@jobportal.dev", "Applicant@123", http.StatusUnauthorized},
		{"unverified email", "unverified@jobportal.dev", "Unverified@123", http.StatusForbidden},
		{"missing password", "applicant@jobportal.dev", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, ts, http.MethodPost, "/api/auth/login", "", model.Credentials{Email: tt.email, Password: tt.password})
			assert.Equal(t, tt.wantStatus, status, string(body))
		})
	}
}

func TestLogin_ReturnsIdentityAndToken(t *testing.T) {
	ts := setupTestServer(t, 5)
	token := loginAs(t, ts, model.RoleEmployer)

	status, body := call(t, ts, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	var id model.Identity
	require.NoError(t, json.Unmarshal(body, &id))
	assert.Equal(t, model.RoleEmployer, id.Role)
	assert.Equal(t, "employer@jobportal.dev", id.Email)
}

func TestRegister(t *testing.T) {
	ts := setupTestServer(t, 5)

	tests := []struct {
		name       string
		reg        map[string]string
		wantStatus int
	}{
		{"applicant", map[string]string{"name": "New Person", "email": "new@x.dev", "password": "Secret@123", "accountType": "APPLICANT"}, http.StatusCreated},
		{"admin refused", map[string]string{"name": "Root", "email": "root@x.dev", "password": "Secret@123", "accountType": "ADMIN"}, http.StatusBadRequest},
		{"unknown role", map[string]string{"name": "Who", "email": "who@x.dev", "password": "Secret@123", "accountType": "GUEST"}, http.StatusBadRequest},
		{"weak password", map[string]string{"name": "Weak", "email": "weak@x.dev", "password": "password", "accountType": "EMPLOYER"}, http.StatusBadRequest},
		{"bad email", map[string]string{"name": "Bad", "email": "not-an-email", "password": "Secret@123", "accountType": "EMPLOYER"}, http.StatusBadRequest},
		{"duplicate", map[string]string{"name": "Dup", "email": "applicant@jobportal.dev", "password": "Secret@123", "accountType": "APPLICANT"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, ts, http.MethodPost, "/api/auth/register", "", tt.reg)
			assert.Equal(t, tt.wantStatus, status, string(body))
		})
	}
}

func TestAuthRequired(t *testing.T) {
	ts := setupTestServer(t, 5)

	status, _ := call(t, ts, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, ts, http.MethodGet, "/api/users/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// public routes need no token
	status, _ = call(t, ts, http.MethodGet, "/api/jobs", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRoleEnforcement(t *testing.T) {
	ts := setupTestServer(t, 5)
	applicant := loginAs(t, ts, model.RoleApplicant)
	employer := loginAs(t, ts, model.RoleEmployer)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"applicant cannot post jobs", http.MethodPost, "/api/jobs", applicant, http.StatusForbidden},
		{"applicant cannot list my-jobs", http.MethodGet, "/api/jobs/my-jobs", applicant, http.StatusForbidden},
		{"employer cannot list resumes", http.MethodGet, "/api/resumes", employer, http.StatusForbidden},
		{"employer cannot see admin stats", http.MethodGet, "/api/admin/stats", employer, http.StatusForbidden},
		{"employer lists own jobs", http.MethodGet, "/api/jobs/my-jobs", employer, http.StatusOK},
		{"applicant lists applications", http.MethodGet, "/api/applications", applicant, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, ts, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, status, string(body))
		})
	}
}

func TestListJobs_Pagination(t *testing.T) {
	ts := setupTestServer(t, 5)

	status, body := call(t, ts, http.MethodGet, "/api/jobs?page=0&size=5", "", nil)
	require.Equal(t, http.StatusOK, status)
	var p model.Page[model.Job]
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Len(t, p.Content, 5)
	assert.Equal(t, len(demoJobs), int(p.TotalElements))
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, "Site Reliability Engineer", p.Content[0].Title, "newest first")

	status, body = call(t, ts, http.MethodGet, "/api/jobs?page=3&size=5", "", nil)
	require.Equal(t, http.StatusOK, status)
	p = model.Page[model.Job]{}
	require.NoError(t, json.Unmarshal(body, &p))
	assert.NotNil(t, p.Content)
	assert.Empty(t, p.Content)

	status, body = call(t, ts, http.MethodGet, "/api/jobs?page=1000000000000000000&size=10", "", nil)
	require.Equal(t, http.StatusOK, status)
	p = model.Page[model.Job]{}
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Empty(t, p.Content)
	assert.Equal(t, len(demoJobs), int(p.TotalElements))
}

func TestListJobs_Filters(t *testing.T) {
	ts := setupTestServer(t, 5)

	status, body := call(t, ts, http.MethodGet, "/api/jobs?location=berlin&jobType=full-time", "", nil)
	require.Equal(t, http.StatusOK, status)
	var p model.Page[model.Job]
	require.NoError(t, json.Unmarshal(body, &p))
	require.NotEmpty(t, p.Content)
	for _, j := range p.Content {
		assert.Contains(t, j.Location, "Berlin")
		assert.Equal(t, "full-time", j.JobType)
	}
}

func TestApplyAndWithdraw(t *testing.T) {
	ts := setupTestServer(t, 5)
	applicant := loginAs(t, ts, model.RoleApplicant)
	employer := loginAs(t, ts, model.RoleEmployer)

	_, body := call(t, ts, http.MethodGet, "/api/jobs/search?q=Designer", "", nil)
	var p model.Page[model.Job]
	require.NoError(t, json.Unmarshal(body, &p))
	require.Len(t, p.Content, 1)
	job := p.Content[0]

	in := model.ApplicationInput{ResumeURL: "https://files/cv.pdf", CoverLetter: "hi"}
	status, body := call(t, ts, http.MethodPost, "/api/applications/job/"+job.ID, applicant, in)
	require.Equal(t, http.StatusCreated, status, string(body))
	var app model.Application
	require.NoError(t, json.Unmarshal(body, &app))
	assert.Equal(t, model.ApplicationPending, app.Status)
	assert.Equal(t, job.Title, app.JobTitle)

	status, _ = call(t, ts, http.MethodPost, "/api/applications/job/"+job.ID, applicant, in)
	assert.Equal(t, http.StatusConflict, status)

	status, body = call(t, ts, http.MethodPut, "/api/applications/"+app.ID+"/status?status=SHORTLISTED&notes=strong", employer, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	// only pending applications can be withdrawn
	status, _ = call(t, ts, http.MethodDelete, "/api/applications/"+app.ID, applicant, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body = call(t, ts, http.MethodGet, "/api/notifications/unread/count", applicant, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2", string(bytes.TrimSpace(body)))
}

func TestChat_RateLimited(t *testing.T) {
	ts := setupTestServer(t, 2)
	token := loginAs(t, ts, model.RoleApplicant)

	for i := 0; i < 2; i++ {
		status, body := call(t, ts, http.MethodPost, "/api/chat", token, model.ChatRequest{Message: "find me a job in Berlin"})
		require.Equal(t, http.StatusOK, status, string(body))
		var reply model.ChatReply
		require.NoError(t, json.Unmarshal(body, &reply))
		assert.Equal(t, model.IntentJobSearch, reply.Intent)
	}

	status, body := call(t, ts, http.MethodPost, "/api/chat", token, model.ChatRequest{Message: "again"})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, RateLimitMessage, string(body))

	// buckets are per user
	other := loginAs(t, ts, model.RoleEmployer)
	status, _ = call(t, ts, http.MethodPost, "/api/chat", other, model.ChatRequest{Message: "hello"})
	assert.Equal(t, http.StatusOK, status)
}

func TestMatchJobs(t *testing.T) {
	ts := setupTestServer(t, 5)
	token := loginAs(t, ts, model.RoleApplicant)

	_, body := call(t, ts, http.MethodGet, "/api/resumes/default", token, nil)
	var r model.Resume
	require.NoError(t, json.Unmarshal(body, &r))
	require.NotEmpty(t, r.ID)

	status, body := call(t, ts, http.MethodPost, "/api/match-jobs?resumeId="+r.ID, token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var matches []model.MatchedJob
	require.NoError(t, json.Unmarshal(body, &matches))
	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].MatchScore, matches[i].MatchScore)
	}
}

func TestRequestID(t *testing.T) {
	ts := setupTestServer(t, 5)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36, "generated as a uuid")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "trace-123", resp.Header.Get("X-Request-ID"))
}

func TestRecover(t *testing.T) {
	h := Recover(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
