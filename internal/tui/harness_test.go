package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jobportal/jobportal-tui/internal/access"
	"github.com/jobportal/jobportal-tui/internal/api"
	"github.com/jobportal/jobportal-tui/internal/model"
	"github.com/jobportal/jobportal-tui/internal/session"
)

var (
	applicant = model.Identity{ID: "u-app", Name: "Ada Applicant", Email: "ada@example.com", Role: model.RoleApplicant}
	employer  = model.Identity{ID: "u-emp", Name: "Eve Employer", Email: "eve@example.com", Role: model.RoleEmployer}
	admin     = model.Identity{ID: "u-adm", Name: "Al Admin", Email: "al@example.com", Role: model.RoleAdmin}
)

type memPersister struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memPersister) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memPersister) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memPersister) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// fakeBackend answers the calls a test needs. Methods it does not override
// panic through the nil embedded interface.
type fakeBackend struct {
	Backend

	mu    sync.Mutex
	calls map[string]int

	jobs      []model.Job
	apps      []model.Application
	createErr error
	withdrawn []string
	chat      func(message string) (*model.ChatReply, error)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func page[T any](items []T, number, size int) *model.Page[T] {
	total := len(items)
	pages := (total + size - 1) / size
	from, to := min(number*size, total), min((number+1)*size, total)
	return &model.Page[T]{Content: append([]T{}, items[from:to]...), TotalPages: pages, TotalElements: int64(total), Number: number, Size: size}
}

func (f *fakeBackend) CurrentUser(ctx context.Context) (*model.Identity, error) {
	f.record("CurrentUser")
	return nil, errors.New("no credential")
}

func (f *fakeBackend) FeaturedJobs(ctx context.Context) ([]model.Job, error) {
	f.record("FeaturedJobs")
	return f.jobs, nil
}

func (f *fakeBackend) GetJob(ctx context.Context, id string) (*model.Job, error) {
	f.record("GetJob")
	for _, j := range f.jobs {
		if j.ID == id {
			return &j, nil
		}
	}
	return nil, &api.Error{Kind: api.KindNotFound, Status: 404, Message: "Job not found"}
}

func (f *fakeBackend) CreateJob(ctx context.Context, in model.JobInput) (*model.Job, error) {
	f.record("CreateJob")
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &model.Job{ID: "job-new", Title: in.Title}, nil
}

func (f *fakeBackend) MyJobs(ctx context.Context, p, size int) (*model.Page[model.Job], error) {
	f.record("MyJobs")
	return page(f.jobs, p, size), nil
}

func (f *fakeBackend) UnreadCount(ctx context.Context) (int64, error) {
	f.record("UnreadCount")
	return 0, nil
}

func (f *fakeBackend) MyApplications(ctx context.Context, p, size int) (*model.Page[model.Application], error) {
	f.record("MyApplications")
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.apps, p, size), nil
}

func (f *fakeBackend) WithdrawApplication(ctx context.Context, id string) error {
	f.record("WithdrawApplication")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.withdrawn = append(f.withdrawn, id)
	for i := range f.apps {
		if f.apps[i].ID == id {
			f.apps[i].Status = model.ApplicationWithdrawn
		}
	}
	return nil
}

func (f *fakeBackend) SavedJobs(ctx context.Context, p, size int) (*model.Page[model.SavedJob], error) {
	f.record("SavedJobs")
	return page([]model.SavedJob{}, p, size), nil
}

func (f *fakeBackend) ListJobs(ctx context.Context, p, size int, filter model.JobFilter) (*model.Page[model.Job], error) {
	f.record("ListJobs")
	return page(f.jobs, p, size), nil
}

func (f *fakeBackend) Notifications(ctx context.Context, p, size int) (*model.Page[model.Notification], error) {
	f.record("Notifications")
	return page([]model.Notification{}, p, size), nil
}

func (f *fakeBackend) DefaultResume(ctx context.Context) (*model.Resume, error) {
	f.record("DefaultResume")
	return nil, &api.Error{Kind: api.KindNotFound, Status: 404}
}

func (f *fakeBackend) PlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	f.record("PlatformStats")
	return &model.PlatformStats{TotalUsers: 3}, nil
}

func (f *fakeBackend) AdminUsers(ctx context.Context, p, size int) (*model.Page[model.Profile], error) {
	f.record("AdminUsers")
	return page([]model.Profile{{Identity: admin, IsActive: true}}, p, size), nil
}

func (f *fakeBackend) AdminJobs(ctx context.Context, p, size int) (*model.Page[model.Job], error) {
	f.record("AdminJobs")
	return page(f.jobs, p, size), nil
}

func (f *fakeBackend) Chat(ctx context.Context, message string) (*model.ChatReply, error) {
	f.record("Chat")
	return f.chat(message)
}

type fakeAuth struct {
	Authenticator
	store *session.Store
}

func (a *fakeAuth) Logout() error {
	return a.store.Clear()
}

type harness struct {
	t       *testing.T
	store   *session.Store
	backend *fakeBackend
	m       Model
}

// newHarness builds a sized root model whose session is already resolved
// to identity, or to anonymous when identity is nil
func newHarness(t *testing.T, identity *model.Identity) *harness {
	t.Helper()
	h := newPendingHarness(t)
	h.resolve(identity)
	return h
}

// newPendingHarness leaves the session initializing
func newPendingHarness(t *testing.T) *harness {
	t.Helper()
	store := session.NewStore(&memPersister{values: map[string]string{}}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	backend := newFakeBackend()

	m := NewRootModel(Deps{
		Session:  store,
		Auth:     &fakeAuth{store: store},
		API:      backend,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		PageSize: 5,
	})
	t.Cleanup(m.Close)

	h := &harness{t: t, store: store, backend: backend, m: m}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) resolve(identity *model.Identity) {
	h.t.Helper()
	if identity != nil {
		require.NoError(h.t, h.store.Set(*identity, "token-"+identity.ID))
	} else {
		h.store.Restore(context.Background(), h.backend)
	}
	h.drain(waitForSession(h.m.updates))
}

// send delivers msg to the root model and runs whatever it returns
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	h.drain(cmd)
}

// drain runs commands breadth first, feeding results back into the model.
// Commands that block, like cursor blinks and the session listener, are
// abandoned after a short wait.
func (h *harness) drain(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := run(c)
		if !ok || msg == nil {
			continue
		}
		if batch, isBatch := msg.(tea.BatchMsg); isBatch {
			queue = append(queue, batch...)
			continue
		}
		if _, quit := msg.(tea.QuitMsg); quit {
			continue
		}
		next, out := h.m.Update(msg)
		h.m = next.(Model)
		queue = append(queue, out)
	}
}

func run(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(50 * time.Millisecond):
		return nil, false
	}
}

func (h *harness) open(route access.Route, p params) {
	h.t.Helper()
	next, cmd := h.m.navigate(navigateMsg{route: route, params: p})
	h.m = next
	h.drain(cmd)
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}
