package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// statusError is a store failure that maps onto an HTTP status
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func notFound(what string) error { return &statusError{http.StatusNotFound, what + " not found"} }
func conflict(msg string) error  { return &statusError{http.StatusConflict, msg} }
func forbidden(msg string) error { return &statusError{http.StatusForbidden, msg} }
func invalid(msg string) error   { return &statusError{http.StatusBadRequest, msg} }

func writeStoreError(w http.ResponseWriter, err error) {
	var se *statusError
	if errors.As(err, &se) {
		writeError(w, se.status, se.msg)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

type user struct {
	model.Profile
	PasswordHash string
	CreatedAt    time.Time
}

type resumeRecord struct {
	model.Resume
	OwnerID string
}

type savedRecord struct {
	ID      string
	UserID  string
	JobID   string
	SavedAt time.Time
}

type notificationRecord struct {
	model.Notification
	UserID string
}

type oneTimeToken struct {
	UserID  string
	Expires time.Time
}

// Store is the in-memory data set behind the development API
type Store struct {
	mu            sync.RWMutex
	users         map[string]*user
	emails        map[string]string // lowercased email -> user id
	jobs          map[string]*model.Job
	applications  map[string]*model.Application
	resumes       map[string]*resumeRecord
	saved         map[string]*savedRecord
	notifications map[string]*notificationRecord
	reviews       map[string][]model.CompanyReview // by company id
	verifyTokens  map[string]oneTimeToken
	resetTokens   map[string]oneTimeToken
	now           func() time.Time
}

// NewStore returns an empty Store
func NewStore() *Store {
	return &Store{
		users:         make(map[string]*user),
		emails:        make(map[string]string),
		jobs:          make(map[string]*model.Job),
		applications:  make(map[string]*model.Application),
		resumes:       make(map[string]*resumeRecord),
		saved:         make(map[string]*savedRecord),
		notifications: make(map[string]*notificationRecord),
		reviews:       make(map[string][]model.CompanyReview),
		verifyTokens:  make(map[string]oneTimeToken),
		resetTokens:   make(map[string]oneTimeToken),
		now:           time.Now,
	}
}

func newID() string {
	return uuid.New().String()
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// --- users ---

func (s *Store) activeUser(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return ok && u.IsActive
}

// createUser adds an account. The password must already be hashed.
func (s *Store) createUser(name, email, passwordHash string, role model.Role, verified bool) (*user, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, invalid("Invalid email format")
	}
	if strings.TrimSpace(name) == "" {
		return nil, invalid("Name is required")
	}
	if !role.Valid() {
		return nil, invalid("Invalid account type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.emails[email]; exists {
		return nil, conflict("User already exists with email: " + email)
	}
	u := &user{
		Profile: model.Profile{
			Identity:        model.Identity{ID: newID(), Name: strings.TrimSpace(name), Email: email, Role: role},
			IsActive:        true,
			IsEmailVerified: verified,
		},
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	s.users[u.ID] = u
	s.emails[email] = u.ID
	return u, nil
}

func (s *Store) userByEmail(email string) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, false
	}
	u := *s.users[id]
	return &u, true
}

func (s *Store) profile(id string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.Profile{}, notFound("User")
	}
	return u.Profile, nil
}

func (s *Store) updateProfile(id string, in model.ProfileUpdate) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.Profile{}, notFound("User")
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	u.Phone = in.Phone
	u.Location = in.Location
	u.Bio = in.Bio
	if in.Skills != nil {
		u.Skills = in.Skills
	}
	return u.Profile, nil
}

func (s *Store) setPasswordHash(id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return notFound("User")
	}
	u.PasswordHash = hash
	return nil
}

func (s *Store) issueToken(tokens map[string]oneTimeToken, userID string, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok := newID()
	tokens[tok] = oneTimeToken{UserID: userID, Expires: s.now().Add(ttl)}
	return tok
}

func (s *Store) issueVerifyToken(userID string) string {
	return s.issueToken(s.verifyTokens, userID, 24*time.Hour)
}

func (s *Store) issueResetToken(userID string) string {
	return s.issueToken(s.resetTokens, userID, time.Hour)
}

func (s *Store) verifyEmail(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.verifyTokens[token]
	if !ok {
		return invalid("Invalid verification token")
	}
	delete(s.verifyTokens, token)
	if s.now().After(t.Expires) {
		return invalid("Verification token has expired. Please request a new one.")
	}
	u, ok := s.users[t.UserID]
	if !ok {
		return notFound("User")
	}
	u.IsEmailVerified = true
	return nil
}

// consumeResetToken returns the user a reset token belongs to and invalidates it
func (s *Store) consumeResetToken(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.resetTokens[token]
	if !ok {
		return "", invalid("Invalid or expired reset token")
	}
	delete(s.resetTokens, token)
	if s.now().After(t.Expires) {
		return "", invalid("Reset token has expired. Please request a new one.")
	}
	return t.UserID, nil
}

func (s *Store) passwordHash(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return "", false
	}
	return u.PasswordHash, true
}

// --- admin ---

func (s *Store) stats() model.PlatformStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st model.PlatformStats
	for _, u := range s.users {
		st.TotalUsers++
		switch u.Role {
		case model.RoleApplicant:
			st.TotalApplicants++
		case model.RoleEmployer:
			st.TotalEmployers++
		}
	}
	for _, j := range s.jobs {
		st.TotalJobs++
		if j.Status == "active" {
			st.ActiveJobs++
		}
	}
	st.TotalApplications = int64(len(s.applications))
	return st
}

func (s *Store) listUsers() []model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*user, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	out := make([]model.Profile, len(users))
	for i, u := range users {
		out[i] = u.Profile
	}
	return out
}

func (s *Store) setUserActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return notFound("User")
	}
	u.IsActive = active
	return nil
}

func (s *Store) deleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return notFound("User")
	}
	delete(s.emails, u.Email)
	delete(s.users, id)
	for rid, r := range s.resumes {
		if r.OwnerID == id {
			delete(s.resumes, rid)
		}
	}
	for sid, sv := range s.saved {
		if sv.UserID == id {
			delete(s.saved, sid)
		}
	}
	for nid, n := range s.notifications {
		if n.UserID == id {
			delete(s.notifications, nid)
		}
	}
	return nil
}

// --- notifications ---

// notifyLocked records a notification. Callers hold s.mu.
func (s *Store) notifyLocked(userID, kind, title, message, relatedID string) {
	n := &notificationRecord{
		Notification: model.Notification{
			ID:        newID(),
			Type:      kind,
			Title:     title,
			Message:   message,
			RelatedID: relatedID,
			CreatedAt: s.now(),
		},
		UserID: userID,
	}
	s.notifications[n.ID] = n
}

func (s *Store) notificationsFor(userID string) []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n.Notification)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) unreadCount(userID string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, rec := range s.notifications {
		if rec.UserID == userID && !rec.Read {
			n++
		}
	}
	return n
}

func (s *Store) ownedNotificationLocked(userID, id string) (*notificationRecord, error) {
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return nil, notFound("Notification")
	}
	return n, nil
}

func (s *Store) markRead(userID, id string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.ownedNotificationLocked(userID, id)
	if err != nil {
		return model.Notification{}, err
	}
	n.Read = true
	return n.Notification, nil
}

func (s *Store) markAllRead(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
}

func (s *Store) deleteNotification(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedNotificationLocked(userID, id); err != nil {
		return err
	}
	delete(s.notifications, id)
	return nil
}

// --- company reviews ---

func (s *Store) companyReviews(companyID string) []model.CompanyReview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CompanyReview, len(s.reviews[companyID]))
	copy(out, s.reviews[companyID])
	return out
}

func (s *Store) addReview(companyID, authorID string, in model.ReviewInput) (model.CompanyReview, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return model.CompanyReview{}, invalid("Rating must be between 1 and 5")
	}
	if strings.TrimSpace(in.Title) == "" {
		return model.CompanyReview{}, invalid("Title is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	author := ""
	if u, ok := s.users[authorID]; ok {
		author = u.Name
	}
	r := model.CompanyReview{
		ID:         newID(),
		CompanyID:  companyID,
		AuthorName: author,
		Rating:     in.Rating,
		Title:      strings.TrimSpace(in.Title),
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  s.now().UTC().Format(time.RFC3339),
	}
	s.reviews[companyID] = append([]model.CompanyReview{r}, s.reviews[companyID]...)
	return r, nil
}

func companyID(company string) string {
	slug := strings.ToLower(strings.TrimSpace(company))
	slug = strings.Join(strings.Fields(slug), "-")
	return fmt.Sprintf("company-%s", slug)
}
