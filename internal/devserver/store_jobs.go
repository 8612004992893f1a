package devserver

import (
	"slices"
	"sort"
	"strings"

	"github.com/jobportal/jobportal-tui/internal/model"
)

const jobActive = "active"

func sortJobs(jobs []model.Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID < jobs[j].ID
	})
}

func (s *Store) collectJobs(keep func(*model.Job) bool) []model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Job{}
	for _, j := range s.jobs {
		if keep(j) {
			out = append(out, *j)
		}
	}
	sortJobs(out)
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// listJobs returns active jobs matching the filter, newest first
func (s *Store) listJobs(f model.JobFilter) []model.Job {
	return s.collectJobs(func(j *model.Job) bool {
		if j.Status != jobActive {
			return false
		}
		if f.Location != "" && !containsFold(j.Location, f.Location) {
			return false
		}
		if f.JobType != "" && !strings.EqualFold(j.JobType, f.JobType) {
			return false
		}
		if f.Category != "" && !strings.EqualFold(j.Category, f.Category) {
			return false
		}
		return true
	})
}

func (s *Store) searchJobs(q string) []model.Job {
	q = strings.TrimSpace(q)
	return s.collectJobs(func(j *model.Job) bool {
		if j.Status != jobActive {
			return false
		}
		if q == "" {
			return true
		}
		if containsFold(j.Title, q) || containsFold(j.Company, q) || containsFold(j.Description, q) || containsFold(j.Location, q) {
			return true
		}
		return slices.ContainsFunc(j.Skills, func(sk string) bool { return containsFold(sk, q) })
	})
}

func (s *Store) featuredJobs() []model.Job {
	return s.collectJobs(func(j *model.Job) bool { return j.Status == jobActive && j.IsFeatured })
}

func (s *Store) jobsPostedBy(userID string) []model.Job {
	return s.collectJobs(func(j *model.Job) bool { return j.PostedBy == userID })
}

func (s *Store) allJobs() []model.Job {
	return s.collectJobs(func(*model.Job) bool { return true })
}

func (s *Store) job(id string, countView bool) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return model.Job{}, notFound("Job")
	}
	if countView {
		j.Views++
	}
	return *j, nil
}

func validateJobInput(in model.JobInput) error {
	required := []struct{ name, value string }{
		{"Title", in.Title},
		{"Company", in.Company},
		{"Location", in.Location},
		{"Job type", in.JobType},
		{"Category", in.Category},
		{"Description", in.Description},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name + " is required")
		}
	}
	if !slices.Contains(model.JobTypes, in.JobType) {
		return invalid("Invalid job type: " + in.JobType)
	}
	if in.ExperienceLevel != "" && !slices.Contains(model.ExperienceLevels, in.ExperienceLevel) {
		return invalid("Invalid experience level: " + in.ExperienceLevel)
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return invalid("Minimum salary cannot exceed maximum salary")
	}
	return nil
}

func applyJobInput(j *model.Job, in model.JobInput) {
	j.Title = strings.TrimSpace(in.Title)
	j.Company = strings.TrimSpace(in.Company)
	j.CompanyID = companyID(in.Company)
	j.CompanyLogo = in.CompanyLogo
	j.Description = strings.TrimSpace(in.Description)
	j.Requirements = in.Requirements
	j.Responsibilities = in.Responsibilities
	j.Location = strings.TrimSpace(in.Location)
	j.JobType = in.JobType
	j.ExperienceLevel = in.ExperienceLevel
	j.SalaryMin = in.SalaryMin
	j.SalaryMax = in.SalaryMax
	j.SalaryCurrency = in.SalaryCurrency
	j.Category = strings.TrimSpace(in.Category)
	j.Industry = in.Industry
	j.Skills = in.Skills
	j.ApplicationDeadline = in.ApplicationDeadline
	j.IsFeatured = in.IsFeatured
}

func (s *Store) createJob(ownerID string, in model.JobInput) (model.Job, error) {
	if err := validateJobInput(in); err != nil {
		return model.Job{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	j := &model.Job{ID: newID(), PostedBy: ownerID, Status: jobActive, CreatedAt: now, UpdatedAt: now}
	applyJobInput(j, in)
	s.jobs[j.ID] = j
	return *j, nil
}

func (s *Store) ownedJobLocked(callerID string, callerRole model.Role, id string) (*model.Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return nil, notFound("Job")
	}
	if j.PostedBy != callerID && callerRole != model.RoleAdmin {
		return nil, forbidden("You can only manage your own jobs")
	}
	return j, nil
}

func (s *Store) updateJob(callerID string, callerRole model.Role, id string, in model.JobInput) (model.Job, error) {
	if err := validateJobInput(in); err != nil {
		return model.Job{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	j, err := s.ownedJobLocked(callerID, callerRole, id)
	if err != nil {
		return model.Job{}, err
	}
	applyJobInput(j, in)
	j.UpdatedAt = s.now()
	return *j, nil
}

func (s *Store) deleteJob(callerID string, callerRole model.Role, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedJobLocked(callerID, callerRole, id); err != nil {
		return err
	}
	delete(s.jobs, id)
	for sid, sv := range s.saved {
		if sv.JobID == id {
			delete(s.saved, sid)
		}
	}
	return nil
}

// --- applications ---

func sortApplications(apps []model.Application) {
	sort.Slice(apps, func(i, j int) bool {
		if !apps[i].AppliedAt.Equal(apps[j].AppliedAt) {
			return apps[i].AppliedAt.After(apps[j].AppliedAt)
		}
		return apps[i].ID < apps[j].ID
	})
}

func (s *Store) apply(applicantID, jobID string, in model.ApplicationInput) (model.Application, error) {
	if strings.TrimSpace(in.ResumeURL) == "" {
		return model.Application{}, invalid("Resume URL is required")
	}
	if len([]rune(in.CoverLetter)) > model.MaxCoverLetter {
		return model.Application{}, invalid("Cover letter must be at most 2000 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return model.Application{}, notFound("Job")
	}
	if j.Status != jobActive {
		return model.Application{}, invalid("This job is no longer accepting applications")
	}
	if j.ApplicationDeadline != nil && s.now().After(*j.ApplicationDeadline) {
		return model.Application{}, invalid("The application deadline has passed")
	}
	for _, a := range s.applications {
		if a.JobID == jobID && a.ApplicantID == applicantID && a.Status != model.ApplicationWithdrawn {
			return model.Application{}, conflict("You have already applied for this job")
		}
	}

	applicant := s.users[applicantID]
	now := s.now()
	app := &model.Application{
		ID:          newID(),
		JobID:       jobID,
		JobTitle:    j.Title,
		Company:     j.Company,
		ApplicantID: applicantID,
		ResumeURL:   strings.TrimSpace(in.ResumeURL),
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		Status:      model.ApplicationPending,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	if applicant != nil {
		app.ApplicantName = applicant.Name
		app.ApplicantEmail = applicant.Email
		if score, ok := s.scoreLocked(applicant.Skills, j); ok {
			app.MatchScore = &score
		}
	}
	for _, r := range s.resumes {
		if r.OwnerID == applicantID && r.FileURL == app.ResumeURL {
			app.ResumeFileName = r.FileName
		}
	}
	s.applications[app.ID] = app
	j.ApplicationCount++

	s.notifyLocked(j.PostedBy, "application", "New application",
		app.ApplicantName+" applied for "+j.Title, app.ID)
	return *app, nil
}

func (s *Store) applicationsBy(applicantID string) []model.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Application{}
	for _, a := range s.applications {
		if a.ApplicantID == applicantID {
			out = append(out, *a)
		}
	}
	sortApplications(out)
	return out
}

func (s *Store) applicationsFor(callerID string, callerRole model.Role, jobID string) ([]model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return nil, notFound("Job")
	}
	if j.PostedBy != callerID && callerRole != model.RoleAdmin {
		return nil, forbidden("You can only view applications for your own jobs")
	}
	out := []model.Application{}
	for _, a := range s.applications {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	sortApplications(out)
	return out, nil
}

func (s *Store) application(callerID string, callerRole model.Role, id string) (model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.applications[id]
	if !ok {
		return model.Application{}, notFound("Application")
	}
	if a.ApplicantID == callerID || callerRole == model.RoleAdmin {
		return *a, nil
	}
	if j, ok := s.jobs[a.JobID]; ok && j.PostedBy == callerID {
		return *a, nil
	}
	return model.Application{}, forbidden("You cannot view this application")
}

func (s *Store) updateApplicationStatus(callerID string, id string, upd model.StatusUpdate) (model.Application, error) {
	if !slices.Contains(model.ReviewStatuses(), upd.Status) {
		return model.Application{}, invalid("Invalid status: " + string(upd.Status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applications[id]
	if !ok {
		return model.Application{}, notFound("Application")
	}
	j, ok := s.jobs[a.JobID]
	if !ok || j.PostedBy != callerID {
		return model.Application{}, forbidden("You can only review applications for your own jobs")
	}
	if a.Status == model.ApplicationWithdrawn {
		return model.Application{}, conflict("This application has been withdrawn")
	}

	a.Status = upd.Status
	a.Notes = upd.Notes
	a.RejectionReason = ""
	if upd.Status == model.ApplicationRejected {
		a.RejectionReason = upd.RejectionReason
	}
	a.UpdatedAt = s.now()

	s.notifyLocked(a.ApplicantID, "status_update", "Application update",
		"Your application for "+a.JobTitle+" is now "+string(a.Status), a.ID)
	return *a, nil
}

func (s *Store) withdraw(applicantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applications[id]
	if !ok || a.ApplicantID != applicantID {
		return notFound("Application")
	}
	if !a.Status.Withdrawable() {
		return conflict("Only pending applications can be withdrawn")
	}
	a.Status = model.ApplicationWithdrawn
	a.UpdatedAt = s.now()
	if j, ok := s.jobs[a.JobID]; ok && j.ApplicationCount > 0 {
		j.ApplicationCount--
	}
	return nil
}

// --- resumes ---

func (s *Store) resumesOf(ownerID string) []model.Resume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Resume{}
	for _, r := range s.resumes {
		if r.OwnerID == ownerID {
			out = append(out, r.Resume)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) ownedResumeLocked(ownerID, id string) (*resumeRecord, error) {
	r, ok := s.resumes[id]
	if !ok || r.OwnerID != ownerID {
		return nil, notFound("Resume")
	}
	return r, nil
}

func (s *Store) resume(ownerID, id string) (model.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, err := s.ownedResumeLocked(ownerID, id)
	if err != nil {
		return model.Resume{}, err
	}
	return r.Resume, nil
}

func (s *Store) defaultResume(ownerID string) (model.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.resumes {
		if r.OwnerID == ownerID && r.IsDefault {
			return r.Resume, nil
		}
	}
	return model.Resume{}, notFound("Default resume")
}

var resumeTypes = []string{"pdf", "doc", "docx"}

func validateResumeInput(in model.ResumeInput) error {
	if strings.TrimSpace(in.FileName) == "" {
		return invalid("File name is required")
	}
	if strings.TrimSpace(in.FileURL) == "" {
		return invalid("File URL is required")
	}
	if in.FileType != "" && !slices.Contains(resumeTypes, strings.ToLower(in.FileType)) {
		return invalid("Only PDF, DOC and DOCX resumes are supported")
	}
	return nil
}

func (s *Store) setDefaultLocked(ownerID, id string) {
	for _, r := range s.resumes {
		if r.OwnerID == ownerID {
			r.IsDefault = r.ID == id
		}
	}
}

func (s *Store) createResume(ownerID string, in model.ResumeInput) (model.Resume, error) {
	if err := validateResumeInput(in); err != nil {
		return model.Resume{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	first := true
	for _, r := range s.resumes {
		if r.OwnerID == ownerID {
			first = false
			break
		}
	}
	r := &resumeRecord{
		Resume: model.Resume{
			ID:         newID(),
			FileName:   strings.TrimSpace(in.FileName),
			FileURL:    strings.TrimSpace(in.FileURL),
			FileSize:   in.FileSize,
			FileType:   strings.ToLower(in.FileType),
			UploadedAt: s.now(),
		},
		OwnerID: ownerID,
	}
	if u, ok := s.users[ownerID]; ok && len(u.Skills) > 0 {
		r.ParsedData = &model.ParsedData{Skills: slices.Clone(u.Skills)}
	}
	s.resumes[r.ID] = r
	if first || in.IsDefault {
		s.setDefaultLocked(ownerID, r.ID)
	}
	return r.Resume, nil
}

func (s *Store) updateResume(ownerID, id string, in model.ResumeInput) (model.Resume, error) {
	if err := validateResumeInput(in); err != nil {
		return model.Resume{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.ownedResumeLocked(ownerID, id)
	if err != nil {
		return model.Resume{}, err
	}
	r.FileName = strings.TrimSpace(in.FileName)
	r.FileURL = strings.TrimSpace(in.FileURL)
	r.FileSize = in.FileSize
	r.FileType = strings.ToLower(in.FileType)
	if in.IsDefault {
		s.setDefaultLocked(ownerID, id)
	}
	return r.Resume, nil
}

func (s *Store) setDefaultResume(ownerID, id string) (model.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.ownedResumeLocked(ownerID, id)
	if err != nil {
		return model.Resume{}, err
	}
	s.setDefaultLocked(ownerID, id)
	return r.Resume, nil
}

func (s *Store) deleteResume(ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.ownedResumeLocked(ownerID, id)
	if err != nil {
		return err
	}
	delete(s.resumes, id)
	if !r.IsDefault {
		return nil
	}
	// promote the newest remaining resume
	var newest *resumeRecord
	for _, other := range s.resumes {
		if other.OwnerID == ownerID && (newest == nil || other.UploadedAt.After(newest.UploadedAt)) {
			newest = other
		}
	}
	if newest != nil {
		newest.IsDefault = true
	}
	return nil
}

// --- saved jobs ---

func (s *Store) saveJob(userID, jobID string) (model.SavedJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return model.SavedJob{}, notFound("Job")
	}
	for _, sv := range s.saved {
		if sv.UserID == userID && sv.JobID == jobID {
			return model.SavedJob{}, conflict("Job already saved")
		}
	}
	rec := &savedRecord{ID: newID(), UserID: userID, JobID: jobID, SavedAt: s.now()}
	s.saved[rec.ID] = rec
	return model.SavedJob{ID: rec.ID, Job: *j, SavedAt: rec.SavedAt}, nil
}

func (s *Store) unsaveJob(userID, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sv := range s.saved {
		if sv.UserID == userID && sv.JobID == jobID {
			delete(s.saved, id)
			return nil
		}
	}
	return notFound("Saved job")
}

func (s *Store) isSaved(userID, jobID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sv := range s.saved {
		if sv.UserID == userID && sv.JobID == jobID {
			return true
		}
	}
	return false
}

func (s *Store) savedJobs(userID string) []model.SavedJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.SavedJob{}
	for _, sv := range s.saved {
		if sv.UserID != userID {
			continue
		}
		if j, ok := s.jobs[sv.JobID]; ok {
			out = append(out, model.SavedJob{ID: sv.ID, Job: *j, SavedAt: sv.SavedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].SavedAt.After(out[j].SavedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
