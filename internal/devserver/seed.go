package devserver

import (
	"fmt"
	"time"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// DemoAccount is a seeded login
type DemoAccount struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
	Verified bool
	Skills   []string
}

// DemoAccounts are created by Seed, one per role plus an unverified applicant
var DemoAccounts = []DemoAccount{
	{"Ada Admin", "admin@jobportal.dev", "Admin@123", model.RoleAdmin, true, nil},
	{"Erin Employer", "employer@jobportal.dev", "Employer@123", model.RoleEmployer, true, nil},
	{"Sam Seeker", "applicant@jobportal.dev", "Applicant@123", model.RoleApplicant, true, []string{"Go", "PostgreSQL", "Docker", "Kubernetes"}},
	{"Uma Unverified", "unverified@jobportal.dev", "Unverified@123", model.RoleApplicant, false, nil},
}

func ptr[T any](v T) *T { return &v }

var demoJobs = []model.JobInput{
	{Title: "Senior Go Engineer", Company: "Gopher Labs", Location: "Berlin, Germany", JobType: "full-time", ExperienceLevel: "senior", Category: "Engineering", Industry: "Software",
		Description: "Build and operate the services behind our logistics platform.", Skills: []string{"Go", "PostgreSQL", "Kubernetes"}, SalaryMin: ptr(85000.0), SalaryMax: ptr(110000.0), SalaryCurrency: "EUR", IsFeatured: true},
	{Title: "Platform Engineer", Company: "Gopher Labs", Location: "Remote", JobType: "remote", ExperienceLevel: "mid", Category: "Engineering", Industry: "Software",
		Description: "Own CI, observability and the Kubernetes platform.", Skills: []string{"Kubernetes", "Terraform", "Docker"}, SalaryMin: ptr(70000.0), SalaryMax: ptr(95000.0), SalaryCurrency: "EUR"},
	{Title: "Frontend Developer", Company: "Pixel Works", Location: "London, UK", JobType: "full-time", ExperienceLevel: "mid", Category: "Engineering", Industry: "Media",
		Description: "Ship accessible, fast interfaces for our publishing tools.", Skills: []string{"React", "TypeScript", "CSS"}, SalaryMin: ptr(55000.0), SalaryMax: ptr(70000.0), SalaryCurrency: "GBP"},
	{Title: "Data Analyst", Company: "Numbers Inc", Location: "New York, USA", JobType: "full-time", ExperienceLevel: "entry", Category: "Data", Industry: "Finance",
		Description: "Turn product data into weekly decisions.", Skills: []string{"SQL", "Python", "Tableau"}, SalaryMin: ptr(65000.0), SalaryMax: ptr(80000.0), IsFeatured: true},
	{Title: "Backend Intern", Company: "Gopher Labs", Location: "Berlin, Germany", JobType: "internship", ExperienceLevel: "entry", Category: "Engineering", Industry: "Software",
		Description: "Six month internship on the API team.", Skills: []string{"Go", "Docker"}},
	{Title: "DevOps Contractor", Company: "Cloudy Co", Location: "Remote", JobType: "contract", ExperienceLevel: "senior", Category: "Operations", Industry: "Cloud",
		Description: "Migrate legacy workloads to containers.", Skills: []string{"Docker", "Kubernetes", "AWS"}, SalaryMin: ptr(90000.0), SalaryMax: ptr(120000.0)},
	{Title: "Product Designer", Company: "Pixel Works", Location: "London, UK", JobType: "part-time", ExperienceLevel: "mid", Category: "Design", Industry: "Media",
		Description: "Design flows for editors and readers.", Skills: []string{"Figma", "User Research"}},
	{Title: "Machine Learning Engineer", Company: "Numbers Inc", Location: "New York, USA", JobType: "full-time", ExperienceLevel: "senior", Category: "Data", Industry: "Finance",
		Description: "Productionise risk models.", Skills: []string{"Python", "PostgreSQL", "Kubernetes"}, SalaryMin: ptr(130000.0), SalaryMax: ptr(160000.0)},
	{Title: "Support Engineer", Company: "Cloudy Co", Location: "Dublin, Ireland", JobType: "full-time", ExperienceLevel: "entry", Category: "Operations", Industry: "Cloud",
		Description: "Help customers run their workloads.", Skills: []string{"Linux", "AWS"}, SalaryMin: ptr(40000.0), SalaryMax: ptr(52000.0), SalaryCurrency: "EUR"},
	{Title: "Engineering Manager", Company: "Gopher Labs", Location: "Berlin, Germany", JobType: "full-time", ExperienceLevel: "executive", Category: "Engineering", Industry: "Software",
		Description: "Lead two backend teams.", Skills: []string{"Go", "Leadership"}, SalaryMin: ptr(120000.0), SalaryMax: ptr(145000.0), SalaryCurrency: "EUR"},
	{Title: "QA Engineer", Company: "Pixel Works", Location: "Remote", JobType: "remote", ExperienceLevel: "mid", Category: "Engineering", Industry: "Media",
		Description: "Automate end-to-end testing.", Skills: []string{"Playwright", "TypeScript"}},
	{Title: "Site Reliability Engineer", Company: "Cloudy Co", Location: "Dublin, Ireland", JobType: "full-time", ExperienceLevel: "senior", Category: "Operations", Industry: "Cloud",
		Description: "Keep the lights on across three regions.", Skills: []string{"Go", "Kubernetes", "Prometheus"}, SalaryMin: ptr(95000.0), SalaryMax: ptr(125000.0), SalaryCurrency: "EUR"},
}

// Seed fills the store with demo accounts, jobs, a resume, an application
// and a notification. Seed is meant for a fresh Server.
func (s *Server) Seed() error {
	ids := make(map[model.Role]string)
	for _, a := range DemoAccounts {
		hash, err := s.hasher.Hash(a.Password)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		u, err := s.store.createUser(a.Name, a.Email, hash, a.Role, a.Verified)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", a.Email, err)
		}
		if len(a.Skills) > 0 {
			if _, err := s.store.updateProfile(u.ID, model.ProfileUpdate{Skills: a.Skills, Location: "Berlin, Germany"}); err != nil {
				return fmt.Errorf("seed profile %s: %w", a.Email, err)
			}
		}
		if _, seen := ids[a.Role]; !seen {
			ids[a.Role] = u.ID
		}
	}

	employer := ids[model.RoleEmployer]
	applicant := ids[model.RoleApplicant]

	var first model.Job
	for i, in := range demoJobs {
		job, err := s.store.createJob(employer, in)
		if err != nil {
			return fmt.Errorf("seed job %q: %w", in.Title, err)
		}
		// spread creation times so newest-first ordering is stable
		s.store.backdateJob(job.ID, time.Duration(len(demoJobs)-i)*time.Hour)
		if i == 0 {
			first = job
		}
	}

	resume, err := s.store.createResume(applicant, model.ResumeInput{
		FileName: "sam-seeker-cv.pdf",
		FileURL:  "https://files.jobportal.dev/resumes/sam-seeker-cv.pdf",
		FileType: "pdf",
		FileSize: 182_044,
	})
	if err != nil {
		return fmt.Errorf("seed resume: %w", err)
	}
	if _, err := s.store.apply(applicant, first.ID, model.ApplicationInput{
		ResumeURL:   resume.FileURL,
		CoverLetter: "I have run Go services on Kubernetes for four years.",
	}); err != nil {
		return fmt.Errorf("seed application: %w", err)
	}

	s.store.mu.Lock()
	s.store.notifyLocked(applicant, "system", "Welcome", "Your profile is ready. Start by uploading a resume.", "")
	s.store.mu.Unlock()

	s.logger.Info("demo data seeded", "users", len(DemoAccounts), "jobs", len(demoJobs))
	return nil
}

func (s *Store) backdateJob(id string, by time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.CreatedAt = s.now().Add(-by)
		j.UpdatedAt = j.CreatedAt
	}
}
