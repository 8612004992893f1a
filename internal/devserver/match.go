package devserver

import (
	"math"
	"sort"
	"strings"

	"github.com/jobportal/jobportal-tui/internal/model"
)

const maxMatches = 10

func skillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, sk := range skills {
		if k := strings.ToLower(strings.TrimSpace(sk)); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// scoreLocked is the share of the job's skills covered by skills, 0..100.
// It reports false when either side lists no skills.
func (s *Store) scoreLocked(skills []string, j *model.Job) (float64, bool) {
	have := skillSet(skills)
	want := skillSet(j.Skills)
	if len(have) == 0 || len(want) == 0 {
		return 0, false
	}
	hits := 0
	for k := range want {
		if _, ok := have[k]; ok {
			hits++
		}
	}
	return math.Round(float64(hits) / float64(len(want)) * 100), true
}

func (s *Store) resumeSkillsLocked(ownerID string, r *resumeRecord) []string {
	if r.ParsedData != nil && len(r.ParsedData.Skills) > 0 {
		return r.ParsedData.Skills
	}
	if u, ok := s.users[ownerID]; ok {
		return u.Skills
	}
	return nil
}

// matchJobs ranks active jobs by skill overlap with a resume
func (s *Store) matchJobs(ownerID, resumeID string) ([]model.MatchedJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, err := s.ownedResumeLocked(ownerID, resumeID)
	if err != nil {
		return nil, err
	}
	skills := s.resumeSkillsLocked(ownerID, r)

	out := []model.MatchedJob{}
	for _, j := range s.jobs {
		if j.Status != jobActive {
			continue
		}
		score, ok := s.scoreLocked(skills, j)
		if !ok || score == 0 {
			continue
		}
		out = append(out, model.MatchedJob{Job: *j, MatchScore: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > maxMatches {
		out = out[:maxMatches]
	}
	return out, nil
}

// trendingSkills counts skills across active jobs, most frequent first
func (s *Store) trendingSkills(limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[string]int{}
	for _, j := range s.jobs {
		if j.Status != jobActive {
			continue
		}
		for k := range skillSet(j.Skills) {
			counts[k]++
		}
	}
	skills := make([]string, 0, len(counts))
	for k := range counts {
		skills = append(skills, k)
	}
	sort.Slice(skills, func(i, j int) bool {
		if counts[skills[i]] != counts[skills[j]] {
			return counts[skills[i]] > counts[skills[j]]
		}
		return skills[i] < skills[j]
	})
	if len(skills) > limit {
		skills = skills[:limit]
	}
	return skills
}

// salaryInsight summarises salary bounds of active jobs matching skill and location
func (s *Store) salaryInsight(skill, location string) model.SalaryInsight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in := model.SalaryInsight{Skill: skill, Location: location}
	var sum float64
	for _, j := range s.jobs {
		if j.Status != jobActive || j.SalaryMin == nil || j.SalaryMax == nil {
			continue
		}
		if location != "" && !containsFold(j.Location, location) {
			continue
		}
		if skill != "" {
			if _, ok := skillSet(j.Skills)[strings.ToLower(skill)]; !ok && !containsFold(j.Title, skill) {
				continue
			}
		}
		if in.SampleSize == 0 || *j.SalaryMin < in.Min {
			in.Min = *j.SalaryMin
		}
		if *j.SalaryMax > in.Max {
			in.Max = *j.SalaryMax
		}
		sum += (*j.SalaryMin + *j.SalaryMax) / 2
		in.SampleSize++
	}
	if in.SampleSize > 0 {
		in.Average = math.Round(sum / float64(in.SampleSize))
	}
	return in
}

func (s *Store) applicationIntel(applicantID string) model.ApplicationIntel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var intel model.ApplicationIntel
	for _, a := range s.applications {
		if a.ApplicantID != applicantID {
			continue
		}
		intel.TotalApplications++
		switch a.Status {
		case model.ApplicationPending:
			intel.Pending++
		case model.ApplicationShortlisted:
			intel.Shortlisted++
		case model.ApplicationRejected:
			intel.Rejected++
		}
	}
	hasDefault := false
	for _, r := range s.resumes {
		if r.OwnerID == applicantID && r.IsDefault {
			hasDefault = true
		}
	}
	if !hasDefault {
		intel.Tips = append(intel.Tips, "Upload a resume and mark it as default so you can apply in one step.")
	}
	if intel.TotalApplications == 0 {
		intel.Tips = append(intel.Tips, "You have not applied anywhere yet. Try the job search to find openings.")
	} else if intel.Rejected*2 > intel.TotalApplications {
		intel.Tips = append(intel.Tips, "Tailor your cover letter to each role's listed skills.")
	}
	return intel
}

func (s *Store) candidates(limit int) []model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Identity{}
	for _, u := range s.users {
		if u.Role == model.RoleApplicant && u.IsActive {
			out = append(out, u.Identity)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
