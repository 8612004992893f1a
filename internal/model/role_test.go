package model

import (
	"encoding/json"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{"upper", "EMPLOYER", RoleEmployer, false},
		{"lower", "applicant", RoleApplicant, false},
		{"padded", "  admin ", RoleAdmin, false},
		{"unknown", "recruiter", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleSelfService(t *testing.T) {
	if RoleAdmin.SelfService() {
		t.Error("admin accounts must not be self-service")
	}
	if !RoleApplicant.SelfService() || !RoleEmployer.SelfService() {
		t.Error("applicant and employer accounts are self-service")
	}
}

func TestIdentityDecodesAccountType(t *testing.T) {
	var id Identity
	if err := json.Unmarshal([]byte(`{"id":"u1","name":"Ada","email":"a@x.io","accountType":"employer"}`), &id); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if id.Role != RoleEmployer {
		t.Errorf("role = %q, want %q", id.Role, RoleEmployer)
	}

	if err := json.Unmarshal([]byte(`{"id":"u1","accountType":"ROOT"}`), &id); err == nil {
		t.Error("expected error for unknown account type")
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name     string
		page     Page[int]
		wantPrev bool
		wantNext bool
	}{
		{"first of three", Page[int]{Number: 0, TotalPages: 3}, false, true},
		{"middle", Page[int]{Number: 1, TotalPages: 3}, true, true},
		{"last", Page[int]{Number: 2, TotalPages: 3}, true, false},
		{"empty", Page[int]{Number: 0, TotalPages: 0}, false, false},
		{"beyond end", Page[int]{Number: 5, TotalPages: 3}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.HasPrevious(); got != tt.wantPrev {
				t.Errorf("HasPrevious() = %v, want %v", got, tt.wantPrev)
			}
			if got := tt.page.HasNext(); got != tt.wantNext {
				t.Errorf("HasNext() = %v, want %v", got, tt.wantNext)
			}
		})
	}
}

func TestPageNormalize(t *testing.T) {
	var p Page[Job]
	p.Normalize()
	if p.Content == nil || len(p.Content) != 0 {
		t.Errorf("Normalize() content = %#v, want empty slice", p.Content)
	}
}

func TestSalaryRange(t *testing.T) {
	lo, hi := 50000.0, 1250000.0
	j := Job{SalaryMin: &lo, SalaryMax: &hi}
	if got, want := j.SalaryRange(), "50,000 - 1,250,000 USD"; got != want {
		t.Errorf("SalaryRange() = %q, want %q", got, want)
	}
	if got := (Job{}).SalaryRange(); got != "" {
		t.Errorf("SalaryRange() = %q, want empty", got)
	}
}
