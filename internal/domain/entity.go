package domain

import "strings"

// Person is one member of the roster.
type Person struct {
	ID         string `json:"id"`
	Rank       string `json:"rank"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Specialty  string `json:"specialty"`
	Department string `json:"department"`
}

// DisplayName is "rank first last", the snapshot stored on status entries.
func (p Person) DisplayName() string {
	return joinNonEmpty(p.Rank, p.FirstName, p.LastName)
}

// User is a login account. Password is write-only.
type User struct {
	Username   string `json:"username"`
	Rank       string `json:"rank"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Role       Role   `json:"role"`
	Password   string `json:"password,omitempty"`
}

// IsAdmin reports whether u has the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// FullName is "rank first last".
func (u User) FullName() string {
	return joinNonEmpty(u.Rank, u.FirstName, u.LastName)
}

// WithoutPassword returns a copy safe to persist or display.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

// StatusEntry is one duty/leave record for a person over a date range.
type StatusEntry struct {
	PersonnelID   string `json:"personnel_id,omitempty"`
	PersonnelName string `json:"personnel_name"`
	Status        Status `json:"status"`
	Details       string `json:"details"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

// Report sources used by the submission history.
const (
	SourceLive    = "live"
	SourceArchive = "archive"
)

// Report is one department submission, live or archived.
type Report struct {
	ID          string        `json:"id,omitempty"`
	Date        string        `json:"date"`
	Department  string        `json:"department,omitempty"`
	SubmittedBy string        `json:"submitted_by,omitempty"`
	Timestamp   string        `json:"timestamp,omitempty"`
	Year        int           `json:"year,omitempty"`
	Month       int           `json:"month,omitempty"`
	Source      string        `json:"source,omitempty"`
	Items       []StatusEntry `json:"items"`
}

// Live reports whether the report still sits in the editable live store.
func (r Report) Live() bool { return r.Source == SourceLive }

// Archive partitions archived reports by year then month; keys are decimal strings.
type Archive map[string]map[string][]Report

// Submission is the payload of submit_status_report.
type Submission struct {
	ID         string        `json:"id,omitempty"`
	Date       string        `json:"date"`
	Department string        `json:"department"`
	Items      []StatusEntry `json:"items"`
}

// DashboardSummary is the admin overview for today.
type DashboardSummary struct {
	AllDepartments       []string       `json:"all_departments"`
	SubmittedDepartments []string       `json:"submitted_departments"`
	StatusSummary        map[string]int `json:"status_summary"`
	TotalPersonnel       int            `json:"total_personnel"`
	TotalOnDuty          int            `json:"total_on_duty"`
}

// Submitted reports whether dept appears in SubmittedDepartments.
func (s DashboardSummary) Submitted(dept string) bool {
	for _, d := range s.SubmittedDepartments {
		if d == dept {
			return true
		}
	}
	return false
}

// UserDashboardSummary is the per-department overview shown to non-admin users.
type UserDashboardSummary struct {
	Department      string         `json:"department"`
	TotalPersonnel  int            `json:"total_personnel"`
	TotalOnDuty     int            `json:"total_on_duty"`
	Submitted       bool           `json:"submitted"`
	LastSubmittedAt string         `json:"last_submitted_at,omitempty"`
	StatusSummary   map[string]int `json:"status_summary"`
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
