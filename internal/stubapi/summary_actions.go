package stubapi

import (
	"context"
	"encoding/json"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

// tally counts entries per status and the distinct people they cover.
func tally(reports []domain.Report) (map[string]int, int) {
	summary := map[string]int{}
	people := map[string]bool{}
	for _, r := range reports {
		for _, it := range r.Items {
			status := string(it.Status)
			if status == "" {
				status = "ไม่ระบุ"
			}
			summary[status]++
			key := it.PersonnelID
			if key == "" {
				key = it.PersonnelName
			}
			people[key] = true
		}
	}
	return summary, len(people)
}

func departments(people []domain.Person) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range people {
		if p.Department == "" || seen[p.Department] {
			continue
		}
		seen[p.Department] = true
		out = append(out, p.Department)
	}
	return out
}

// dashboardSummary covers reports dated today.
func (h *Handler) dashboardSummary(ctx context.Context, _ *domain.User, _ json.RawMessage) (reply, error) {
	people, err := h.repo.ListPersonnel(ctx, "", "")
	if err != nil {
		return nil, err
	}
	reports, err := h.repo.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	today := domain.FormatDate(h.today())
	var todays []domain.Report
	submitted := []string{}
	seen := map[string]bool{}
	for _, r := range reports {
		if r.Date != today {
			continue
		}
		todays = append(todays, r)
		if !seen[r.Department] {
			seen[r.Department] = true
			submitted = append(submitted, r.Department)
		}
	}
	statuses, reported := tally(todays)
	return ok("").with("summary", domain.DashboardSummary{
		AllDepartments:       departments(people),
		SubmittedDepartments: submitted,
		StatusSummary:        statuses,
		TotalPersonnel:       len(people),
		TotalOnDuty:          len(people) - reported,
	}), nil
}

// userDashboardSummary covers the caller's department for this week,
// counting the most recent submission only.
func (h *Handler) userDashboardSummary(ctx context.Context, session *domain.User, _ json.RawMessage) (reply, error) {
	if session.Department == "" {
		return fail(msgNoDepartment), nil
	}
	people, err := h.repo.ListPersonnel(ctx, session.Department, "")
	if err != nil {
		return nil, err
	}
	current, err := h.currentReports(ctx, session.Department)
	if err != nil {
		return nil, err
	}
	summary := domain.UserDashboardSummary{
		Department:     session.Department,
		TotalPersonnel: len(people),
		TotalOnDuty:    len(people),
		StatusSummary:  map[string]int{},
	}
	if len(current) > 0 {
		latest := current[0]
		statuses, reported := tally([]domain.Report{latest})
		summary.Submitted = true
		summary.LastSubmittedAt = latest.Timestamp
		summary.StatusSummary = statuses
		summary.TotalOnDuty = len(people) - reported
	}
	return ok("").with("summary", summary), nil
}
