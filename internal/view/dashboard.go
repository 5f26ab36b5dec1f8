package view

import (
	"io"
	"sort"
	"strconv"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

const (
	emptyStatusSummary = "ยังไม่มีรายงาน"
	emptyDepartments   = "ไม่พบข้อมูลแผนก"
)

// StatusCount is one line of a status summary.
type StatusCount struct {
	Status string
	Count  int
}

// DepartmentState tells whether a department has reported today.
type DepartmentState struct {
	Department string
	Submitted  bool
}

// Dashboard is the admin overview.
type Dashboard struct {
	TotalPersonnel int
	TotalOnDuty    int
	Statuses       []StatusCount
	Departments    []DepartmentState
}

func NewDashboard(s domain.DashboardSummary) Dashboard {
	d := Dashboard{
		TotalPersonnel: s.TotalPersonnel,
		TotalOnDuty:    s.TotalOnDuty,
		Statuses:       statusCounts(s.StatusSummary),
	}
	for _, dept := range s.AllDepartments {
		d.Departments = append(d.Departments, DepartmentState{Department: dept, Submitted: s.Submitted(dept)})
	}
	return d
}

// statusCounts orders known statuses first in catalogue order, then any
// others by name.
func statusCounts(m map[string]int) []StatusCount {
	rank := make(map[string]int, len(domain.Statuses))
	for i, s := range domain.Statuses {
		rank[string(s)] = i
	}
	out := make([]StatusCount, 0, len(m))
	for s, n := range m {
		out = append(out, StatusCount{Status: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, okI := rank[out[i].Status]
		rj, okJ := rank[out[j].Status]
		switch {
		case okI && okJ:
			return ri < rj
		case okI != okJ:
			return okI
		}
		return out[i].Status < out[j].Status
	})
	return out
}

func submittedLabel(ok bool) string {
	if ok {
		return "ส่งแล้ว"
	}
	return "ยังไม่ส่ง"
}

func renderStatuses(t *table, statuses []StatusCount) {
	if len(statuses) == 0 {
		t.line(emptyStatusSummary)
		return
	}
	for _, s := range statuses {
		t.line(s.Status + ": " + strconv.Itoa(s.Count) + " นาย")
	}
}

func (d Dashboard) Render(w io.Writer) error {
	t := newTable(w)
	t.row("กำลังพลทั้งหมด", strconv.Itoa(d.TotalPersonnel))
	t.row("อยู่ปฏิบัติงาน", strconv.Itoa(d.TotalOnDuty))
	t.line("")
	renderStatuses(t, d.Statuses)
	t.line("")
	if len(d.Departments) == 0 {
		t.line(emptyDepartments)
	}
	for _, dept := range d.Departments {
		t.row(dept.Department, submittedLabel(dept.Submitted))
	}
	return t.flush()
}

// UserDashboard is the per-department overview for non-admin users.
type UserDashboard struct {
	Department      string
	TotalPersonnel  int
	TotalOnDuty     int
	Submitted       bool
	LastSubmittedAt string
	Statuses        []StatusCount
}

func NewUserDashboard(s domain.UserDashboardSummary) UserDashboard {
	return UserDashboard{
		Department:      s.Department,
		TotalPersonnel:  s.TotalPersonnel,
		TotalOnDuty:     s.TotalOnDuty,
		Submitted:       s.Submitted,
		LastSubmittedAt: s.LastSubmittedAt,
		Statuses:        statusCounts(s.StatusSummary),
	}
}

func (d UserDashboard) Render(w io.Writer) error {
	t := newTable(w)
	t.row("แผนก", d.Department)
	t.row("กำลังพลทั้งหมด", strconv.Itoa(d.TotalPersonnel))
	t.row("อยู่ปฏิบัติงาน", strconv.Itoa(d.TotalOnDuty))
	t.row("สถานะการส่งยอด", submittedLabel(d.Submitted))
	if d.LastSubmittedAt != "" {
		t.row("ส่งล่าสุด", formatTimestamp(d.LastSubmittedAt))
	}
	t.line("")
	renderStatuses(t, d.Statuses)
	return t.flush()
}
