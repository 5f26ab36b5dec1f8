package view

import (
	"io"
	"time"

	"github.com/jeerawut3427/personal-system/internal/archive"
	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/format"
)

const (
	noDepartment  = "ไม่ระบุแผนก"
	emptyWeekly   = "ยังไม่มีรายงานในระบบ"
	emptyHistory  = "ไม่พบประวัติการส่งรายงาน"
	emptyArchive  = "ไม่พบรายงานในเดือนที่เลือก"
	itemNameCol   = "ชื่อ-สกุล"
	itemStatusCol = "สถานะ"
	itemDetailCol = "รายละเอียด"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, l := range timestampLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatTimestamp renders a server timestamp as "3 มิ.ย.67 14:05 น.".
func formatTimestamp(s string) string {
	t, ok := parseTimestamp(s)
	if !ok {
		return s
	}
	return format.ThaiDate(domain.FormatDate(t)) + " " + t.Format("15:04") + " น."
}

func clockTime(s string) string {
	t, ok := parseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("15:04") + " น."
}

func renderItems(t *table, items []domain.StatusEntry) {
	t.row(itemNameCol, itemStatusCol, itemDetailCol)
	for _, it := range items {
		t.row(it.PersonnelName, string(it.Status), format.OrDash(it.Details))
	}
}

// DepartmentReports is one card of the weekly report.
type DepartmentReports struct {
	Department string
	Reports    []domain.Report
}

// WeeklyReport groups the current period's reports by department.
type WeeklyReport struct {
	Groups []DepartmentReports
}

// NewWeeklyReport keeps departments in order of first appearance. Reports
// without a department are grouped under "ไม่ระบุแผนก".
func NewWeeklyReport(reports []domain.Report) WeeklyReport {
	idx := make(map[string]int)
	var wr WeeklyReport
	for _, r := range reports {
		dept := r.Department
		if dept == "" {
			dept = noDepartment
		}
		i, ok := idx[dept]
		if !ok {
			i = len(wr.Groups)
			idx[dept] = i
			wr.Groups = append(wr.Groups, DepartmentReports{Department: dept})
		}
		wr.Groups[i].Reports = append(wr.Groups[i].Reports, r)
	}
	return wr
}

func (wr WeeklyReport) Render(w io.Writer) error {
	t := newTable(w)
	if len(wr.Groups) == 0 {
		t.line(emptyWeekly)
		return t.flush()
	}
	for _, g := range wr.Groups {
		t.line("แผนก: " + g.Department)
		for _, r := range g.Reports {
			t.row("ส่งโดย: "+r.SubmittedBy, clockTime(r.Timestamp))
			renderItems(t, r.Items)
		}
		t.line("")
	}
	return t.flush()
}

// HistoryList is the viewer's past submissions.
type HistoryList struct {
	Items []archive.HistoryItem
}

func NewHistoryList(items []archive.HistoryItem) HistoryList {
	return HistoryList{Items: items}
}

func (h HistoryList) Render(w io.Writer) error {
	t := newTable(w)
	if len(h.Items) == 0 {
		t.line(emptyHistory)
		return t.flush()
	}
	for _, it := range h.Items {
		r := it.Report
		header := "รายงานวันที่ " + format.ThaiDate(r.Date)
		if r.Department != "" {
			header += " แผนก " + r.Department
		}
		t.row(header, "ส่งเมื่อ: "+formatTimestamp(r.Timestamp))
		if it.Editable {
			t.line("[แก้ไขได้] รหัสรายงาน " + r.ID)
		}
		renderItems(t, r.Items)
		t.line("")
	}
	return t.flush()
}

// ArchiveDays is the selected archive month, one group per day.
type ArchiveDays struct {
	Days []archive.DayGroup
}

func NewArchiveDays(days []archive.DayGroup) ArchiveDays {
	return ArchiveDays{Days: days}
}

func (a ArchiveDays) Render(w io.Writer) error {
	t := newTable(w)
	if len(a.Days) == 0 {
		t.line(emptyArchive)
		return t.flush()
	}
	for _, d := range a.Days {
		t.line("ประวัติการเก็บรายงาน วันที่ " + format.ThaiDate(d.Date) + " (" + d.Date + ")")
		for _, r := range d.Reports {
			t.row("แผนก: "+r.Department, "ส่งโดย: "+r.SubmittedBy)
			renderItems(t, r.Items)
		}
		t.line("")
	}
	return t.flush()
}
