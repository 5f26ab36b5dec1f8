package view

import (
	"io"
	"strconv"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/editor"
	"github.com/jeerawut3427/personal-system/internal/format"
)

const (
	emptyRoster = "ไม่พบข้อมูลกำลังพลในแผนกของคุณ"
	filedNotice = "แผนกของคุณส่งยอดกำลังพลสำหรับรอบนี้แล้ว"
)

// SubmissionForm is the status editor's row set.
type SubmissionForm struct {
	Title       string
	Departments []string
	Filed       bool
	Editing     bool
	Rows        []editor.Row
}

func NewSubmissionForm(f *editor.Form) SubmissionForm {
	return SubmissionForm{
		Title:       "ส่งยอดกำลังพล แผนก " + f.Department(),
		Departments: f.Departments(),
		Filed:       f.Filed(),
		Editing:     f.Editing(),
		Rows:        f.Rows(),
	}
}

func (s SubmissionForm) Render(w io.Writer) error {
	t := newTable(w)
	title := s.Title
	if s.Editing {
		title += " (แก้ไขรายงาน)"
	}
	t.line(title)
	if s.Filed {
		t.line(filedNotice)
	}
	if len(s.Rows) == 0 {
		t.line(emptyRoster)
		return t.flush()
	}
	t.row("แถว", "ชื่อ-สกุล", "สถานะ", "รายละเอียด", "ช่วงวันที่")
	for _, r := range s.Rows {
		name := r.PersonnelName
		if !r.Primary {
			name = "  + " + name
		}
		dates := "-"
		if r.StartDate != "" || r.EndDate != "" {
			dates = format.OrDash(r.StartDate) + " - " + format.OrDash(r.EndDate)
		}
		t.row(strconv.Itoa(r.ID), name, string(r.Status), format.OrDash(r.Details), dates)
	}
	return t.flush()
}

// ReviewRow is one line of the pre-submit review.
type ReviewRow struct {
	Name      string
	Status    string
	Details   string
	DateRange string
}

// ReviewList is shown between a successful review and submit.
type ReviewList struct {
	Rows []ReviewRow
}

func NewReviewList(entries []domain.StatusEntry) ReviewList {
	var rl ReviewList
	for _, e := range entries {
		rl.Rows = append(rl.Rows, ReviewRow{
			Name:      e.PersonnelName,
			Status:    string(e.Status),
			Details:   format.OrDash(e.Details),
			DateRange: format.ReviewDateRange(e.StartDate, e.EndDate),
		})
	}
	return rl
}

func (rl ReviewList) Render(w io.Writer) error {
	t := newTable(w)
	t.row("ชื่อ-สกุล", "สถานะ", "รายละเอียด", "วันที่")
	for _, r := range rl.Rows {
		t.row(r.Name, r.Status, r.Details, r.DateRange)
	}
	return t.flush()
}

// Option is one selector choice.
type Option struct {
	Value string
	Label string
}

// YearOptions labels archive years in the Buddhist era.
func YearOptions(years []string) []Option {
	out := make([]Option, len(years))
	for i, y := range years {
		label := y
		if n, err := strconv.Atoi(y); err == nil {
			label = strconv.Itoa(format.BuddhistYear(n))
		}
		out[i] = Option{Value: y, Label: label}
	}
	return out
}

// MonthOptions labels archive months with their Thai names.
func MonthOptions(months []string) []Option {
	out := make([]Option, len(months))
	for i, m := range months {
		label := m
		if n, err := strconv.Atoi(m); err == nil && format.ThaiMonthName(n) != "" {
			label = format.ThaiMonthName(n)
		}
		out[i] = Option{Value: m, Label: label}
	}
	return out
}

// RenderOptions writes "value  label" lines.
func RenderOptions(w io.Writer, opts []Option) error {
	t := newTable(w)
	for _, o := range opts {
		t.row(o.Value, o.Label)
	}
	return t.flush()
}
