// Package editor holds the multi-entry status editor: one row group per
// person, a primary row plus any number of linked rows, reviewed and turned
// into a department submission.
package editor

import (
	"errors"
	"time"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

var (
	ErrReadOnly    = errors.New("แผนกของคุณส่งยอดกำลังพลสำหรับรอบนี้แล้ว")
	ErrReviewing   = errors.New("กรุณากลับไปหน้าแก้ไขก่อน")
	ErrNoRow       = errors.New("ไม่พบรายการที่เลือก")
	ErrPrimaryRow  = errors.New("ไม่สามารถลบรายการหลักได้")
	ErrCannotAdd   = errors.New("เพิ่มรายการได้เฉพาะรายการหลักที่เลือกสถานะแล้ว")
	ErrOtherDept   = errors.New("ไม่สามารถส่งยอดให้แผนกอื่นได้")
	ErrUnknownDept = errors.New("ไม่พบแผนกที่เลือก")
)

const (
	msgMissingDates  = "กรุณากรอกวันที่เริ่มต้นและสิ้นสุดสำหรับรายการที่เลือก"
	msgNothingToSend = `ไม่พบรายการที่จะส่งยอด (กรุณาเลือกสถานะที่ไม่ใช่ "ไม่มี")`
	msgBadStatus     = "สถานะไม่ถูกต้อง"
)

// Section is the visible part of the editor.
type Section int

const (
	SectionForm Section = iota
	SectionReview
)

// Row is one status entry line. Rows of one person are contiguous and the
// first of them is the primary row.
type Row struct {
	ID            int
	PersonnelID   string
	PersonnelName string
	Primary       bool
	Status        domain.Status
	Details       string
	StartDate     string
	EndDate       string
}

// Active reports whether the row will be submitted.
func (r Row) Active() bool { return r.Status.Active() }

func (r Row) entry() domain.StatusEntry {
	return domain.StatusEntry{
		PersonnelID:   r.PersonnelID,
		PersonnelName: r.PersonnelName,
		Status:        r.Status,
		Details:       r.Details,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
	}
}

// Form is the editor state for one department. It is not safe for
// concurrent use.
type Form struct {
	viewer      domain.User
	roster      []domain.Person
	submissions []domain.Report
	editing     *domain.Report

	departments []string
	department  string
	filed       bool
	section     Section
	rows        []Row
	nextID      int
}

// NewForm builds the editor. submissions are the current-period reports the
// server returned with the roster; editing, when non-nil, is a previously
// submitted live report being changed.
func NewForm(viewer domain.User, roster []domain.Person, submissions []domain.Report, editing *domain.Report) *Form {
	f := &Form{
		viewer:      viewer,
		roster:      roster,
		submissions: submissions,
		editing:     editing,
	}
	if viewer.IsAdmin() {
		f.departments = uniqueDepartments(roster)
		switch {
		case editing != nil && editing.Department != "":
			f.department = editing.Department
		case len(f.departments) > 0:
			f.department = f.departments[0]
		}
	} else {
		f.departments = []string{viewer.Department}
		f.department = viewer.Department
		f.filed = editing == nil && f.latestSubmission(viewer.Department) != nil
	}
	f.build()
	return f
}

func uniqueDepartments(roster []domain.Person) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range roster {
		if p.Department == "" || seen[p.Department] {
			continue
		}
		seen[p.Department] = true
		out = append(out, p.Department)
	}
	return out
}

// latestSubmission picks the newest report filed for dept, by timestamp then
// date; later entries win ties.
func (f *Form) latestSubmission(dept string) *domain.Report {
	var best *domain.Report
	for i := range f.submissions {
		r := &f.submissions[i]
		if r.Department != dept {
			continue
		}
		if best == nil || r.Timestamp > best.Timestamp ||
			(r.Timestamp == best.Timestamp && r.Date >= best.Date) {
			best = r
		}
	}
	return best
}

func (f *Form) prefill() []domain.StatusEntry {
	if f.editing != nil {
		return f.editing.Items
	}
	if r := f.latestSubmission(f.department); r != nil {
		return r.Items
	}
	return nil
}

func (f *Form) build() {
	f.rows = nil
	f.section = SectionForm
	source := f.prefill()
	for _, p := range f.roster {
		if p.Department != f.department {
			continue
		}
		entries := entriesFor(p, source)
		if len(entries) == 0 {
			f.rows = append(f.rows, f.newRow(p.ID, p.DisplayName(), true))
			continue
		}
		for i, e := range entries {
			r := f.newRow(p.ID, p.DisplayName(), i == 0)
			r.Status = e.Status
			r.Details = e.Details
			r.StartDate = e.StartDate
			r.EndDate = e.EndDate
			f.rows = append(f.rows, r)
		}
	}
}

// entriesFor matches by personnel id, falling back to the name snapshot for
// entries that carry no id.
func entriesFor(p domain.Person, source []domain.StatusEntry) []domain.StatusEntry {
	var out []domain.StatusEntry
	name := p.DisplayName()
	for _, e := range source {
		if !e.Status.Active() {
			continue
		}
		if (e.PersonnelID != "" && e.PersonnelID == p.ID) ||
			(e.PersonnelID == "" && e.PersonnelName == name) {
			out = append(out, e)
		}
	}
	return out
}

func (f *Form) newRow(id, name string, primary bool) Row {
	f.nextID++
	return Row{ID: f.nextID, PersonnelID: id, PersonnelName: name, Primary: primary, Status: domain.StatusNone}
}

// Departments lists the selectable departments.
func (f *Form) Departments() []string { return append([]string(nil), f.departments...) }

// Department is the department whose rows are shown.
func (f *Form) Department() string { return f.department }

// Filed reports the read-only "already submitted" state.
func (f *Form) Filed() bool { return f.filed }

// Editing reports whether a previously submitted report is being changed.
func (f *Form) Editing() bool { return f.editing != nil }

// Section is the visible section.
func (f *Form) Section() Section { return f.section }

// Rows returns a copy of the current rows in display order.
func (f *Form) Rows() []Row { return append([]Row(nil), f.rows...) }

// SelectDepartment rebuilds the rows for dept. In-progress edits are
// discarded and an edit session ends.
func (f *Form) SelectDepartment(dept string) error {
	if !f.viewer.IsAdmin() {
		return ErrOtherDept
	}
	found := false
	for _, d := range f.departments {
		if d == dept {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownDept
	}
	f.department = dept
	f.editing = nil
	f.build()
	return nil
}

func (f *Form) mutable() error {
	if f.filed {
		return ErrReadOnly
	}
	if f.section != SectionForm {
		return ErrReviewing
	}
	return nil
}

func (f *Form) index(id int) (int, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return i, nil
		}
	}
	return -1, ErrNoRow
}

func (f *Form) row(id int) (*Row, error) {
	if err := f.mutable(); err != nil {
		return nil, err
	}
	i, err := f.index(id)
	if err != nil {
		return nil, err
	}
	return &f.rows[i], nil
}

// SetStatus changes a row's status.
func (f *Form) SetStatus(id int, status domain.Status) error {
	if !status.Valid() {
		return domain.Invalid(msgBadStatus)
	}
	r, err := f.row(id)
	if err != nil {
		return err
	}
	r.Status = status
	return nil
}

func (f *Form) SetDetails(id int, details string) error {
	r, err := f.row(id)
	if err != nil {
		return err
	}
	r.Details = details
	return nil
}

// SetDates sets the ISO start and end dates of a row.
func (f *Form) SetDates(id int, start, end string) error {
	r, err := f.row(id)
	if err != nil {
		return err
	}
	r.StartDate = start
	r.EndDate = end
	return nil
}

// AddEntry appends an empty linked row after the last row of the person owning
// primary row id and returns the new row's id.
func (f *Form) AddEntry(id int) (int, error) {
	r, err := f.row(id)
	if err != nil {
		return 0, err
	}
	if !r.Primary || !r.Active() {
		return 0, ErrCannotAdd
	}
	personID, name := r.PersonnelID, r.PersonnelName
	at, _ := f.index(id)
	for at+1 < len(f.rows) && !f.rows[at+1].Primary && f.rows[at+1].PersonnelID == personID {
		at++
	}
	nr := f.newRow(personID, name, false)
	f.rows = append(f.rows, Row{})
	copy(f.rows[at+2:], f.rows[at+1:])
	f.rows[at+1] = nr
	return nr.ID, nil
}

// RemoveEntry deletes a linked row.
func (f *Form) RemoveEntry(id int) error {
	r, err := f.row(id)
	if err != nil {
		return err
	}
	if r.Primary {
		return ErrPrimaryRow
	}
	i, _ := f.index(id)
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return nil
}

// ClearAll resets every row to "none" with blank details and dates.
func (f *Form) ClearAll() error {
	if err := f.mutable(); err != nil {
		return err
	}
	for i := range f.rows {
		f.rows[i].Status = domain.StatusNone
		f.rows[i].Details = ""
		f.rows[i].StartDate = ""
		f.rows[i].EndDate = ""
	}
	return nil
}

func (f *Form) active() []domain.StatusEntry {
	out := make([]domain.StatusEntry, 0, len(f.rows))
	for _, r := range f.rows {
		if r.Active() {
			out = append(out, r.entry())
		}
	}
	return out
}

// Review validates the active rows and switches to the review section.
// On error the section is unchanged.
func (f *Form) Review() ([]domain.StatusEntry, error) {
	if err := f.mutable(); err != nil {
		return nil, err
	}
	for _, r := range f.rows {
		if r.Active() && (r.StartDate == "" || r.EndDate == "") {
			return nil, domain.Invalid(msgMissingDates)
		}
	}
	entries := f.active()
	if len(entries) == 0 {
		return nil, domain.Invalid(msgNothingToSend)
	}
	f.section = SectionReview
	return entries, nil
}

// BackToForm leaves the review section.
func (f *Form) BackToForm() {
	f.section = SectionForm
}

// Submission builds the submit_status_report payload dated today.
func (f *Form) Submission(today time.Time) domain.Submission {
	s := domain.Submission{
		Date:       domain.FormatDate(today),
		Department: f.department,
		Items:      f.active(),
	}
	if f.editing != nil {
		s.ID = f.editing.ID
	}
	return s
}
