package archive

import (
	"errors"
	"sort"
	"strconv"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

var (
	ErrReportNotFound = errors.New("ไม่พบรายงานที่เลือก")
	ErrNotEditable    = errors.New("รายงานที่เก็บเข้าคลังแล้วไม่สามารถแก้ไขได้")
)

// HistoryItem is one past submission. Only live reports may be edited.
type HistoryItem struct {
	Report   domain.Report
	Editable bool
}

// History browses the viewer's submission history with the same year/month
// selector as the archive.
type History struct {
	reports []domain.Report
	index   domain.Archive
	year    string
	month   string
}

func NewHistory(reports []domain.Report) *History {
	h := &History{reports: reports, index: domain.Archive{}}
	for _, r := range reports {
		y, m := yearMonth(r)
		if h.index[y] == nil {
			h.index[y] = map[string][]domain.Report{}
		}
		h.index[y][m] = append(h.index[y][m], r)
	}
	return h
}

// yearMonth keys a report by its date, falling back to the archived
// year/month fields.
func yearMonth(r domain.Report) (string, string) {
	if d, err := domain.ParseDate(r.Date); err == nil {
		return strconv.Itoa(d.Year()), strconv.Itoa(int(d.Month()))
	}
	return strconv.Itoa(r.Year), strconv.Itoa(r.Month)
}

// Selected returns the current year and month, blank before Select.
func (h *History) Selected() (year, month string) { return h.year, h.month }

func (h *History) Years() []string { return years(h.index) }

func (h *History) Months(year string) []string { return months(h.index, year) }

// Select returns the reports of year/month, newest first.
func (h *History) Select(year, month string) ([]HistoryItem, error) {
	if year == "" || month == "" {
		return nil, domain.Invalid(msgSelectYearMonth)
	}
	h.year, h.month = year, month
	reports := append([]domain.Report(nil), h.index[year][month]...)
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Date != reports[j].Date {
			return reports[i].Date > reports[j].Date
		}
		return reports[i].Timestamp > reports[j].Timestamp
	})
	items := make([]HistoryItem, len(reports))
	for i, r := range reports {
		items[i] = HistoryItem{Report: r, Editable: r.Live()}
	}
	return items, nil
}

// Items returns every report, newest first, without a selection.
func (h *History) Items() []HistoryItem {
	year, month := h.year, h.month
	var out []HistoryItem
	for _, y := range h.Years() {
		for _, m := range h.Months(y) {
			items, _ := h.Select(y, m)
			out = append(out, items...)
		}
	}
	h.year, h.month = year, month
	return out
}

// Editable returns the live report with id for editing.
func (h *History) Editable(id string) (domain.Report, error) {
	for _, r := range h.reports {
		if r.ID != id {
			continue
		}
		if !r.Live() {
			return domain.Report{}, ErrNotEditable
		}
		return r, nil
	}
	return domain.Report{}, ErrReportNotFound
}
