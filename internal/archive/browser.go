// Package archive browses fetched reports by year, month and day. Nothing
// here touches the network; the whole archive arrives in one response.
package archive

import (
	"errors"
	"sort"
	"strconv"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/format"
)

var ErrNothingToDownload = errors.New("ไม่พบข้อมูลรายงานที่จะดาวน์โหลด")

const (
	msgSelectYearMonth = "กรุณาเลือกปีและเดือน"
	msgSelectForExport = "กรุณาเลือกปีและเดือนก่อนส่งออก"
	msgEmptyMonth      = "ไม่พบข้อมูลที่จะส่งออกสำหรับเดือนที่เลือก"
)

// DayGroup is the reports archived on one date.
type DayGroup struct {
	Date    string
	Reports []domain.Report
}

// Browser is the archive selector state.
type Browser struct {
	data  domain.Archive
	year  string
	month string
}

func NewBrowser(a domain.Archive) *Browser {
	if a == nil {
		a = domain.Archive{}
	}
	return &Browser{data: a}
}

// Years lists the archive years, newest first.
func (b *Browser) Years() []string { return years(b.data) }

// Months lists the months of year, newest first.
func (b *Browser) Months(year string) []string { return months(b.data, year) }

// Select shows year/month and returns its day groups, newest first. A month
// with no reports yields no groups and no error.
func (b *Browser) Select(year, month string) ([]DayGroup, error) {
	if year == "" || month == "" {
		return nil, domain.Invalid(msgSelectYearMonth)
	}
	b.year, b.month = year, month
	return groupByDay(b.data[year][month]), nil
}

// Selected returns the current year and month, blank before Select.
func (b *Browser) Selected() (year, month string) { return b.year, b.month }

// MonthLabel returns the Thai month name and Buddhist-era year of the
// selection, as shown on the selectors.
func (b *Browser) MonthLabel() (month, year string) {
	return monthLabel(b.year, b.month)
}

// DayReports returns the selected month's reports dated exactly date.
func (b *Browser) DayReports(date string) ([]domain.Report, error) {
	if b.year == "" || b.month == "" || date == "" {
		return nil, domain.Invalid(msgSelectYearMonth)
	}
	var out []domain.Report
	for _, r := range b.data[b.year][b.month] {
		if r.Date == date {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, ErrNothingToDownload
	}
	return out, nil
}

// MonthReports returns every report of the selected month.
func (b *Browser) MonthReports() ([]domain.Report, error) {
	if b.year == "" || b.month == "" {
		return nil, domain.Invalid(msgSelectForExport)
	}
	reports := b.data[b.year][b.month]
	if len(reports) == 0 {
		return nil, domain.Invalid(msgEmptyMonth)
	}
	return reports, nil
}

func years(a domain.Archive) []string {
	out := make([]string, 0, len(a))
	for y := range a {
		out = append(out, y)
	}
	sortDesc(out)
	return out
}

func months(a domain.Archive, year string) []string {
	out := make([]string, 0, len(a[year]))
	for m := range a[year] {
		out = append(out, m)
	}
	sortDesc(out)
	return out
}

// sortDesc orders numeric keys descending; anything non-numeric goes last.
func sortDesc(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a > b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] > keys[j]
	})
}

func groupByDay(reports []domain.Report) []DayGroup {
	idx := make(map[string]int)
	var groups []DayGroup
	for _, r := range reports {
		i, ok := idx[r.Date]
		if !ok {
			i = len(groups)
			idx[r.Date] = i
			groups = append(groups, DayGroup{Date: r.Date})
		}
		groups[i].Reports = append(groups[i].Reports, r)
	}
	// ISO dates order lexically
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}

func monthLabel(year, month string) (string, string) {
	m, err := strconv.Atoi(month)
	if err != nil {
		return month, year
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return format.ThaiMonthName(m), year
	}
	return format.ThaiMonthName(m), strconv.Itoa(format.BuddhistYear(y))
}
