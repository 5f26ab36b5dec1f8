// Package format holds pure display helpers: Thai numerals, Buddhist-era
// calendar dates and text sanitizing.
package format

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

var thaiDigits = strings.NewReplacer(
	"0", "๐", "1", "๑", "2", "๒", "3", "๓", "4", "๔",
	"5", "๕", "6", "๖", "7", "๗", "8", "๘", "9", "๙",
)

var monthAbbr = [12]string{"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.", "ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค."}

var monthNames = [12]string{"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน", "กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม"}

// ThaiNumerals replaces ASCII digits in s with Thai digits.
func ThaiNumerals(s string) string {
	return thaiDigits.Replace(s)
}

// ThaiNumber is ThaiNumerals for an integer.
func ThaiNumber(n int) string {
	return ThaiNumerals(strconv.Itoa(n))
}

// BuddhistYear converts a Gregorian year to the Buddhist era.
func BuddhistYear(year int) int {
	return year + 543
}

// MonthAbbr returns the abbreviated Thai month name for m (1-12).
func MonthAbbr(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbr[m-1]
}

// ThaiMonthName returns the full Thai month name for m (1-12).
func ThaiMonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

func shortYear(year int) string {
	be := strconv.Itoa(BuddhistYear(year))
	return be[len(be)-2:]
}

// ThaiDate renders an ISO date as "3 มิ.ย.67". Empty input gives "", input
// that does not parse is returned unchanged.
func ThaiDate(iso string) string {
	if iso == "" {
		return ""
	}
	d, err := domain.ParseDate(iso)
	if err != nil {
		return iso
	}
	return strconv.Itoa(d.Day()) + " " + MonthAbbr(d.Month()) + shortYear(d.Year())
}

// ThaiDateRange renders a start/end pair compactly:
//
//	same day:            3 มิ.ย.67
//	same month:          3-7 มิ.ย.67
//	same year:           28 มิ.ย.- 2 ก.ค.67
//	across years:        30 ธ.ค.67 - 2 ม.ค.68
//
// Either bound missing gives "N/A".
func ThaiDateRange(startISO, endISO string) string {
	if startISO == "" || endISO == "" {
		return "N/A"
	}
	start, err1 := domain.ParseDate(startISO)
	end, err2 := domain.ParseDate(endISO)
	if err1 != nil || err2 != nil {
		return startISO + " - " + endISO
	}
	if start.Equal(end) {
		return ThaiDate(startISO)
	}
	sd, sm := strconv.Itoa(start.Day()), MonthAbbr(start.Month())
	ed, em := strconv.Itoa(end.Day()), MonthAbbr(end.Month())

	if start.Year() != end.Year() {
		return sd + " " + sm + shortYear(start.Year()) + " - " + ed + " " + em + shortYear(end.Year())
	}
	if start.Month() != end.Month() {
		return sd + " " + sm + "- " + ed + " " + em + shortYear(end.Year())
	}
	return sd + "-" + ed + " " + sm + shortYear(end.Year())
}

// ReviewDateRange is the review-list form: one date, or "start - end".
func ReviewDateRange(startISO, endISO string) string {
	if startISO == endISO {
		return ThaiDate(startISO)
	}
	return ThaiDate(startISO) + " - " + ThaiDate(endISO)
}

// ThaiHeaderDate renders t as "๓ มิ.ย. ๖๗" for spreadsheet headers.
func ThaiHeaderDate(t time.Time) string {
	return ThaiNumber(t.Day()) + " " + MonthAbbr(t.Month()) + " " + ThaiNumerals(shortYear(t.Year()))
}

// ThaiMonthYear renders a month selector label such as "มิถุนายน 2567".
func ThaiMonthYear(year, month int) string {
	return ThaiMonthName(month) + " " + strconv.Itoa(BuddhistYear(year))
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five HTML-significant characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// CleanText drops control characters (including ESC) so server-supplied text
// cannot drive the terminal. Tabs become spaces; newlines are kept.
func CleanText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// OrDash returns s, or "-" when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
