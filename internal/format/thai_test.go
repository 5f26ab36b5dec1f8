package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThaiNumerals(t *testing.T) {
	assert.Equal(t, "๑๒๓", ThaiNumerals("123"))
	assert.Equal(t, "ลำดับ ๐๙", ThaiNumerals("ลำดับ 09"))
	assert.Equal(t, "๔๒", ThaiNumber(42))
}

func TestThaiDate(t *testing.T) {
	assert.Equal(t, "3 มิ.ย.67", ThaiDate("2024-06-03"))
	assert.Equal(t, "31 ธ.ค.66", ThaiDate("2023-12-31"))
	assert.Equal(t, "", ThaiDate(""))
	assert.Equal(t, "not-a-date", ThaiDate("not-a-date"))
}

func TestThaiDateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{"missing start", "", "2024-06-03", "N/A"},
		{"missing end", "2024-06-03", "", "N/A"},
		{"same day", "2024-06-03", "2024-06-03", "3 มิ.ย.67"},
		{"same month", "2024-06-03", "2024-06-07", "3-7 มิ.ย.67"},
		{"across months", "2024-06-28", "2024-07-02", "28 มิ.ย.- 2 ก.ค.67"},
		{"across years", "2024-12-30", "2025-01-02", "30 ธ.ค.67 - 2 ม.ค.68"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ThaiDateRange(tt.start, tt.end))
		})
	}
}

func TestReviewDateRange(t *testing.T) {
	assert.Equal(t, "3 มิ.ย.67", ReviewDateRange("2024-06-03", "2024-06-03"))
	assert.Equal(t, "3 มิ.ย.67 - 5 มิ.ย.67", ReviewDateRange("2024-06-03", "2024-06-05"))
}

func TestThaiHeaderDate(t *testing.T) {
	d := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "๓ มิ.ย. ๖๗", ThaiHeaderDate(d))
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "มิถุนายน", ThaiMonthName(6))
	assert.Equal(t, "", ThaiMonthName(13))
	assert.Equal(t, "มิถุนายน 2567", ThaiMonthYear(2024, 6))
	assert.Equal(t, 2567, BuddhistYear(2024))
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Tom &amp; &quot;Jerry&quot; &#039;x&#039;&lt;/b&gt;", EscapeHTML(`<b>Tom & "Jerry" 'x'</b>`))
	assert.Equal(t, "", EscapeHTML(""))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "[31mred", CleanText("\x1b[31mred"))
	assert.Equal(t, "a b\nc", CleanText("a\tb\nc"))
	assert.Equal(t, "-", OrDash("  "))
	assert.Equal(t, "x", OrDash("x"))
}
