// Package export turns status reports into spreadsheet files and reads
// personnel spreadsheets back for import.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/format"
)

const (
	SheetName = "รายงาน"
	Title     = "บัญชีรายชื่อ น.สัญญาบัตรที่ไปราชการ, คุมงาน, ศึกษา, ลากิจ และลาพักผ่อน ประจำสัปดาห์ของ กวก.ชย.ทอ."

	msgNoReports = "ไม่มีข้อมูลรายงานที่จะส่งออก"
)

// Header is the column row written on row 3.
var Header = []string{"ลำดับ", "ชื่อและนามสกุล", "ยศ-คำนำหน้า", "สถานะ", "รายละเอียด", "ช่วงวันที่"}

var columnWidths = []float64{8, 30, 14, 12, 40, 24}

// Row is one flattened report line.
type Row struct {
	Seq       string
	Name      string
	Rank      string
	Status    string
	Details   string
	DateRange string
}

func (r Row) values() []any {
	return []any{r.Seq, r.Name, r.Rank, r.Status, r.Details, r.DateRange}
}

// Flatten concatenates the items of reports in order and numbers them with
// Thai numerals from ๑.
func Flatten(reports []domain.Report) []Row {
	var rows []Row
	seq := 1
	for _, rep := range reports {
		for _, item := range rep.Items {
			rank, first, last := splitName(item.PersonnelName)
			rows = append(rows, Row{
				Seq:       format.ThaiNumber(seq),
				Name:      first + "  " + last,
				Rank:      rank,
				Status:    string(item.Status),
				Details:   item.Details,
				DateRange: format.ThaiDateRange(item.StartDate, item.EndDate),
			})
			seq++
		}
	}
	return rows
}

// splitName splits "rank first last..." on single spaces.
func splitName(name string) (rank, first, last string) {
	parts := strings.Split(name, " ")
	rank = parts[0]
	if len(parts) > 1 {
		first = parts[1]
	}
	if len(parts) > 2 {
		last = strings.Join(parts[2:], " ")
	}
	return rank, first, last
}

// DateRange is the "ระหว่างวันที่ <min> - <max>" caption over the report dates.
func DateRange(reports []domain.Report) string {
	var lo, hi time.Time
	for _, r := range reports {
		d, err := domain.ParseDate(r.Date)
		if err != nil {
			continue
		}
		if lo.IsZero() || d.Before(lo) {
			lo = d
		}
		if hi.IsZero() || d.After(hi) {
			hi = d
		}
	}
	if lo.IsZero() {
		return "ระหว่างวันที่ -"
	}
	return "ระหว่างวันที่ " + format.ThaiHeaderDate(lo) + " - " + format.ThaiHeaderDate(hi)
}

// Workbook renders reports as an .xlsx file: title and date range merged over
// A1:F1 and A2:F2, column headers on row 3, data from row 4.
func Workbook(reports []domain.Report) ([]byte, error) {
	if len(reports) == 0 {
		return nil, domain.Invalid(msgNoReports)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.SetCellValue(SheetName, "A1", Title); err != nil {
		return nil, fmt.Errorf("failed to set title: %w", err)
	}
	if err := f.SetCellValue(SheetName, "A2", DateRange(reports)); err != nil {
		return nil, fmt.Errorf("failed to set date range: %w", err)
	}
	for _, span := range [][2]string{{"A1", "F1"}, {"A2", "F2"}} {
		if err := f.MergeCell(SheetName, span[0], span[1]); err != nil {
			return nil, fmt.Errorf("failed to merge %s:%s: %w", span[0], span[1], err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := setRow(f, 3, toAny(Header)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A3", "F3", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range Flatten(reports) {
		if err := setRow(f, i+4, row.values()); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// DailyFileName names the weekly export written when reports are archived.
func DailyFileName(today time.Time) string {
	return "รายงานกำลังพล-" + domain.FormatDate(today) + ".xlsx"
}

// ArchiveDayFileName names a single archived day's download.
func ArchiveDayFileName(date string) string {
	return "รายงานย้อนหลัง-" + date + ".xlsx"
}

// MonthlyFileName names a monthly summary, e.g. "รายงานสรุปเดือนมิถุนายน2567.xlsx".
func MonthlyFileName(monthName, yearBE string) string {
	return "รายงานสรุปเดือน" + monthName + yearBE + ".xlsx"
}
