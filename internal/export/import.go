package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

// ImportHeader maps personnel spreadsheet columns to fields.
var ImportHeader = []string{"ยศ-คำนำหน้า", "ชื่อ", "นามสกุล", "ตำแหน่ง", "เหล่า", "แผนก"}

// ParsePersonnel reads the first sheet of an .xlsx personnel list. The first
// row holds the column names; blank rows are skipped. Ids are left empty for
// the server to assign.
func ParsePersonnel(r io.Reader) ([]domain.Person, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("excel file has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return []domain.Person{}, nil
	}

	col := make(map[string]int)
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	people := make([]domain.Person, 0, len(rows)-1)
	for _, row := range rows[1:] {
		p := domain.Person{
			Rank:       cell(row, "ยศ-คำนำหน้า"),
			FirstName:  cell(row, "ชื่อ"),
			LastName:   cell(row, "นามสกุล"),
			Position:   cell(row, "ตำแหน่ง"),
			Specialty:  cell(row, "เหล่า"),
			Department: cell(row, "แผนก"),
		}
		if p == (domain.Person{}) {
			continue
		}
		people = append(people, p)
	}
	return people, nil
}

// PersonnelTemplate returns an empty import workbook with the header row.
func PersonnelTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	values := toAny(ImportHeader)
	if err := f.SetSheetRow(sheet, "A1", &values); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
