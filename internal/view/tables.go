package view

import (
	"io"
	"strconv"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

const (
	emptyPersonnel = "ไม่พบข้อมูลกำลังพล"
	emptyUsers     = "ไม่พบข้อมูลผู้ใช้"
)

// PersonRow is one personnel listing line. Seq continues across pages.
type PersonRow struct {
	Seq    int
	Person domain.Person
}

// PersonnelTable is one page of the personnel listing.
type PersonnelTable struct {
	Rows       []PersonRow
	Page       int
	TotalPages int
	SearchTerm string
}

// NewPersonnelTable numbers people from (page-1)*pageSize+1.
func NewPersonnelTable(people []domain.Person, page, totalPages, pageSize int, search string) PersonnelTable {
	offset := 0
	if page > 1 && pageSize > 0 {
		offset = (page - 1) * pageSize
	}
	t := PersonnelTable{Page: page, TotalPages: totalPages, SearchTerm: search}
	for i, p := range people {
		t.Rows = append(t.Rows, PersonRow{Seq: offset + i + 1, Person: p})
	}
	return t
}

func (p PersonnelTable) Render(w io.Writer) error {
	t := newTable(w)
	if len(p.Rows) == 0 {
		t.line(emptyPersonnel)
		return t.flush()
	}
	t.row("ลำดับ", "ยศ", "ชื่อ", "นามสกุล", "ตำแหน่ง", "เหล่า", "แผนก", "รหัส")
	for _, r := range p.Rows {
		t.row(strconv.Itoa(r.Seq), r.Person.Rank, r.Person.FirstName, r.Person.LastName,
			r.Person.Position, r.Person.Specialty, r.Person.Department, r.Person.ID)
	}
	renderPager(t, p.Page, p.TotalPages)
	return t.flush()
}

// UserTable is one page of the account listing.
type UserTable struct {
	Users      []domain.User
	Page       int
	TotalPages int
	SearchTerm string
}

func NewUserTable(users []domain.User, page, totalPages int, search string) UserTable {
	return UserTable{Users: users, Page: page, TotalPages: totalPages, SearchTerm: search}
}

func (u UserTable) Render(w io.Writer) error {
	t := newTable(w)
	if len(u.Users) == 0 {
		t.line(emptyUsers)
		return t.flush()
	}
	t.row("Username", "ชื่อ-สกุล", "ตำแหน่ง", "แผนก", "สิทธิ์")
	for _, usr := range u.Users {
		t.row(usr.Username, usr.FullName(), usr.Position, usr.Department, usr.Role.Label())
	}
	renderPager(t, u.Page, u.TotalPages)
	return t.flush()
}

func renderPager(t *table, page, total int) {
	if total <= 1 {
		return
	}
	t.line("หน้า " + strconv.Itoa(page) + "/" + strconv.Itoa(total))
}
