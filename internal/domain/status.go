package domain

// Status is the duty/leave state of one status entry.
type Status string

const (
	StatusNone          Status = "ไม่มี"
	StatusOfficialDuty  Status = "ราชการ"
	StatusSupervision   Status = "คุมงาน"
	StatusStudy         Status = "ศึกษา"
	StatusPersonalLeave Status = "ลากิจ"
	StatusVacation      Status = "ลาพักผ่อน"
)

// Statuses lists every selectable status in display order.
var Statuses = []Status{
	StatusNone,
	StatusOfficialDuty,
	StatusSupervision,
	StatusStudy,
	StatusPersonalLeave,
	StatusVacation,
}

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Active reports whether an entry with this status belongs in a report.
func (s Status) Active() bool {
	return s != "" && s != StatusNone
}

// Role is the access level of a login account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Label is the short role label shown in user listings.
func (r Role) Label() string {
	if r == RoleAdmin {
		return "Admin"
	}
	return "User"
}
