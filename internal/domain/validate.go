package domain

import "strings"

// Validate checks that every person field is filled and the rank is known.
func (p Person) Validate() error {
	if strings.TrimSpace(p.Rank) == "" || strings.TrimSpace(p.FirstName) == "" ||
		strings.TrimSpace(p.LastName) == "" || strings.TrimSpace(p.Position) == "" ||
		strings.TrimSpace(p.Specialty) == "" || strings.TrimSpace(p.Department) == "" {
		return Invalid("ข้อมูลไม่ครบถ้วน กรุณากรอกข้อมูลให้ครบทุกช่อง")
	}
	if !KnownRank(p.Rank) {
		return Invalid("ยศ-คำนำหน้าไม่ถูกต้อง")
	}
	return nil
}

// Validate checks a user form. Password is required only for new accounts.
func (u User) Validate(isNew bool) error {
	if strings.TrimSpace(u.Username) == "" {
		return Invalid("กรุณากรอก Username และ Password")
	}
	if isNew && u.Password == "" {
		return Invalid("กรุณากรอก Username และ Password")
	}
	if u.Role != RoleAdmin && u.Role != RoleUser {
		return Invalid("สิทธิ์ผู้ใช้ไม่ถูกต้อง")
	}
	if u.Rank != "" && !KnownRank(u.Rank) {
		return Invalid("ยศ-คำนำหน้าไม่ถูกต้อง")
	}
	return nil
}
