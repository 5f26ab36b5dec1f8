// Package view builds display models from pane data. Every constructor takes
// the viewer explicitly and reads nothing else, so models are plain values.
package view

import (
	"fmt"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/pane"
)

var tabLabels = map[pane.ID]string{
	pane.UserDashboard: "ภาพรวมแผนก",
	pane.Dashboard:     "ภาพรวม",
	pane.SubmitStatus:  "ส่งยอดกำลังพล",
	pane.History:       "ประวัติการส่ง",
	pane.Report:        "รายงานประจำสัปดาห์",
	pane.Archive:       "รายงานย้อนหลัง",
	pane.Personnel:     "จัดการกำลังพล",
	pane.Admin:         "จัดการผู้ใช้",
}

// Tab is one navigation entry.
type Tab struct {
	Pane  pane.ID
	Label string
}

// Tabs returns the panes the viewer may open, in menu order.
func Tabs(viewer domain.User) []Tab {
	var ids []pane.ID
	if viewer.IsAdmin() {
		ids = []pane.ID{pane.Dashboard, pane.SubmitStatus, pane.History, pane.Report, pane.Archive, pane.Personnel, pane.Admin}
	} else {
		ids = []pane.ID{pane.UserDashboard, pane.SubmitStatus, pane.History}
	}
	tabs := make([]Tab, len(ids))
	for i, id := range ids {
		tabs[i] = Tab{Pane: id, Label: tabLabels[id]}
	}
	return tabs
}

// DefaultPane is the pane opened right after login.
func DefaultPane(viewer domain.User) pane.ID {
	if viewer.IsAdmin() {
		return pane.Dashboard
	}
	return pane.UserDashboard
}

// Allowed reports whether viewer has a tab for id.
func Allowed(viewer domain.User, id pane.ID) bool {
	for _, t := range Tabs(viewer) {
		if t.Pane == id {
			return true
		}
	}
	return false
}

// Welcome is the signed-in banner.
func Welcome(viewer domain.User) string {
	return fmt.Sprintf("ล็อกอินในฐานะ: %s (%s)", viewer.Username, viewer.Role)
}
