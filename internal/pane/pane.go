// Package pane maps each screen to the action that populates it and loads it.
package pane

// ID is a closed set of loadable panes.
type ID int

const (
	UserDashboard ID = iota
	Dashboard
	Personnel
	Admin
	SubmitStatus
	History
	Report
	Archive

	numPanes
)

var names = [numPanes]string{
	UserDashboard: "pane-user-dashboard",
	Dashboard:     "pane-dashboard",
	Personnel:     "pane-personnel",
	Admin:         "pane-admin",
	SubmitStatus:  "pane-submit-status",
	History:       "pane-history",
	Report:        "pane-report",
	Archive:       "pane-archive",
}

// All lists every pane in tab order.
func All() []ID {
	ids := make([]ID, 0, numPanes)
	for id := ID(0); id < numPanes; id++ {
		ids = append(ids, id)
	}
	return ids
}

func (id ID) Valid() bool { return id >= 0 && id < numPanes }

func (id ID) String() string {
	if !id.Valid() {
		return "pane-unknown"
	}
	return names[id]
}

// Tab is the short tab name, e.g. "personnel" for pane-personnel.
func (id ID) Tab() string {
	if !id.Valid() {
		return ""
	}
	return names[id][len("pane-"):]
}

// Parse accepts "pane-personnel", "tab-personnel" or "personnel".
func Parse(s string) (ID, bool) {
	for id := ID(0); id < numPanes; id++ {
		tab := id.Tab()
		if s == names[id] || s == "tab-"+tab || s == tab {
			return id, true
		}
	}
	return -1, false
}
