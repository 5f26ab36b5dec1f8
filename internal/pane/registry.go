package pane

import (
	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/transport"
)

// Inputs exposes the live search box and page counters. Values are read at
// the moment a request is built.
type Inputs interface {
	SearchTerm(id ID) string
	Page(id ID) int
}

// Entry describes how to populate one pane.
type Entry struct {
	Action      string
	ResponseKey string
	Searchable  bool
	Paged       bool
	FetchAll    bool
	decode      func(resp *transport.Response, key string, req request) (Event, error)
}

type request struct {
	searchTerm string
	page       int
}

// Lookup returns the registry entry for id. Every pane must have a case here;
// the default branch only catches ids outside the enum.
func Lookup(id ID) (Entry, bool) {
	switch id {
	case UserDashboard:
		return Entry{Action: "get_user_dashboard_summary", ResponseKey: "summary", decode: decodeUserDashboard}, true
	case Dashboard:
		return Entry{Action: "get_dashboard_summary", ResponseKey: "summary", decode: decodeDashboard}, true
	case Personnel:
		return Entry{Action: "list_personnel", ResponseKey: "personnel", Searchable: true, Paged: true, decode: decodePersonnel}, true
	case Admin:
		return Entry{Action: "list_users", ResponseKey: "users", Searchable: true, Paged: true, decode: decodeUsers}, true
	case SubmitStatus:
		return Entry{Action: "list_personnel", ResponseKey: "personnel", FetchAll: true, decode: decodeRoster}, true
	case History:
		return Entry{Action: "get_submission_history", ResponseKey: "history", decode: decodeHistory}, true
	case Report:
		return Entry{Action: "get_status_reports", ResponseKey: "reports", decode: decodeReports}, true
	case Archive:
		return Entry{Action: "get_archived_reports", ResponseKey: "archives", decode: decodeArchives}, true
	default:
		return Entry{}, false
	}
}

func decodeUserDashboard(resp *transport.Response, key string, _ request) (Event, error) {
	var s domain.UserDashboardSummary
	if err := resp.Decode(key, &s); err != nil {
		return nil, err
	}
	return UserDashboardLoaded{Summary: s}, nil
}

func decodeDashboard(resp *transport.Response, key string, _ request) (Event, error) {
	var s domain.DashboardSummary
	if err := resp.Decode(key, &s); err != nil {
		return nil, err
	}
	return DashboardLoaded{Summary: s}, nil
}

func decodePersonnel(resp *transport.Response, key string, req request) (Event, error) {
	var people []domain.Person
	if err := resp.Decode(key, &people); err != nil {
		return nil, err
	}
	return PersonnelLoaded{
		Personnel:  people,
		Page:       req.page,
		TotalPages: optionalInt(resp, "total_pages"),
		SearchTerm: req.searchTerm,
	}, nil
}

func decodeUsers(resp *transport.Response, key string, req request) (Event, error) {
	var users []domain.User
	if err := resp.Decode(key, &users); err != nil {
		return nil, err
	}
	return UsersLoaded{
		Users:      users,
		Page:       req.page,
		TotalPages: optionalInt(resp, "total_pages"),
		SearchTerm: req.searchTerm,
	}, nil
}

func decodeRoster(resp *transport.Response, key string, _ request) (Event, error) {
	var ev RosterLoaded
	if err := resp.Decode(key, &ev.Personnel); err != nil {
		return nil, err
	}
	if resp.Has("submissions") {
		if err := resp.Decode("submissions", &ev.Submissions); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

func decodeHistory(resp *transport.Response, key string, _ request) (Event, error) {
	var h []domain.Report
	if err := resp.Decode(key, &h); err != nil {
		return nil, err
	}
	return HistoryLoaded{History: h}, nil
}

func decodeReports(resp *transport.Response, key string, _ request) (Event, error) {
	var r []domain.Report
	if err := resp.Decode(key, &r); err != nil {
		return nil, err
	}
	return ReportsLoaded{Reports: r}, nil
}

func decodeArchives(resp *transport.Response, key string, _ request) (Event, error) {
	var a domain.Archive
	if err := resp.Decode(key, &a); err != nil {
		return nil, err
	}
	if a == nil {
		a = domain.Archive{}
	}
	return ArchivesLoaded{Archives: a}, nil
}

func optionalInt(resp *transport.Response, key string) int {
	var n int
	if resp.Has(key) {
		_ = resp.Decode(key, &n)
	}
	return n
}
