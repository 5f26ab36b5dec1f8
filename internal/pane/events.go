package pane

import "github.com/jeerawut3427/personal-system/internal/domain"

// Event carries one pane's decoded response to whoever renders it.
type Event interface {
	Pane() ID
}

// Sink receives events. The root controller switches on the concrete type.
type Sink interface {
	Publish(Event)
}

// Notifier shows success and failure notices.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

type UserDashboardLoaded struct {
	Summary domain.UserDashboardSummary
}

type DashboardLoaded struct {
	Summary domain.DashboardSummary
}

type PersonnelLoaded struct {
	Personnel  []domain.Person
	Page       int
	TotalPages int
	SearchTerm string
}

type UsersLoaded struct {
	Users      []domain.User
	Page       int
	TotalPages int
	SearchTerm string
}

// RosterLoaded feeds the status editor: the full roster plus any
// current-period submissions the server returned alongside it.
type RosterLoaded struct {
	Personnel   []domain.Person
	Submissions []domain.Report
}

type HistoryLoaded struct {
	History []domain.Report
}

type ReportsLoaded struct {
	Reports []domain.Report
}

type ArchivesLoaded struct {
	Archives domain.Archive
}

func (UserDashboardLoaded) Pane() ID { return UserDashboard }
func (DashboardLoaded) Pane() ID     { return Dashboard }
func (PersonnelLoaded) Pane() ID     { return Personnel }
func (UsersLoaded) Pane() ID         { return Admin }
func (RosterLoaded) Pane() ID        { return SubmitStatus }
func (HistoryLoaded) Pane() ID       { return History }
func (ReportsLoaded) Pane() ID       { return Report }
func (ArchivesLoaded) Pane() ID      { return Archive }
