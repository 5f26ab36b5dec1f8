// Package app is the root controller: it owns the logged-in identity, routes
// pane events to their views and runs every user command against the action
// endpoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/archive"
	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/editor"
	"github.com/jeerawut3427/personal-system/internal/pane"
	"github.com/jeerawut3427/personal-system/internal/session"
	"github.com/jeerawut3427/personal-system/internal/view"
)

var (
	ErrNotLoggedIn    = errors.New("กรุณาเข้าสู่ระบบ")
	ErrPaneNotAllowed = errors.New("คุณไม่มีสิทธิ์เข้าถึงหน้านี้")
	ErrNoForm         = errors.New("กรุณาเปิดหน้าส่งยอดกำลังพลก่อน")
	ErrNoArchive      = errors.New("กรุณาเปิดหน้ารายงานย้อนหลังก่อน")
	ErrNoHistory      = errors.New("กรุณาเปิดหน้าประวัติการส่งก่อน")
	ErrLoggedOut      = errors.New("ออกจากระบบแล้ว")
)

// Client is the transport surface the controller needs.
type Client interface {
	pane.Sender
	Logout(ctx context.Context) error
}

// Identity yields the stored login.
type Identity interface {
	Identity(ctx context.Context) (*domain.User, error)
}

// Deps wires an App.
type Deps struct {
	Client      Client
	Sessions    Identity
	Notifier    pane.Notifier
	Out         io.Writer
	Logger      *zap.Logger
	ExportDir   string
	PageSize    int
	IdleTimeout time.Duration
	LogoutGrace time.Duration
	// OnLogout runs after every logout, explicit or idle.
	OnLogout func()
	Now      func() time.Time
}

// App is one logged-in session of the client.
type App struct {
	client    Client
	notify    pane.Notifier
	out       io.Writer
	logger    *zap.Logger
	exportDir string
	pageSize  int
	now       func() time.Time
	onLogout  func()
	loader    *pane.Loader
	idle      *session.Inactivity

	mu        sync.Mutex
	viewer    domain.User
	current   pane.ID
	loggedOut bool

	personnelSearch string
	personnelPage   int
	userSearch      string
	userPage        int

	personnel []domain.Person
	users     []domain.User

	roster      []domain.Person
	submissions []domain.Report
	editing     *domain.Report
	form        *editor.Form

	weekly  []domain.Report
	browser *archive.Browser
	history *archive.History
}

// New restores the stored identity. Without one it returns ErrNotLoggedIn.
func New(ctx context.Context, d Deps) (*App, error) {
	user, err := d.Sessions.Identity(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read identity: %w", err)
	}

	a := &App{
		client:        d.Client,
		notify:        d.Notifier,
		out:           d.Out,
		logger:        d.Logger,
		exportDir:     d.ExportDir,
		pageSize:      d.PageSize,
		now:           d.Now,
		onLogout:      d.OnLogout,
		viewer:        *user,
		current:       view.DefaultPane(*user),
		personnelPage: 1,
		userPage:      1,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.out == nil {
		a.out = io.Discard
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.exportDir == "" {
		a.exportDir = "."
	}
	a.loader = pane.NewLoader(d.Client, a, a, d.Notifier, a.logger)
	a.idle = session.NewInactivity(d.IdleTimeout, d.LogoutGrace,
		func() { a.notify.Failure(session.IdleWarning) },
		func() {
			if err := a.Logout(context.Background()); err != nil {
				a.logger.Warn("Idle logout failed", zap.Error(err))
			}
		},
	)
	a.idle.Start()
	return a, nil
}

// Viewer is the logged-in user.
func (a *App) Viewer() domain.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewer
}

// Current is the pane last opened.
func (a *App) Current() pane.ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// LoggedOut reports whether the session has ended.
func (a *App) LoggedOut() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedOut
}

// Open shows a pane by name and loads its data. Unknown names are ignored.
func (a *App) Open(ctx context.Context, name string) error {
	id, ok := pane.Parse(name)
	if !ok {
		a.loader.LoadByName(ctx, name)
		return nil
	}
	return a.open(ctx, id)
}

func (a *App) open(ctx context.Context, id pane.ID) error {
	if err := a.alive(); err != nil {
		return err
	}
	if !view.Allowed(a.Viewer(), id) {
		return ErrPaneNotAllowed
	}
	a.mu.Lock()
	a.current = id
	a.mu.Unlock()
	a.loader.Load(ctx, id)
	return nil
}

// Reload fetches the current pane again.
func (a *App) Reload(ctx context.Context) error {
	return a.open(ctx, a.Current())
}

func (a *App) alive() error {
	if a.LoggedOut() {
		return ErrLoggedOut
	}
	return nil
}

// SearchTerm implements pane.Inputs.
func (a *App) SearchTerm(id pane.ID) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch id {
	case pane.Personnel:
		return a.personnelSearch
	case pane.Admin:
		return a.userSearch
	}
	return ""
}

// Page implements pane.Inputs.
func (a *App) Page(id pane.ID) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch id {
	case pane.Personnel:
		return a.personnelPage
	case pane.Admin:
		return a.userPage
	}
	return 1
}

// Publish implements pane.Sink: it stores the pane's data and renders it.
func (a *App) Publish(ev pane.Event) {
	a.mu.Lock()
	var model interface{ Render(io.Writer) error }
	switch e := ev.(type) {
	case pane.UserDashboardLoaded:
		model = view.NewUserDashboard(e.Summary)
	case pane.DashboardLoaded:
		model = view.NewDashboard(e.Summary)
	case pane.PersonnelLoaded:
		a.personnel = e.Personnel
		model = view.NewPersonnelTable(e.Personnel, e.Page, e.TotalPages, a.pageSize, e.SearchTerm)
	case pane.UsersLoaded:
		a.users = e.Users
		model = view.NewUserTable(e.Users, e.Page, e.TotalPages, e.SearchTerm)
	case pane.RosterLoaded:
		a.roster, a.submissions = e.Personnel, e.Submissions
		a.form = editor.NewForm(a.viewer, e.Personnel, e.Submissions, a.editing)
		model = view.NewSubmissionForm(a.form)
	case pane.HistoryLoaded:
		a.history = archive.NewHistory(e.History)
		model = view.NewHistoryList(a.history.Items())
	case pane.ReportsLoaded:
		a.weekly = e.Reports
		model = view.NewWeeklyReport(e.Reports)
	case pane.ArchivesLoaded:
		a.browser = archive.NewBrowser(e.Archives)
		model = yearPicker(a.browser.Years())
	default:
		a.logger.Warn("Unhandled pane event", zap.String("pane", ev.Pane().String()))
	}
	a.mu.Unlock()

	if model != nil {
		a.render(model)
	}
}

type yearPicker []string

func (y yearPicker) Render(w io.Writer) error {
	return view.RenderOptions(w, view.YearOptions(y))
}

func (a *App) render(m interface{ Render(io.Writer) error }) {
	if err := m.Render(a.out); err != nil {
		a.logger.Warn("Failed to render view", zap.Error(err))
	}
}

// Touch records user activity for the idle timer.
func (a *App) Touch() {
	a.idle.Touch()
}

// Logout ends the session on the server and locally. Local state is cleared
// even when the request fails.
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	if a.loggedOut {
		a.mu.Unlock()
		return nil
	}
	a.loggedOut = true
	a.mu.Unlock()

	a.idle.Stop()
	err := a.client.Logout(ctx)
	if a.onLogout != nil {
		a.onLogout()
	}
	return err
}

const noReload = pane.ID(-1)

// send runs a mutating action and reports its message. On success the pane
// reload is fetched.
func (a *App) send(ctx context.Context, action string, payload any, reload pane.ID) error {
	if err := a.alive(); err != nil {
		return err
	}
	resp, err := a.client.Send(ctx, action, payload)
	if err != nil {
		a.notify.Failure(err.Error())
		return err
	}
	if err := resp.Err(); err != nil {
		a.notify.Failure(err.Error())
		return err
	}
	if resp.Message != "" {
		a.notify.Success(resp.Message)
	}
	if reload.Valid() {
		a.loader.Load(ctx, reload)
	}
	return nil
}

// fail reports err as a failure notice and returns it.
func (a *App) fail(err error) error {
	a.notify.Failure(err.Error())
	return err
}

func (a *App) writeFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(a.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(a.exportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	a.logger.Info("Exported workbook", zap.String("path", path))
	return path, nil
}
