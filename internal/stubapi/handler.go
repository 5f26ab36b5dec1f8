// Package stubapi is a development server for the single action endpoint:
// POST {action, payload} with a bearer token, answered with
// {status, message, ...}. It backs local runs and end-to-end tests.
package stubapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

const (
	msgForbidden    = "คุณไม่มีสิทธิ์ดำเนินการ"
	msgUnknown      = "ไม่รู้จักคำสั่งนี้"
	msgBadPayload   = "รูปแบบข้อมูลไม่ถูกต้อง"
	msgNoDepartment = "ไม่พบข้อมูลแผนกของผู้ใช้"
)

var adminActions = map[string]bool{
	"list_users":            true,
	"add_user":              true,
	"update_user":           true,
	"delete_user":           true,
	"add_personnel":         true,
	"update_personnel":      true,
	"delete_personnel":      true,
	"import_personnel":      true,
	"get_status_reports":    true,
	"archive_reports":       true,
	"get_archived_reports":  true,
	"get_dashboard_summary": true,
}

type envelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type actionFunc func(ctx context.Context, session *domain.User, payload json.RawMessage) (reply, error)

// Handler serves the action endpoint.
type Handler struct {
	repo          Repository
	notifier      Notifier
	logger        *zap.Logger
	pageSize      int
	protectedUser string
	now           func() time.Time
	actions       map[string]actionFunc
}

type Option func(*Handler)

// WithNotifier sets where report events go. Default drops them.
func WithNotifier(n Notifier) Option { return func(h *Handler) { h.notifier = n } }

// WithPageSize sets the list page size. Zero disables paging.
func WithPageSize(n int) Option { return func(h *Handler) { h.pageSize = n } }

// WithProtectedUser names an account delete_user refuses to remove.
func WithProtectedUser(username string) Option { return func(h *Handler) { h.protectedUser = username } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(h *Handler) { h.now = now } }

func NewHandler(repo Repository, logger *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		repo:     repo,
		notifier: NopNotifier{},
		logger:   logger,
		pageSize: 20,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.actions = map[string]actionFunc{
		"logout":                     h.logout,
		"get_dashboard_summary":      h.dashboardSummary,
		"get_user_dashboard_summary": h.userDashboardSummary,
		"list_users":                 h.listUsers,
		"add_user":                   h.addUser,
		"update_user":                h.updateUser,
		"delete_user":                h.deleteUser,
		"list_personnel":             h.listPersonnel,
		"add_personnel":              h.addPersonnel,
		"update_personnel":           h.updatePersonnel,
		"delete_personnel":           h.deletePersonnel,
		"import_personnel":           h.importPersonnel,
		"submit_status_report":       h.submitStatusReport,
		"get_status_reports":         h.statusReports,
		"archive_reports":            h.archiveReports,
		"get_archived_reports":       h.archivedReports,
		"get_submission_history":     h.submissionHistory,
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("Action panicked", zap.Any("panic", rec))
			writeJSON(w, http.StatusInternalServerError, replyServerError)
		}
	}()

	ctx := r.Context()
	var env envelope
	if err := readBodyJSON(r, maxBodyBytes, &env); err != nil {
		h.logger.Warn("Malformed request body", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, replyServerError)
		return
	}

	if env.Action == "login" {
		h.respond(w, env.Action, func() (reply, error) { return h.login(ctx, env.Payload) })
		return
	}

	session, err := h.authenticate(ctx, r)
	if err != nil {
		h.logger.Error("Session lookup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, replyServerError)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, replyUnauthorized)
		return
	}

	h.respond(w, env.Action, func() (reply, error) {
		if adminActions[env.Action] && !session.IsAdmin() {
			return fail(msgForbidden), nil
		}
		fn, ok := h.actions[env.Action]
		if !ok {
			return fail(msgUnknown), nil
		}
		return fn(ctx, session, env.Payload)
	})
}

func (h *Handler) respond(w http.ResponseWriter, action string, run func() (reply, error)) {
	resp, err := run()
	if err != nil {
		h.logger.Error("Action failed", zap.String("action", action), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, replyServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// authenticate returns nil, nil when the bearer token is missing or unknown.
func (h *Handler) authenticate(ctx context.Context, r *http.Request) (*domain.User, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return nil, nil
	}
	u, err := h.repo.SessionUser(ctx, strings.TrimSpace(token))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (h *Handler) today() time.Time {
	return h.now()
}

func (h *Handler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}
