package stubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

var testNow = time.Date(2024, 6, 5, 9, 30, 0, 0, time.UTC) // Wednesday

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	bodies [][]byte
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.bodies = append(p.bodies, payload)
	return nil
}

type testEnv struct {
	srv  *httptest.Server
	repo *MemoryRepository
	pub  *fakePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := NewMemoryRepository()
	_, err := SeedAdmin(context.Background(), repo, "admin", "admin", "บก.")
	require.NoError(t, err)

	pub := &fakePublisher{}
	logger := zap.NewNop()
	h := NewHandler(repo, logger,
		WithNotifier(NewMQTTNotifier(pub, logger)),
		WithPageSize(2),
		WithProtectedUser("admin"),
		WithClock(func() time.Time { return testNow }),
	)
	router := NewRouter(logger)
	router.RegisterActionRoutes("/api", h)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, repo: repo, pub: pub}
}

func (e *testEnv) call(t *testing.T, token, action string, payload any) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(map[string]any{"action": action, "payload": payload})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/api", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	code, out := e.call(t, "", "login", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "success", out["status"], out["message"])
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) addUser(t *testing.T, admin, username, dept string) {
	t.Helper()
	_, out := e.call(t, admin, "add_user", map[string]any{"data": map[string]any{
		"username": username, "password": "secret", "rank": "นาย", "first_name": "ทดสอบ",
		"last_name": "ระบบ", "position": "เสมียน", "department": dept, "role": "user",
	}})
	require.Equal(t, "success", out["status"], out["message"])
}

func (e *testEnv) addPerson(t *testing.T, admin, first, dept string) string {
	t.Helper()
	_, out := e.call(t, admin, "add_personnel", map[string]any{"data": map[string]any{
		"rank": "จ.อ.", "first_name": first, "last_name": "ใจดี", "position": "ช่าง",
		"specialty": "สื่อสาร", "department": dept,
	}})
	require.Equal(t, "success", out["status"], out["message"])
	return out["id"].(string)
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)

	_, out := e.call(t, "", "login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, msgBadCredentials, out["message"])

	_, out = e.call(t, "", "login", map[string]string{"username": "nobody", "password": "admin"})
	assert.Equal(t, msgBadCredentials, out["message"])

	_, out = e.call(t, "", "login", map[string]string{"username": "admin", "password": "admin"})
	require.Equal(t, "success", out["status"])
	assert.Len(t, out["token"], 32)
	user := out["user"].(map[string]any)
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "admin", user["role"])
	assert.NotContains(t, user, "password")
}

func TestUnauthorized(t *testing.T) {
	e := newTestEnv(t)

	code, out := e.call(t, "", "list_personnel", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized", out["message"])

	code, _ = e.call(t, "not-a-token", "list_personnel", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	e := newTestEnv(t)
	token := e.login(t, "admin", "admin")

	_, out := e.call(t, token, "logout", map[string]string{"token": token})
	assert.Equal(t, "ออกจากระบบสำเร็จ", out["message"])

	code, _ := e.call(t, token, "list_users", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestMethodAndMalformedBody(t *testing.T) {
	e := newTestEnv(t)

	resp, err := http.Get(e.srv.URL + "/api")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(e.srv.URL+"/api", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Server error", out["message"])

	resp, err = http.Get(e.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownActionAndAdminGuard(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", "admin")
	e.addUser(t, admin, "clerk", "ฝ่ายช่าง")
	clerk := e.login(t, "clerk", "secret")

	_, out := e.call(t, admin, "launch_rockets", nil)
	assert.Equal(t, msgUnknown, out["message"])

	for _, action := range []string{"list_users", "add_personnel", "get_status_reports", "archive_reports", "get_dashboard_summary"} {
		code, out := e.call(t, clerk, action, map[string]any{})
		assert.Equal(t, http.StatusOK, code, action)
		assert.Equal(t, msgForbidden, out["message"], action)
	}
}

func TestUserManagement(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", "admin")
	e.addUser(t, admin, "clerk", "ฝ่ายช่าง")

	_, out := e.call(t, admin, "add_user", map[string]any{"data": map[string]any{
		"username": "clerk", "password": "x", "role": "user",
	}})
	assert.Equal(t, "Username นี้มีผู้ใช้อยู่แล้ว", out["message"])

	_, out = e.call(t, admin, "add_user", map[string]any{"data": map[string]any{"username": "nopass", "role": "user"}})
	assert.Equal(t, "error", out["status"])

	_, out = e.call(t, admin, "update_user", map[string]any{"data": map[string]any{
		"username": "clerk", "first_name": "ใหม่", "department": "ฝ่ายช่าง", "role": "user",
	}})
	assert.Equal(t, "อัปเดตข้อมูล 'clerk' สำเร็จ", out["message"])
	// password kept
	e.login(t, "clerk", "secret")

	_, out = e.call(t, admin, "list_users", map[string]any{"searchTerm": "ใหม่"})
	users := out["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "clerk", users[0].(map[string]any)["username"])

	_, out = e.call(t, admin, "delete_user", map[string]string{"username": "admin"})
	assert.Equal(t, "ไม่สามารถลบบัญชีผู้ดูแลระบบหลักได้", out["message"])

	_, out = e.call(t, admin, "delete_user", map[string]string{"username": "clerk"})
	assert.Equal(t, "ลบผู้ใช้ 'clerk' สำเร็จ", out["message"])
}

func TestPersonnelPagingAndScope(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", "admin")
	e.addUser(t, admin, "clerk", "ฝ่ายช่าง")
	e.addPerson(t, admin, "หนึ่ง", "ฝ่ายช่าง")
	e.addPerson(t, admin, "สอง", "ฝ่ายช่าง")
	e.addPerson(t, admin, "สาม", "ฝ่ายยุทธการ")

	_, out := e.call(t, admin, "list_personnel", map[string]any{"page": 2})
	assert.Equal(t, float64(2), out["page"])
	assert.Equal(t, float64(2), out["total_pages"])
	assert.Len(t, out["personnel"], 1)

	_, out = e.call(t, admin, "list_personnel", map[string]any{"searchTerm": "สอง"})
	assert.Len(t, out["personnel"], 1)

	clerk := e.login(t, "clerk", "secret")
	_, out = e.call(t, clerk, "list_personnel", map[string]any{"fetchAll": true})
	assert.Len(t, out["personnel"], 2)
	assert.Empty(t, out["submissions"])
	assert.NotContains(t, out, "page")
}

func TestPersonnelValidationAndImport(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", "admin")

	_, out := e.call(t, admin, "add_personnel", map[string]any{"data": map[string]any{"first_name": "ครึ่ง"}})
	assert.Equal(t, msgIncomplete, out["message"])

	id := e.addPerson(t, admin, "เดิม", "ฝ่ายช่าง")
	_, out = e.call(t, admin, "update_personnel", map[string]any{"data": map[string]any{
		"id": id, "rank": "จ.ท.", "first_name": "เดิม", "last_name": "ใจดี", "position": "ช่าง",
		"specialty": "สื่อสาร", "department": "ฝ่ายช่าง",
	}})
	assert.Equal(t, "อัปเดตข้อมูลสำเร็จ", out["message"])

	_, out = e.call(t, admin, "import_personnel", map[string]any{"personnel": []map[string]string{
		{"rank": "นาย", "first_name": "ก", "last_name": "ข", "position": "ค", "specialty": "ง", "department": "จ"},
		{"rank": "นาง", "first_name": "ฉ", "last_name": "ช", "position": "ซ", "specialty": "ฌ", "department": "จ"},
	}})
	assert.Equal(t, "นำเข้าข้อมูลกำลังพลจำนวน 2 รายการสำเร็จ", out["message"])

	people, err := e.repo.ListPersonnel(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, people, 2)

	_, out = e.call(t, admin, "delete_personnel", map[string]string{"id": people[0].ID})
	assert.Equal(t, "ลบข้อมูลสำเร็จ", out["message"])
}

func submission(dept string, items ...domain.StatusEntry) map[string]any {
	return map[string]any{"report": domain.Submission{Date: "2024-06-05", Department: dept, Items: items}}
}

func entry(id, name string, status domain.Status) domain.StatusEntry {
	return domain.StatusEntry{PersonnelID: id, PersonnelName: name, Status: status, StartDate: "2024-06-05", EndDate: "2024-06-07"}
}

func TestSubmitReplacesWeeklyReport(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", "admin")
	e.addUser(t, admin, "clerk", "ฝ่ายช่าง")
	p1 := e.addPerson(t, admin, "หนึ่ง", "ฝ่ายช่าง")
	clerk := e.login(t, "clerk", "secret")

	_, out := e.call(t, clerk, "submit_status_report", submission("ฝ่ายยุทธการ", entry(p1, "จ.อ. หนึ่ง ใจดี", domain.StatusVacation)))
	assert.Equal(t, msgOtherDept, out["message"])

	bad := entry(p1, "จ.อ. หนึ่ง ใจดี", domain.StatusVacation)
	bad.EndDate = ""
	_, out = e.call(t, clerk, "submit_status_report", submission("", bad))
	assert.Equal(t, msgMissingDates, out["message"])

	_, out = e.call(t, clerk, "submit_status_report", submission("", entry(p1, "จ.อ. หนึ่ง ใจดี", domain.StatusVacation)))
	require.Equal(t, "ส่งยอดกำลังพลสำเร็จ", out["message"])
	firstID := out["id"].(string)

	_, out = e.call(t, clerk, "submit_status_report", submission("", entry(p1, "จ.อ. หนึ่ง ใจดี", domain.StatusStudy)))
	assert.Equal(t, firstID, out["id"])

	reports, err := e.repo.ListReports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "ฝ่ายช่าง", reports[0].Department)
	assert.Equal(t, "clerk", reports[0].SubmittedBy)
	assert.Equal(t, domain.StatusStudy, reports[0].Items[0].Status)

	_, out = e.call(t, clerk, "list_personnel", map[string]any{"fetchAll": true})
	subs := out["submissions"].([]any)
	require.Len(t, subs, 1)
	assert.Equal(t, "live", subs[0].(map[string]any)["source"])

	assert.Equal(t, []string{TopicReportSubmitted, TopicReportSubmitted}, e.pub.topics)
}

func TestEditReportByID(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", "admin")
	p1 := e.addPerson(t, admin, "หนึ่ง", "ฝ่ายช่าง")

	_, out := e.call(t, admin, "submit_status_report", submission("ฝ่ายช่าง", entry(p1, "จ.อ. หนึ่ง ใจดี", domain.StatusVacation)))
	id := out["id"].(string)

	payload := submission("ฝ่ายช่าง", entry(p1, "จ.อ. หนึ่ง ใจดี", domain.StatusOfficialDuty))
	sub := payload["report"].(domain.Submission)
	sub.ID = id
	_, out = e.call(t, admin, "submit_status_report", map[string]any{"report": sub})
	assert.Equal(t, "แก้ไขรายงานสำเร็จ", out["message"])

	sub.ID = "missing"
	_, out = e.call(t, admin, "submit_status_report", map[string]any{"report": sub})
	assert.Equal(t, msgReportMissing, out["message"])
}

func TestDashboards(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", "admin")
	e.addUser(t, admin, "clerk", "ฝ่ายช่าง")
	p1 := e.addPerson(t, admin, "หนึ่ง", "ฝ่ายช่าง")
	e.addPerson(t, admin, "สอง", "ฝ่ายช่าง")
	e.addPerson(t, admin, "สาม", "ฝ่ายยุทธการ")
	clerk := e.login(t, "clerk", "secret")

	_, out := e.call(t, clerk, "get_user_dashboard_summary", nil)
	summary := out["summary"].(map[string]any)
	assert.Equal(t, false, summary["submitted"])
	assert.Equal(t, float64(2), summary["total_on_duty"])

	_, out = e.call(t, clerk, "submit_status_report", submission("", entry(p1, "จ.อ. หนึ่ง ใจดี", domain.StatusVacation)))
	require.Equal(t, "success", out["status"])

	_, out = e.call(t, clerk, "get_user_dashboard_summary", nil)
	summary = out["summary"].(map[string]any)
	assert.Equal(t, true, summary["submitted"])
	assert.Equal(t, float64(1), summary["total_on_duty"])
	assert.Equal(t, map[string]any{"ลาพักผ่อน": float64(1)}, summary["status_summary"])

	_, out = e.call(t, admin, "get_dashboard_summary", nil)
	summary = out["summary"].(map[string]any)
	assert.Equal(t, []any{"ฝ่ายช่าง", "ฝ่ายยุทธการ"}, summary["all_departments"])
	assert.Equal(t, []any{"ฝ่ายช่าง"}, summary["submitted_departments"])
	assert.Equal(t, float64(3), summary["total_personnel"])
	assert.Equal(t, float64(2), summary["total_on_duty"])
}

func TestArchiveAndHistory(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", "admin")
	e.addUser(t, admin, "clerk", "ฝ่ายช่าง")
	p1 := e.addPerson(t, admin, "หนึ่ง", "ฝ่ายช่าง")
	clerk := e.login(t, "clerk", "secret")

	_, out := e.call(t, clerk, "submit_status_report", submission("", entry(p1, "จ.อ. หนึ่ง ใจดี", domain.StatusVacation)))
	require.Equal(t, "success", out["status"])

	_, out = e.call(t, clerk, "get_submission_history", nil)
	history := out["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "live", history[0].(map[string]any)["source"])

	_, out = e.call(t, admin, "archive_reports", map[string]any{"reports": []any{}})
	assert.Equal(t, msgNothingArchive, out["message"])

	_, out = e.call(t, admin, "get_status_reports", nil)
	reports := out["reports"]
	_, out = e.call(t, admin, "archive_reports", map[string]any{"reports": reports})
	assert.Equal(t, "เก็บรายงานจำนวน 1 รายการสำเร็จ", out["message"])

	_, out = e.call(t, admin, "get_status_reports", nil)
	assert.Empty(t, out["reports"])

	_, out = e.call(t, admin, "get_archived_reports", nil)
	archives := out["archives"].(map[string]any)
	month := archives["2024"].(map[string]any)["6"].([]any)
	require.Len(t, month, 1)
	archived := month[0].(map[string]any)
	assert.Equal(t, "2024-06-05", archived["date"])
	assert.Equal(t, "ฝ่ายช่าง", archived["department"])
	assert.Equal(t, "archive", archived["source"])

	_, out = e.call(t, clerk, "get_submission_history", nil)
	history = out["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "archive", history[0].(map[string]any)["source"])

	assert.Contains(t, e.pub.topics, TopicReportsArchived)
}

func TestHistoryRequiresDepartment(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", "admin")
	e.addUser(t, admin, "drifter", "")
	drifter := e.login(t, "drifter", "secret")

	_, out := e.call(t, drifter, "get_submission_history", nil)
	assert.Equal(t, msgNoDepartment, out["message"])
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	repo := NewMemoryRepository()
	created, err := SeedAdmin(context.Background(), repo, "root", "pw", "")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(context.Background(), repo, "root", "other", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got, page, total := paginate(items, 3, 2)
	assert.Equal(t, []int{5}, got)
	assert.Equal(t, 3, page)
	assert.Equal(t, 3, total)

	got, page, _ = paginate(items, 9, 2)
	assert.Equal(t, 3, page)
	assert.Equal(t, []int{5}, got)

	got, page, total = paginate([]int{}, 0, 2)
	assert.Empty(t, got)
	assert.Equal(t, 1, page)
	assert.Equal(t, 1, total)
}
