package pane

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/transport"
)

type sendCall struct {
	action  string
	payload map[string]any
}

type fakeSender struct {
	mu    sync.Mutex
	calls []sendCall
	resp  *transport.Response
	err   error
	// onSend runs before the response is returned, to simulate user input
	// changing while the request is in flight.
	onSend func()
}

func (f *fakeSender) Send(_ context.Context, action string, payload any) (*transport.Response, error) {
	f.mu.Lock()
	p, _ := payload.(map[string]any)
	cp := map[string]any{}
	for k, v := range p {
		cp[k] = v
	}
	f.calls = append(f.calls, sendCall{action: action, payload: cp})
	f.mu.Unlock()
	if f.onSend != nil {
		f.onSend()
	}
	return f.resp, f.err
}

type fakeInputs struct {
	search map[ID]string
	page   map[ID]int
}

func (f *fakeInputs) SearchTerm(id ID) string { return f.search[id] }
func (f *fakeInputs) Page(id ID) int          { return f.page[id] }

type recorder struct {
	events   []Event
	success  []string
	failures []string
}

func (r *recorder) Publish(ev Event)     { r.events = append(r.events, ev) }
func (r *recorder) Success(msg string)   { r.success = append(r.success, msg) }
func (r *recorder) Failure(msg string)   { r.failures = append(r.failures, msg) }

func mustResponse(t *testing.T, status, msg string, fields map[string]any) *transport.Response {
	t.Helper()
	r, err := transport.NewResponse(status, msg, fields)
	require.NoError(t, err)
	return r
}

func TestParse(t *testing.T) {
	for _, s := range []string{"pane-personnel", "tab-personnel", "personnel"} {
		id, ok := Parse(s)
		require.True(t, ok, s)
		assert.Equal(t, Personnel, id)
	}
	_, ok := Parse("pane-settings")
	assert.False(t, ok)
	assert.Equal(t, "submit-status", SubmitStatus.Tab())
}

func TestLookup_EveryPaneIsWired(t *testing.T) {
	for _, id := range All() {
		e, ok := Lookup(id)
		require.True(t, ok, id.String())
		assert.NotEmpty(t, e.Action, id.String())
		assert.NotEmpty(t, e.ResponseKey, id.String())
	}
	_, ok := Lookup(numPanes)
	assert.False(t, ok)
}

func TestLoad_UnknownPaneIsNoop(t *testing.T) {
	sender := &fakeSender{}
	rec := &recorder{}
	l := NewLoader(sender, &fakeInputs{}, rec, rec, zap.NewNop())

	assert.NotPanics(t, func() {
		l.LoadByName(context.Background(), "pane-does-not-exist")
		l.Load(context.Background(), ID(99))
		l.Load(context.Background(), ID(-1))
	})
	assert.Empty(t, sender.calls)
	assert.Empty(t, rec.events)
	assert.Empty(t, rec.failures)
}

func TestLoad_SearchAndPageMergedAtCallTime(t *testing.T) {
	inputs := &fakeInputs{
		search: map[ID]string{Personnel: "สมชาย"},
		page:   map[ID]int{Personnel: 3},
	}
	sender := &fakeSender{resp: mustResponse(t, "success", "", map[string]any{
		"personnel":   []map[string]any{{"id": "p1"}},
		"total_pages": 5,
	})}
	// a keystroke during the request must not leak into the rendered event
	sender.onSend = func() { inputs.search[Personnel] = "สมชายใหม่" }
	rec := &recorder{}
	l := NewLoader(sender, inputs, rec, rec, zap.NewNop())

	l.Load(context.Background(), Personnel)

	require.Len(t, sender.calls, 1)
	assert.Equal(t, "list_personnel", sender.calls[0].action)
	assert.Equal(t, "สมชาย", sender.calls[0].payload["searchTerm"])
	assert.Equal(t, 3, sender.calls[0].payload["page"])

	require.Len(t, rec.events, 1)
	ev := rec.events[0].(PersonnelLoaded)
	assert.Equal(t, "สมชาย", ev.SearchTerm)
	assert.Equal(t, 3, ev.Page)
	assert.Equal(t, 5, ev.TotalPages)
	assert.Equal(t, "p1", ev.Personnel[0].ID)
}

func TestLoad_SubmitStatusFetchesAll(t *testing.T) {
	sender := &fakeSender{resp: mustResponse(t, "success", "", map[string]any{
		"personnel": []map[string]any{{"id": "p1", "department": "A"}},
		"submissions": []map[string]any{{
			"id": "r1", "date": "2024-06-03", "department": "A",
			"items": []map[string]any{{"personnel_id": "p1", "status": "ราชการ"}},
		}},
	})}
	rec := &recorder{}
	l := NewLoader(sender, &fakeInputs{search: map[ID]string{SubmitStatus: "ignored"}}, rec, rec, zap.NewNop())

	l.Load(context.Background(), SubmitStatus)

	require.Len(t, sender.calls, 1)
	assert.Equal(t, true, sender.calls[0].payload["fetchAll"])
	_, hasSearch := sender.calls[0].payload["searchTerm"]
	assert.False(t, hasSearch)

	ev := rec.events[0].(RosterLoaded)
	require.Len(t, ev.Submissions, 1)
	assert.Equal(t, "r1", ev.Submissions[0].ID)
}

func TestLoad_MissingKeyIsReported(t *testing.T) {
	sender := &fakeSender{resp: mustResponse(t, "success", "", map[string]any{"data": []any{}})}
	rec := &recorder{}
	l := NewLoader(sender, &fakeInputs{}, rec, rec, zap.NewNop())

	l.Load(context.Background(), Report)

	assert.Empty(t, rec.events)
	require.Len(t, rec.failures, 1)
	assert.Contains(t, rec.failures[0], "reports")
}

func TestLoad_ApplicationErrorShowsMessage(t *testing.T) {
	sender := &fakeSender{resp: mustResponse(t, "error", "คุณไม่มีสิทธิ์ดำเนินการ", nil)}
	rec := &recorder{}
	l := NewLoader(sender, &fakeInputs{}, rec, rec, zap.NewNop())

	l.Load(context.Background(), Admin)
	assert.Equal(t, []string{"คุณไม่มีสิทธิ์ดำเนินการ"}, rec.failures)
	assert.Empty(t, rec.events)
}

func TestLoad_ErrorWithoutMessageIsSilent(t *testing.T) {
	sender := &fakeSender{resp: mustResponse(t, "error", "", nil)}
	rec := &recorder{}
	l := NewLoader(sender, &fakeInputs{}, rec, rec, zap.NewNop())

	l.Load(context.Background(), Dashboard)
	assert.Empty(t, rec.failures)
	assert.Empty(t, rec.events)
}

func TestLoad_TransportErrorShowsMessage(t *testing.T) {
	sender := &fakeSender{err: transport.ErrTransport}
	rec := &recorder{}
	l := NewLoader(sender, &fakeInputs{}, rec, rec, zap.NewNop())

	l.Load(context.Background(), History)
	assert.Equal(t, []string{transport.ErrTransport.Error()}, rec.failures)
}

func TestLoad_ArchivesNullBecomesEmpty(t *testing.T) {
	sender := &fakeSender{resp: mustResponse(t, "success", "", map[string]any{"archives": nil})}
	rec := &recorder{}
	l := NewLoader(sender, &fakeInputs{}, rec, rec, zap.NewNop())

	l.Load(context.Background(), Archive)
	require.Len(t, rec.events, 1)
	ev := rec.events[0].(ArchivesLoaded)
	assert.NotNil(t, ev.Archives)
	assert.Empty(t, ev.Archives)
}

func TestLoad_RepeatedLoadsDoNotAccumulate(t *testing.T) {
	sender := &fakeSender{resp: mustResponse(t, "success", "", map[string]any{"users": []any{}})}
	rec := &recorder{}
	l := NewLoader(sender, &fakeInputs{}, rec, rec, zap.NewNop())

	for i := 0; i < 3; i++ {
		l.Load(context.Background(), Admin)
	}
	assert.Len(t, sender.calls, 3)
	assert.Len(t, rec.events, 3)
}
