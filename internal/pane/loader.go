package pane

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/transport"
)

const msgMalformed = "ข้อมูลจากเซิร์ฟเวอร์ไม่อยู่ในรูปแบบที่ถูกต้อง"

// Sender is the transport adapter.
type Sender interface {
	Send(ctx context.Context, action string, payload any) (*transport.Response, error)
}

// Loader fetches a pane's data and publishes the decoded event. It keeps no
// state between calls, so repeated loads of the same pane are independent and
// the last response to arrive is the one rendered.
type Loader struct {
	sender Sender
	inputs Inputs
	sink   Sink
	notify Notifier
	logger *zap.Logger
}

func NewLoader(sender Sender, inputs Inputs, sink Sink, notify Notifier, logger *zap.Logger) *Loader {
	return &Loader{sender: sender, inputs: inputs, sink: sink, notify: notify, logger: logger}
}

// LoadByName loads the pane named by a tab or pane id. Unknown names are ignored.
func (l *Loader) LoadByName(ctx context.Context, name string) {
	id, ok := Parse(name)
	if !ok {
		l.logger.Debug("Ignoring unknown pane", zap.String("pane", name))
		return
	}
	l.Load(ctx, id)
}

// Go runs Load on its own goroutine.
func (l *Loader) Go(ctx context.Context, id ID) {
	go l.Load(ctx, id)
}

// Load populates pane id. Failures are reported through the Notifier.
func (l *Loader) Load(ctx context.Context, id ID) {
	entry, ok := Lookup(id)
	if !ok {
		return
	}

	// snapshot inputs before the request leaves
	payload := map[string]any{}
	var req request
	if entry.Searchable && l.inputs != nil {
		req.searchTerm = l.inputs.SearchTerm(id)
		payload["searchTerm"] = req.searchTerm
	}
	if entry.Paged && l.inputs != nil {
		req.page = l.inputs.Page(id)
		payload["page"] = req.page
	}
	if entry.FetchAll {
		payload["fetchAll"] = true
	}

	resp, err := l.sender.Send(ctx, entry.Action, payload)
	if err != nil {
		l.notify.Failure(err.Error())
		return
	}
	if !resp.OK() {
		if resp.Message != "" {
			l.notify.Failure(resp.Message)
		}
		return
	}

	ev, err := entry.decode(resp, entry.ResponseKey, req)
	if err != nil {
		var mismatch *transport.ContractMismatchError
		if errors.As(err, &mismatch) {
			l.notify.Failure(mismatch.Error())
			return
		}
		l.logger.Error("Failed to decode pane data",
			zap.String("pane", id.String()),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		l.notify.Failure(msgMalformed)
		return
	}
	l.sink.Publish(ev)
}
