package stubapi

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Event topics published after report mutations.
const (
	TopicReportSubmitted = "reports/submitted"
	TopicReportsArchived = "reports/archived"
)

// Notifier announces report changes to interested listeners.
type Notifier interface {
	Notify(ctx context.Context, topic string, payload any)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, any) {}

// Publisher is satisfied by common/mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTNotifier publishes events as JSON. Publish failures are logged and
// never fail the action that triggered them.
type MQTTNotifier struct {
	pub    Publisher
	logger *zap.Logger
}

func NewMQTTNotifier(pub Publisher, logger *zap.Logger) *MQTTNotifier {
	return &MQTTNotifier{pub: pub, logger: logger}
}

func (n *MQTTNotifier) Notify(_ context.Context, topic string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		n.logger.Warn("Failed to encode event", zap.String("topic", topic), zap.Error(err))
		return
	}
	if err := n.pub.Publish(topic, b); err != nil {
		n.logger.Warn("Failed to publish event", zap.String("topic", topic), zap.Error(err))
	}
}
