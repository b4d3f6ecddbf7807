package stream

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/verdict"
)

// VerdictMessage is the published form of one frame's verdict.
type VerdictMessage struct {
	Session    string           `json:"session,omitempty"`
	Device     string           `json:"device"`
	Seq        int64            `json:"seq"`
	Model      string           `json:"model"`
	Label      string           `json:"label,omitempty"`
	Text       string           `json:"text"`
	Severity   verdict.Severity `json:"severity"`
	Correct    bool             `json:"correct"`
	Confidence *float64         `json:"confidence,omitempty"`
	Check      string           `json:"check,omitempty"`
	Error      string           `json:"error,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// NewVerdictMessage builds the message for a classification result. A
// nil result with err reports the failure.
func NewVerdictMessage(session, device string, seq int64, res *classifier.Result, err error) VerdictMessage {
	msg := VerdictMessage{
		Session:   session,
		Device:    device,
		Seq:       seq,
		Timestamp: time.Now().UTC(),
	}
	if res != nil {
		msg.Model = res.Model
		msg.Label = res.Label
		msg.Text = res.Presentation.Text
		msg.Severity = res.Presentation.Severity
		msg.Correct = res.Presentation.Correct
		msg.Check = res.Check
		if res.HasConfidence {
			c := res.Confidence
			msg.Confidence = &c
		}
	}
	if err != nil {
		msg.Error = err.Error()
		msg.Severity = verdict.SeverityNeutral
	}
	return msg
}

// Publisher sends verdicts to a per-device topic.
type Publisher struct {
	client mqtt.Client
	topic  string // e.g. "formcheck/{device}/verdict"
}

// NewPublisher creates a publisher for the topic pattern.
func NewPublisher(client mqtt.Client, topicPattern string) *Publisher {
	return &Publisher{client: client, topic: topicPattern}
}

// PublishVerdict publishes msg to the device's verdict topic.
func (p *Publisher) PublishVerdict(msg VerdictMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal verdict: %w", err)
	}

	topic := FormatTopic(p.topic, msg.Device)
	token := p.client.Publish(topic, 0, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish verdict to %s: %w", topic, token.Error())
	}
	return nil
}

// FormatTopic replaces the {device} placeholder with the device id.
func FormatTopic(pattern, device string) string {
	return strings.ReplaceAll(pattern, "{device}", device)
}
