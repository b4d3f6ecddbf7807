package stream

import (
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/abhisek/formcheck/internal/pose"
)

// dropAfter is how long a handler waits on a full frame channel before
// dropping the frame. Stale poses are worthless for live feedback.
const dropAfter = 100 * time.Millisecond

// Subscriber decodes pose frames from a topic filter onto a channel.
type Subscriber struct {
	client mqtt.Client
	topic  string

	// Frames receives every decoded frame.
	Frames chan pose.Frame
}

// NewSubscriber creates a subscriber for topic writing to frames.
func NewSubscriber(client mqtt.Client, topic string, frames chan pose.Frame) *Subscriber {
	return &Subscriber{client: client, topic: topic, Frames: frames}
}

// Subscribe starts delivery. Messages arrive on paho's goroutines.
func (s *Subscriber) Subscribe() error {
	token := s.client.Subscribe(s.topic, 0, s.handle)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", s.topic, token.Error())
	}
	log.Printf("MQTT: subscribed to pose topic: %s", s.topic)
	return nil
}

// Unsubscribe stops delivery.
func (s *Subscriber) Unsubscribe() error {
	token := s.client.Unsubscribe(s.topic)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("unsubscribe from %s: %w", s.topic, token.Error())
	}
	return nil
}

func (s *Subscriber) handle(_ mqtt.Client, msg mqtt.Message) {
	frame, err := DecodeFrame(msg.Topic(), msg.Payload())
	if err != nil {
		log.Printf("MQTT: dropping frame from %s: %v", msg.Topic(), err)
		return
	}

	select {
	case s.Frames <- frame:
	case <-time.After(dropAfter):
		log.Printf("MQTT: frame channel full, dropping frame %d from %s", frame.Seq, frame.Device)
	}
}

// DecodeFrame parses a pose frame payload received on topic. A missing
// device id is taken from the topic.
func DecodeFrame(topic string, payload []byte) (pose.Frame, error) {
	frame, err := pose.DecodeFrame(payload)
	if err != nil {
		return pose.Frame{}, err
	}
	if frame.Device == "" {
		frame.Device = DeviceFromTopic(topic)
	}
	return frame, nil
}

// DeviceFromTopic returns the second topic level, e.g.
// "formcheck/phone-1/pose" → "phone-1".
func DeviceFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}
