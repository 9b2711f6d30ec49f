package nats

import (
	"Tombola/services/game"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Publisher is the part of *nats.Conn the feed uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the message published for every notification.
type Envelope struct {
	RoomCode string    `json:"roomCode"`
	Event    string    `json:"event"`
	Audience string    `json:"audience"`
	ConnID   string    `json:"connId,omitempty"`
	Payload  any       `json:"payload"`
	SentAt   time.Time `json:"sentAt"`
}

// EventFeed republishes engine notifications on <prefix>.<room>.<event>.
type EventFeed struct {
	pub    Publisher
	prefix string
	now    func() time.Time
}

func NewEventFeed(pub Publisher, prefix string) *EventFeed {
	if prefix == "" {
		prefix = "tombola"
	}
	return &EventFeed{pub: pub, prefix: prefix, now: time.Now}
}

func (f *EventFeed) Subject(roomCode, event string) string {
	return strings.Join([]string{f.prefix, roomCode, event}, ".")
}

func (f *EventFeed) Publish(_ context.Context, b game.Batch) error {
	var errs []error
	for _, n := range b.Notifications {
		if n.RoomCode == "" {
			continue
		}
		data, err := json.Marshal(Envelope{
			RoomCode: n.RoomCode,
			Event:    n.Event,
			Audience: n.Audience.String(),
			ConnID:   n.ConnID,
			Payload:  n.Payload,
			SentAt:   f.now(),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal %s: %w", n.Event, err))
			continue
		}
		if err := f.pub.Publish(f.Subject(n.RoomCode, n.Event), data); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", n.Event, err))
		}
	}
	return errors.Join(errs...)
}
