package eventbus

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Analytics stream layout.
const (
	AnalyticsStream       = "ANALYTICS"
	AnalyticsSubjects     = "analytics.>"
	RecommendationSubject = "analytics.recommendation"
	ClientEventSubject    = "analytics.client"
	defaultReadWait       = 100 * time.Millisecond
)

// EventStore defines the interface for an append-only event log
type EventStore interface {
	Append(stream string, subject string, data any) error
	Read(stream string, subject string, limit int) ([]Event, error)
}

// Event wraps the payload with metadata
type Event struct {
	ID        string          `json:"id"`
	Subject   string          `json:"subject"`
	Sequence  uint64          `json:"sequence"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// JetStreamStore is an EventStore backed by NATS JetStream.
type JetStreamStore struct {
	js nats.JetStreamContext

	mu      sync.Mutex
	streams map[string]bool
	// subjects maps a stream name to the subject filter it is created with.
	subjects map[string][]string
}

// NewJetStreamStore creates a new event store on the initialized JetStream
// context.
func NewJetStreamStore() (*JetStreamStore, error) {
	if JetStream == nil {
		return nil, fmt.Errorf("JetStream context not initialized")
	}
	return NewJetStreamStoreWith(JetStream), nil
}

// NewJetStreamStoreWith creates a store on js.
func NewJetStreamStoreWith(js nats.JetStreamContext) *JetStreamStore {
	return &JetStreamStore{
		js:      js,
		streams: make(map[string]bool),
		subjects: map[string][]string{
			AnalyticsStream: {AnalyticsSubjects},
		},
	}
}

// EnsureStream creates stream if it does not exist yet. Known streams are only
// checked once per process.
func (s *JetStreamStore) EnsureStream(stream string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streams[stream] {
		return nil
	}

	if _, err := s.js.StreamInfo(stream); err == nil {
		s.streams[stream] = true
		return nil
	} else if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("stream info %s: %w", stream, err)
	}

	subjects, ok := s.subjects[stream]
	if !ok {
		return fmt.Errorf("no subjects registered for stream %s", stream)
	}
	if _, err := s.js.AddStream(&nats.StreamConfig{
		Name:      stream,
		Subjects:  subjects,
		Retention: nats.LimitsPolicy,
		MaxAge:    30 * 24 * time.Hour,
	}); err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return fmt.Errorf("add stream %s: %w", stream, err)
	}
	s.streams[stream] = true
	return nil
}

// Append adds an event to the stream
func (s *JetStreamStore) Append(stream string, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := s.EnsureStream(stream); err != nil {
		return err
	}
	_, err = s.js.Publish(subject, payload)
	return err
}

// Read returns the most recent events on subject, at most limit of them when
// limit is positive.
func (s *JetStreamStore) Read(stream string, subject string, limit int) ([]Event, error) {
	sub, err := s.js.SubscribeSync(subject, nats.BindStream(stream), nats.DeliverAll())
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	var events []Event
	for {
		msg, err := sub.NextMsg(defaultReadWait)
		if errors.Is(err, nats.ErrTimeout) {
			break
		}
		if err != nil {
			return events, err
		}

		ev := Event{
			ID:      msg.Header.Get(nats.MsgIdHdr),
			Subject: msg.Subject,
			Data:    json.RawMessage(msg.Data),
		}
		if meta, err := msg.Metadata(); err == nil {
			ev.Sequence = meta.Sequence.Stream
			ev.Timestamp = meta.Timestamp
		}
		events = append(events, ev)
		if limit > 0 && len(events) > limit {
			events = events[1:]
		}
	}
	return events, nil
}
