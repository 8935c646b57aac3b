// Package analytics mirrors served recommendations to the analytics_events
// table and the event stream without delaying the response.
package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/infralens/api/internal/eventbus"
	"github.com/infralens/api/internal/models"
)

const defaultWriteTimeout = 5 * time.Second

// EventWriter persists one analytics event.
type EventWriter interface {
	InsertEvent(ctx context.Context, e models.AnalyticsEvent) error
}

// Publisher appends an event to a stream.
type Publisher interface {
	Append(stream string, subject string, data any) error
}

// Recorder writes events in the background. Failures are logged and counted,
// never returned to the caller.
type Recorder struct {
	writer    EventWriter
	publisher Publisher
	logger    *zap.Logger
	timeout   time.Duration
	onFailure func(sink string)

	wg sync.WaitGroup
}

// Config collects Recorder dependencies. Writer and Publisher are optional.
type Config struct {
	Writer    EventWriter
	Publisher Publisher
	Logger    *zap.Logger
	Timeout   time.Duration
	OnFailure func(sink string)
}

// NewRecorder creates a recorder.
func NewRecorder(cfg Config) *Recorder {
	r := &Recorder{
		writer:    cfg.Writer,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		timeout:   cfg.Timeout,
		onFailure: cfg.OnFailure,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.timeout <= 0 {
		r.timeout = defaultWriteTimeout
	}
	if r.onFailure == nil {
		r.onFailure = func(string) {}
	}
	return r
}

// RecordRecommendation mirrors a served recommendation.
func (r *Recorder) RecordRecommendation(e models.AnalyticsEvent) {
	r.record(e, eventbus.RecommendationSubject)
}

// RecordClientEvent mirrors an event reported by the frontend.
func (r *Recorder) RecordClientEvent(e models.AnalyticsEvent) {
	r.record(e, eventbus.ClientEventSubject)
}

func (r *Recorder) record(e models.AnalyticsEvent, subject string) {
	if r.writer == nil && r.publisher == nil {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if r.writer != nil {
			if err := r.writer.InsertEvent(ctx, e); err != nil {
				r.onFailure("database")
				r.logger.Error("analytics insert failed",
					zap.String("event_id", e.ID.String()),
					zap.Error(err),
				)
			}
		}

		if r.publisher != nil {
			if err := r.publisher.Append(eventbus.AnalyticsStream, subject, e); err != nil {
				r.onFailure("eventbus")
				r.logger.Warn("analytics publish failed",
					zap.String("event_id", e.ID.String()),
					zap.String("subject", subject),
					zap.Error(err),
				)
			}
		}
	}()
}

// Close waits for in-flight writes.
func (r *Recorder) Close() {
	r.wg.Wait()
}
