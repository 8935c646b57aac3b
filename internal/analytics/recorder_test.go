package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/infralens/api/internal/eventbus"
	"github.com/infralens/api/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeWriter struct {
	mu     sync.Mutex
	events []models.AnalyticsEvent
	err    error
	block  chan struct{}
}

func (f *fakeWriter) InsertEvent(ctx context.Context, e models.AnalyticsEvent) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (f *fakePublisher) Append(stream, subject string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, stream+"/"+subject)
	return f.err
}

func sampleEvent() models.AnalyticsEvent {
	cfg := models.RecommendationConfig{
		TaskType:        models.TaskEmbedding,
		GPUMemory:       "8gb",
		InferenceDevice: "cpu-only",
		MaxLatency:      50,
		LicenseType:     "any",
	}
	cfg.ApplyDefaults()
	return models.NewAnalyticsEvent(cfg, models.RecommendationResult{
		Primary:      models.ModelRecommendation{ID: "bge-large"},
		Alternatives: []models.ModelRecommendation{{ID: "e5-large"}, {ID: "gte-small"}},
		Warning:      models.ModelRecommendation{ID: "sentence-bert"},
	}, 12*time.Millisecond)
}

func TestRecordWritesAndPublishes(t *testing.T) {
	w := &fakeWriter{}
	p := &fakePublisher{}
	r := NewRecorder(Config{Writer: w, Publisher: p})

	r.RecordRecommendation(sampleEvent())
	r.RecordClientEvent(sampleEvent())
	r.Close()

	require.Len(t, w.events, 2)
	assert.Equal(t, []string{"e5-large", "gte-small"}, w.events[0].AlternativeModelIDs)
	assert.EqualValues(t, 12, w.events[0].ResponseTimeMs)
	assert.False(t, w.events[0].HadUseCaseDescription)
	assert.ElementsMatch(t, []string{
		eventbus.AnalyticsStream + "/" + eventbus.RecommendationSubject,
		eventbus.AnalyticsStream + "/" + eventbus.ClientEventSubject,
	}, p.subjects)
}

func TestRecordFailuresAreLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	var mu sync.Mutex
	var failed []string

	r := NewRecorder(Config{
		Writer:    &fakeWriter{err: errors.New("relation does not exist")},
		Publisher: &fakePublisher{err: errors.New("no responders")},
		Logger:    zap.New(core),
		OnFailure: func(sink string) {
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, sink)
		},
	})

	r.RecordRecommendation(sampleEvent())
	r.Close()

	assert.Equal(t, []string{"database", "eventbus"}, failed)
	assert.Equal(t, 1, logs.FilterMessage("analytics insert failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("analytics publish failed").Len())
}

func TestRecordDoesNotBlockCaller(t *testing.T) {
	w := &fakeWriter{block: make(chan struct{})}
	r := NewRecorder(Config{Writer: w, Timeout: time.Second})

	done := make(chan struct{})
	go func() {
		r.RecordRecommendation(sampleEvent())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RecordRecommendation blocked on the database write")
	}

	close(w.block)
	r.Close()
	assert.Len(t, w.events, 1)
}

func TestRecordWithoutSinksIsNoop(t *testing.T) {
	r := NewRecorder(Config{})
	r.RecordRecommendation(sampleEvent())
	r.Close()
}
