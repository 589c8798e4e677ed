package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Event is one audit record. Error carries a stable code, never a raw
// driver message.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// keyvals flattens e into logr key/value pairs, skipping empty identifiers.
func (e Event) keyvals() []interface{} {
	kv := make([]interface{}, 0, 12+2*len(e.Metadata))
	kv = append(kv, "event", e.EventType, "success", e.Success, "timestamp", e.Timestamp)
	for _, f := range [...]struct{ key, val string }{
		{"userID", e.UserID},
		{"sessionID", e.SessionID},
		{"ip", e.IP},
		{"code", e.Error},
	} {
		if f.val != "" {
			kv = append(kv, f.key, f.val)
		}
	}
	for k, v := range e.Metadata {
		kv = append(kv, k, v)
	}
	return kv
}

// Sink receives events from the Dispatcher goroutine.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink discards events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink hands events to a consumer reading Events.
type ChannelSink struct {
	ch chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, max(buffer, 1))}
}

// Emit blocks until the consumer has room or ctx ends.
func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.ch <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event { return s.ch }

// JSONWriterSink encodes each event as one JSON line on w.
type JSONWriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	if w == nil {
		return &JSONWriterSink{}
	}
	return &JSONWriterSink{enc: json.NewEncoder(w)}
}

func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
	if s == nil || s.enc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(event)
}

// LogSink writes every event as an Info line at V(0) under the "audit"
// logger name. Failures use the message "audit failure" and carry their
// stable code under "code".
type LogSink struct {
	log logr.Logger
}

func NewLogSink(log logr.Logger) *LogSink {
	return &LogSink{log: log.WithName("audit")}
}

func (s *LogSink) Emit(_ context.Context, event Event) {
	if s == nil {
		return
	}
	msg := "audit event"
	if !event.Success {
		msg = "audit failure"
	}
	s.log.Info(msg, event.keyvals()...)
}
