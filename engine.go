package taskauth

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/MrEthical07/taskauth/internal/audit"
	"github.com/MrEthical07/taskauth/jwt"
	"github.com/MrEthical07/taskauth/password"
	"github.com/MrEthical07/taskauth/session"
	"github.com/MrEthical07/taskauth/store"
	"github.com/MrEthical07/taskauth/user"
	"github.com/go-logr/logr"
)

// Engine runs the session lifecycle and the identity operations. It is safe
// for concurrent use; all fields are read-only after [Builder.Build].
type Engine struct {
	config      Config
	sessions    session.Store
	users       user.Store
	tokens      *jwt.Manager
	hasher      *password.Bcrypt
	dummyDigest string
	log         logr.Logger
	audit       *internalaudit.Dispatcher
	metrics     *Metrics
	now         func() time.Time
}

// Close flushes pending audit events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// CookieConfig returns the session cookie settings for HTTP transports.
func (e *Engine) CookieConfig() CookieConfig {
	if e == nil {
		return DefaultConfig().Cookie
	}
	return e.config.Cookie
}

// SessionLifetime returns the configured session lifetime.
func (e *Engine) SessionLifetime() time.Duration {
	if e == nil {
		return 0
	}
	return e.config.Session.Lifetime
}

func (e *Engine) ready() bool {
	return e != nil && e.tokens != nil && e.sessions != nil && e.users != nil && e.hasher != nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// storeContext bounds one store call by the configured operation timeout.
func (e *Engine) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, e.config.Store.OperationTimeout)
}

// storeFailure logs err and counts it when it is a connectivity failure.
func (e *Engine) storeFailure(err error, msg string, kv ...interface{}) {
	if errors.Is(err, store.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		e.metricInc(MetricStoreUnavailable)
		e.log.Error(err, msg, kv...)
		return
	}
	e.log.V(1).Info(msg, append(kv, "error", err.Error())...)
}
