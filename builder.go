package taskauth

import (
	"errors"
	"time"

	internalaudit "github.com/MrEthical07/taskauth/internal/audit"
	"github.com/MrEthical07/taskauth/jwt"
	"github.com/MrEthical07/taskauth/password"
	"github.com/MrEthical07/taskauth/session"
	"github.com/MrEthical07/taskauth/user"
	"github.com/go-logr/logr"
	"github.com/redis/go-redis/v9"
)

// dummyPassword is hashed once per Engine so that Login with an unknown email
// still pays one bcrypt comparison.
const dummyPassword = "taskauth-login-timing-equalizer"

// Builder assembles an [Engine]. Configure it during initialization, call
// Build once, and discard it.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	sessions session.Store
	users    user.Store

	log       logr.Logger
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
		log:    logr.Discard(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis backs sessions and users with Redis unless explicit stores are
// supplied.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSessionStore overrides the session store.
func (b *Builder) WithSessionStore(s session.Store) *Builder {
	b.sessions = s
	return b
}

// WithUserStore overrides the user store.
func (b *Builder) WithUserStore(s user.Store) *Builder {
	b.users = s
	return b
}

// WithLogger sets the engine logger. The default discards everything.
func (b *Builder) WithLogger(log logr.Logger) *Builder {
	b.log = log
	return b
}

// WithAuditSink sets the audit destination and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the ResolveSession latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns an immutable Engine. A
// Builder can be built once.
//
//	Performance: computes one bcrypt digest at the configured cost.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sessions := b.sessions
	users := b.users
	if b.redis != nil {
		if sessions == nil {
			sessions = session.NewRedisStore(b.redis, cfg.Session.RedisPrefix)
		}
		if users == nil {
			users = user.NewRedisStore(b.redis, cfg.Store.UserRedisPrefix)
		}
	}
	if sessions == nil {
		return nil, errors.New("session store required: use WithRedis or WithSessionStore")
	}
	if users == nil {
		return nil, errors.New("user store required: use WithRedis or WithUserStore")
	}

	engine := &Engine{
		config:   cfg,
		sessions: sessions,
		users:    users,
		log:      b.log.WithName("taskauth"),
		now:      time.Now,
	}

	ph, err := password.NewBcrypt(password.Config{Cost: cfg.Password.Cost})
	if err != nil {
		return nil, err
	}
	engine.hasher = ph

	dummy, err := ph.Hash(dummyPassword)
	if err != nil {
		return nil, err
	}
	engine.dummyDigest = dummy

	jm, err := jwt.NewManager(jwt.Config{
		Secret:   cloneBytes(cfg.JWT.Secret),
		Lifetime: cfg.Session.Lifetime,
		Issuer:   cfg.JWT.Issuer,
		Leeway:   cfg.JWT.Leeway,
		Now:      func() time.Time { return engine.now() },
	})
	if err != nil {
		return nil, err
	}
	engine.tokens = jm

	engine.metrics = NewMetrics(cfg.Metrics)
	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true

	return engine, nil
}
