package taskauth

import internalmetrics "github.com/MrEthical07/taskauth/internal/metrics"

// MetricID identifies one engine counter or histogram.
type MetricID = internalmetrics.MetricID

const (
	// MetricSignupSuccess counts signups that ended with an issued session.
	MetricSignupSuccess = internalmetrics.MetricSignupSuccess
	// MetricSignupFailure counts rejected or failed signups.
	MetricSignupFailure = internalmetrics.MetricSignupFailure
	// MetricLoginSuccess counts logins that ended with an issued session.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure counts rejected or failed logins.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricSessionCreated counts first sessions for a user.
	MetricSessionCreated = internalmetrics.MetricSessionCreated
	// MetricSessionReplaced counts sessions that overwrote an earlier one.
	MetricSessionReplaced = internalmetrics.MetricSessionReplaced
	// MetricSessionIssueFailure counts IssueSession failures.
	MetricSessionIssueFailure = internalmetrics.MetricSessionIssueFailure
	// MetricSessionResolved counts successful ResolveSession calls.
	MetricSessionResolved = internalmetrics.MetricSessionResolved
	// MetricSessionRejected counts presented tokens that did not resolve.
	MetricSessionRejected = internalmetrics.MetricSessionRejected
	// MetricSessionRevoked counts deleted session records.
	MetricSessionRevoked = internalmetrics.MetricSessionRevoked
	// MetricLogout counts Logout calls.
	MetricLogout = internalmetrics.MetricLogout
	// MetricStoreUnavailable counts store calls that failed for connectivity.
	MetricStoreUnavailable = internalmetrics.MetricStoreUnavailable
	// MetricPasswordRehashed counts digests upgraded to the configured cost on login.
	MetricPasswordRehashed = internalmetrics.MetricPasswordRehashed
	// MetricResolveLatency is the ResolveSession latency histogram.
	MetricResolveLatency = internalmetrics.MetricResolveLatency
)

// Metrics holds atomic counters and the optional resolve latency histogram.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance configured by cfg. When Enabled is
// false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
