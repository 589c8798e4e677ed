package internaldefs

import (
	"github.com/MrEthical07/taskauth"
)

// Series is one engine counter inside a family. Value is the label value,
// empty for unlabelled families.
type Series struct {
	ID    taskauth.MetricID
	Value string
}

// CounterFamily groups engine counters that differ only by one label.
// Prometheus exposes Name+"_total"; OTel uses OTelName with Label as the
// attribute key.
type CounterFamily struct {
	Name     string
	OTelName string
	Help     string
	Label    string
	Series   []Series
}

// HistogramDef names one engine histogram for export.
type HistogramDef struct {
	ID       taskauth.MetricID
	Name     string
	OTelName string
	Help     string
}

// CounterFamilies lists every exported counter in output order.
var CounterFamilies = []CounterFamily{
	{
		Name: "taskauth_signups", OTelName: "taskauth.signups", Label: "result",
		Help: "Signup attempts by result.",
		Series: []Series{
			{ID: taskauth.MetricSignupSuccess, Value: "success"},
			{ID: taskauth.MetricSignupFailure, Value: "failure"},
		},
	},
	{
		Name: "taskauth_logins", OTelName: "taskauth.logins", Label: "result",
		Help: "Login attempts by result.",
		Series: []Series{
			{ID: taskauth.MetricLoginSuccess, Value: "success"},
			{ID: taskauth.MetricLoginFailure, Value: "failure"},
		},
	},
	{
		Name: "taskauth_sessions", OTelName: "taskauth.sessions", Label: "event",
		Help: "Session record changes by event.",
		Series: []Series{
			{ID: taskauth.MetricSessionCreated, Value: "created"},
			{ID: taskauth.MetricSessionReplaced, Value: "replaced"},
			{ID: taskauth.MetricSessionIssueFailure, Value: "issue_failure"},
			{ID: taskauth.MetricSessionRevoked, Value: "revoked"},
		},
	},
	{
		Name: "taskauth_session_resolves", OTelName: "taskauth.session.resolves", Label: "result",
		Help: "Presented session tokens by resolution result.",
		Series: []Series{
			{ID: taskauth.MetricSessionResolved, Value: "resolved"},
			{ID: taskauth.MetricSessionRejected, Value: "rejected"},
		},
	},
	{
		Name: "taskauth_logouts", OTelName: "taskauth.logouts",
		Help:   "Logout operations.",
		Series: []Series{{ID: taskauth.MetricLogout}},
	},
	{
		Name: "taskauth_store_unavailable", OTelName: "taskauth.store.unavailable",
		Help:   "Store calls that failed for connectivity.",
		Series: []Series{{ID: taskauth.MetricStoreUnavailable}},
	},
	{
		Name: "taskauth_password_rehashes", OTelName: "taskauth.password.rehashes",
		Help:   "Digests upgraded to the configured cost on login.",
		Series: []Series{{ID: taskauth.MetricPasswordRehashed}},
	},
}

// AuditDropped is exported next to the engine counters.
var AuditDropped = CounterFamily{
	Name:     "taskauth_audit_dropped",
	OTelName: "taskauth.audit.dropped",
	Help:     "Audit events dropped under dispatcher backpressure.",
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{
		ID:       taskauth.MetricResolveLatency,
		Name:     "taskauth_resolve_latency_seconds",
		OTelName: "taskauth.resolve.latency",
		Help:     "ResolveSession latency.",
	},
}

// HistogramBounds are the upper bounds of the eight buckets, formatted as
// Prometheus "le" label values.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array, zero-filling
// missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
