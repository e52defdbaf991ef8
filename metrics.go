package ticketauth

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint8

const (
	MetricRegisterSuccess MetricID = iota
	MetricRegisterConflict
	MetricLoginSuccess
	MetricLoginFailure
	MetricLoginRateLimited
	MetricFederatedLoginSuccess
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricPasswordChangeSuccess
	MetricPasswordChangeFailure
	MetricForgotPasswordRequests
	MetricAuthzAllowed
	MetricAuthzDenied

	metricCount
)

var metricNames = map[MetricID]string{
	MetricRegisterSuccess:        "register_success",
	MetricRegisterConflict:       "register_conflict",
	MetricLoginSuccess:           "login_success",
	MetricLoginFailure:           "login_failure",
	MetricLoginRateLimited:       "login_rate_limited",
	MetricFederatedLoginSuccess:  "federated_login_success",
	MetricRefreshSuccess:         "refresh_success",
	MetricRefreshFailure:         "refresh_failure",
	MetricPasswordChangeSuccess:  "password_change_success",
	MetricPasswordChangeFailure:  "password_change_failure",
	MetricForgotPasswordRequests: "forgot_password_requests",
	MetricAuthzAllowed:           "authz_allowed",
	MetricAuthzDenied:            "authz_denied",
}

// String returns the stable export name of the counter.
func (id MetricID) String() string {
	if name, ok := metricNames[id]; ok {
		return name
	}
	return "unknown"
}

// Metrics is an allocation-free counter registry. Inc is a single atomic add.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{}
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snapshot := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricCount),
	}
	if m == nil {
		return snapshot
	}
	for id := MetricID(0); id < metricCount; id++ {
		snapshot.Counters[id] = m.counters[id].Load()
	}
	return snapshot
}
