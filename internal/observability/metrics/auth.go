// Package metrics collects and exposes Prometheus metrics for the
// authentication gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Login outcome labels recorded by the collector.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeCaptchaRequired    = "captcha_required"
	OutcomeValidation         = "validation"
	OutcomeUnavailable        = "unavailable"
)

// Recorder is the metrics interface consumed by the service layer.
type Recorder interface {
	RecordLogin(outcome string)
	RecordCaptchaChallenge()
	RecordDirectoryLatency(d time.Duration)
}

// Collector implements Recorder over Prometheus metrics.
type Collector struct {
	logins            *prometheus.CounterVec
	captchaChallenges prometheus.Counter
	directoryLatency  prometheus.Histogram
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biportal_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		captchaChallenges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "biportal_captcha_challenges_total",
			Help: "Login attempts that were gated behind a CAPTCHA.",
		}),
		directoryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "biportal_directory_auth_seconds",
			Help:    "Directory bind and search latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(c.logins, c.captchaChallenges, c.directoryLatency)
	}
	return c
}

// RecordLogin counts one login attempt with its outcome.
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordCaptchaChallenge counts one CAPTCHA-gated attempt.
func (c *Collector) RecordCaptchaChallenge() {
	c.captchaChallenges.Inc()
}

// RecordDirectoryLatency observes one directory authentication round trip.
func (c *Collector) RecordDirectoryLatency(d time.Duration) {
	c.directoryLatency.Observe(d.Seconds())
}

// Nop is a Recorder that discards everything, for wiring without metrics.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordLogin(string)                   {}
func (Nop) RecordCaptchaChallenge()              {}
func (Nop) RecordDirectoryLatency(time.Duration) {}
