// Package metrics exposes Prometheus counters for tool usage.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the services report to. Collector implements it and
// Nop is used when metrics are disabled.
type Recorder interface {
	PasswordGenerated(label string, secure bool)
	StrengthEvaluated(label string)
	QRGenerated(size int)
	Converted(kind, direction, outcome string, bytes int)
	HTTPStatus(code int)
}

// Collector records tool usage with Prometheus.
type Collector struct {
	passwords      *prometheus.CounterVec
	insecure       prometheus.Counter
	strength       *prometheus.CounterVec
	qrCodes        prometheus.Counter
	qrSize         prometheus.Histogram
	conversions    *prometheus.CounterVec
	convertedBytes *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		passwords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toolbox_passwords_generated_total",
			Help: "Passwords generated, by strength label.",
		}, []string{"strength"}),
		insecure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toolbox_passwords_insecure_total",
			Help: "Passwords generated from the non-cryptographic random source.",
		}),
		strength: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toolbox_strength_evaluations_total",
			Help: "Strength evaluations of caller-supplied passwords, by label.",
		}, []string{"strength"}),
		qrCodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toolbox_qr_generated_total",
			Help: "QR codes rendered.",
		}),
		qrSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "toolbox_qr_size_pixels",
			Help:    "Requested QR code edge size in pixels.",
			Buckets: []float64{128, 256, 384, 512, 768, 1024},
		}),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toolbox_conversions_total",
			Help: "Base64 conversions, by document kind, direction and outcome.",
		}, []string{"kind", "direction", "outcome"}),
		convertedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toolbox_converted_bytes_total",
			Help: "Document bytes converted, by kind and direction.",
		}, []string{"kind", "direction"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toolbox_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.passwords,
		c.insecure,
		c.strength,
		c.qrCodes,
		c.qrSize,
		c.conversions,
		c.convertedBytes,
		c.httpStatus,
	)

	return c
}

func (c *Collector) PasswordGenerated(label string, secure bool) {
	c.passwords.WithLabelValues(label).Inc()
	if !secure {
		c.insecure.Inc()
	}
}

func (c *Collector) StrengthEvaluated(label string) {
	c.strength.WithLabelValues(label).Inc()
}

func (c *Collector) QRGenerated(size int) {
	c.qrCodes.Inc()
	c.qrSize.Observe(float64(size))
}

func (c *Collector) Converted(kind, direction, outcome string, bytes int) {
	c.conversions.WithLabelValues(kind, direction, outcome).Inc()
	if bytes > 0 {
		c.convertedBytes.WithLabelValues(kind, direction).Add(float64(bytes))
	}
}

func (c *Collector) HTTPStatus(code int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(code)).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) PasswordGenerated(string, bool)        {}
func (Nop) StrengthEvaluated(string)              {}
func (Nop) QRGenerated(int)                       {}
func (Nop) Converted(string, string, string, int) {}
func (Nop) HTTPStatus(int)                        {}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
