// Package status exposes the assistant's health and counters over HTTP in
// Prometheus format.
package status

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts the assistant's interaction events. It satisfies
// application.Stats.
type Metrics struct {
	registry *prometheus.Registry

	wakeDetections    prometheus.Counter
	commandsProcessed prometheus.Counter
	chatFailures      prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		wakeDetections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assistant_wake_detections_total",
			Help: "Number of wake word detections.",
		}),
		commandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assistant_commands_processed_total",
			Help: "Number of transcribed commands handled.",
		}),
		chatFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assistant_chat_failures_total",
			Help: "Number of failed language model calls.",
		}),
	}

	m.registry.MustRegister(m.wakeDetections, m.commandsProcessed, m.chatFailures)
	return m
}

func (m *Metrics) WakeDetected()     { m.wakeDetections.Inc() }
func (m *Metrics) CommandProcessed() { m.commandsProcessed.Inc() }
func (m *Metrics) ChatFailed()       { m.chatFailures.Inc() }

// Registry returns the metrics registry for serving.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
