// Package metrics exposes Prometheus instrumentation for the console
// pipeline and the supervised process.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConsoleLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "craftdeck_console_lines_total",
		Help: "Console lines kept after filtering, by severity.",
	}, []string{"severity"})

	FilteredLines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftdeck_console_lines_filtered_total",
		Help: "Console lines dropped by the noise filter.",
	})

	Flushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftdeck_console_flushes_total",
		Help: "Console batches delivered to subscribers.",
	})

	CommandsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftdeck_commands_sent_total",
		Help: "Operator commands written to the server's stdin.",
	})

	ServerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "craftdeck_server_state",
		Help: "Supervisor state (0=no_process 1=starting 2=running 3=stopping 4=stopped).",
	})
)
