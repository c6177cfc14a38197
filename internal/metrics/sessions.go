// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for the menu engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "anvilmenu_sessions_open",
		Help: "Number of dialog sessions currently open across all factories",
	})

	sessionsOpenedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anvilmenu_sessions_opened_total",
		Help: "Total number of dialog sessions opened",
	})

	sessionsTerminatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anvilmenu_sessions_terminated_total",
		Help: "Total number of dialog sessions terminated by close reason",
	}, []string{"reason"}) // reason=click|client_close|server_close|disconnect|silent

	callbackErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anvilmenu_callback_errors_total",
		Help: "Total number of response-callback failures recovered by the engine",
	})

	callbackDirectivesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anvilmenu_callback_directives_total",
		Help: "Directives returned by response callbacks",
	}, []string{"directive"}) // directive=close|reopen|reopen_with_text

	textEditsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anvilmenu_text_edits_total",
		Help: "Total number of wire text-edit notifications captured for open sessions",
	})

	dispatchQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "anvilmenu_dispatch_queue_depth",
		Help: "Work items queued for the designated application goroutine",
	})
)

// SessionOpened records a successful open and bumps the open gauge.
func SessionOpened() {
	sessionsOpenedTotal.Inc()
	sessionsOpen.Inc()
}

// SessionReplaced records an open that displaced an existing entry: the
// open gauge stays level because one session ended as another began.
func SessionReplaced() {
	sessionsOpenedTotal.Inc()
}

// SessionTerminated records a terminated session by reason.
func SessionTerminated(reason string) {
	sessionsTerminatedTotal.WithLabelValues(reason).Inc()
	sessionsOpen.Dec()
}

// CallbackError counts a recovered response-callback failure.
func CallbackError() {
	callbackErrorsTotal.Inc()
}

// CallbackDirective counts the directive a response callback returned.
func CallbackDirective(directive string) {
	callbackDirectivesTotal.WithLabelValues(directive).Inc()
}

// TextEdit counts a captured wire text-edit for an open session.
func TextEdit() {
	textEditsTotal.Inc()
}

// SetDispatchQueueDepth reports the dispatcher's current backlog.
func SetDispatchQueueDepth(n int) {
	dispatchQueueDepth.Set(float64(n))
}
