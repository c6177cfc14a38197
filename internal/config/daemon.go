// SPDX-License-Identifier: MIT

package config

import "time"

// Daemon aggregates the demo daemon's settings, all sourced from ANVILD_*
// environment variables.
type Daemon struct {
	Listen          string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Menu template served by the daemon.
	MenuTitle       string
	MenuDefaultText string
	MenuStrip       bool

	// Admin API rate limiting (requests per window, per IP).
	RateLimit       int
	RateLimitWindow time.Duration

	// Tracing.
	TracingEnabled  bool
	TracingExporter string
	TracingEndpoint string
	TracingSampling float64
}

// FromEnv builds the daemon configuration from the environment.
func FromEnv() Daemon {
	return Daemon{
		Listen:          ParseString("ANVILD_LISTEN", ":8080"),
		LogLevel:        ParseString("ANVILD_LOG_LEVEL", "info"),
		ShutdownTimeout: ParseDuration("ANVILD_SHUTDOWN_TIMEOUT", 10*time.Second),

		MenuTitle:       ParseString("ANVILD_MENU_TITLE", "What is your name?"),
		MenuDefaultText: ParseString("ANVILD_MENU_TEXT", "Jacob"),
		MenuStrip:       ParseBool("ANVILD_MENU_STRIP", true),

		RateLimit:       ParseInt("ANVILD_RATE_LIMIT", 600),
		RateLimitWindow: ParseDuration("ANVILD_RATE_LIMIT_WINDOW", time.Minute),

		TracingEnabled:  ParseBool("ANVILD_TRACING_ENABLED", false),
		TracingExporter: ParseString("ANVILD_TRACING_EXPORTER", "grpc"),
		TracingEndpoint: ParseString("ANVILD_TRACING_ENDPOINT", "localhost:4317"),
		TracingSampling: ParseFloat("ANVILD_TRACING_SAMPLING", 1.0),
	}
}
