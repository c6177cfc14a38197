// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	assert.Equal(t, "value", ParseString("TEST_STR", "fallback"))
	assert.Equal(t, "fallback", ParseString("TEST_STR_MISSING", "fallback"))

	t.Setenv("TEST_STR_EMPTY", "")
	assert.Equal(t, "fallback", ParseString("TEST_STR_EMPTY", "fallback"))
}

func TestParseInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, ParseInt("TEST_INT", 7))

	t.Setenv("TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 7, ParseInt("TEST_INT_BAD", 7))
	assert.Equal(t, 7, ParseInt("TEST_INT_MISSING", 7))
}

func TestParseBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, ParseBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL_BAD", "maybe")
	assert.True(t, ParseBool("TEST_BOOL_BAD", true))
}

func TestParseDuration(t *testing.T) {
	t.Setenv("TEST_DUR", "5s")
	assert.Equal(t, 5*time.Second, ParseDuration("TEST_DUR", time.Minute))

	t.Setenv("TEST_DUR_BAD", "fast")
	assert.Equal(t, time.Minute, ParseDuration("TEST_DUR_BAD", time.Minute))
}

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "What is your name?", cfg.MenuTitle)
	assert.Equal(t, "Jacob", cfg.MenuDefaultText)
	assert.True(t, cfg.MenuStrip)
	assert.False(t, cfg.TracingEnabled)
}
