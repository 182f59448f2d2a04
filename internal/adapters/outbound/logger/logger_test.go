package logger_test

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/openkraft/docsync/internal/adapters/outbound/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, hclog.Debug, logger.ParseLevel("debug"))
	assert.Equal(t, hclog.Error, logger.ParseLevel("ERROR"))
	assert.Equal(t, hclog.Warn, logger.ParseLevel(""))
	assert.Equal(t, hclog.Warn, logger.ParseLevel("chatty"))
}

func TestNewWithOutput_FiltersByLevel(t *testing.T) {
	t.Setenv(logger.EnvLevel, "")
	var buf bytes.Buffer
	log := logger.NewWithOutput("docsync", "warn", &buf)

	log.Debug("hidden")
	log.Warn("document not parsed", "path", "broken.adoc")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "docsync: document not parsed")
	assert.Contains(t, out, "path=broken.adoc")
}

func TestNewWithOutput_EnvOverride(t *testing.T) {
	t.Setenv(logger.EnvLevel, "debug")
	var buf bytes.Buffer
	log := logger.NewWithOutput("docsync", "error", &buf)

	log.Debug("mapped code file")
	assert.Contains(t, buf.String(), "mapped code file")
}
