package simlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_WritesFormattedLine(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetWriter(nil)

	Info("simulation started, seed=%d", int64(42))

	line := buf.String()
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "simulation started, seed=42")
}

func TestSetLevel_SuppressesBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	SetLevel(WarnLevel)
	defer func() {
		SetWriter(nil)
		SetLevel(InfoLevel)
	}()

	Debug("should not appear")
	Info("should not appear either")
	Warn("this one should appear")

	assert.False(t, strings.Contains(buf.String(), "should not appear"))
	assert.Contains(t, buf.String(), "this one should appear")
}

func TestSetWriter_Nil_FallsBackSilently(t *testing.T) {
	assert.NotPanics(t, func() {
		SetWriter(nil)
		Warn("noop")
	})
}
