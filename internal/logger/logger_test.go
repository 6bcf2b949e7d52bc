package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	Init()
	assert.NotNil(t, InfoLogger)
	assert.NotNil(t, ErrorLogger)
	assert.NotNil(t, DebugLogger)
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	InfoLogger = log.New(&buf, "INFO: ", 0)

	Info("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestInfof(t *testing.T) {
	var buf bytes.Buffer
	InfoLogger = log.New(&buf, "INFO: ", 0)

	Infof("registration %d committed", 42)

	assert.Contains(t, buf.String(), "registration 42 committed")
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	ErrorLogger = log.New(&buf, "ERROR: ", 0)

	Error("test error")

	assert.Contains(t, buf.String(), "test error")
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	ErrorLogger = log.New(&buf, "ERROR: ", 0)

	Errorf("failed for member %d", 7)

	assert.Contains(t, buf.String(), "failed for member 7")
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	DebugLogger = log.New(&buf, "DEBUG: ", 0)

	Debugf("step %s done", "trainer_selection")

	assert.Contains(t, buf.String(), "step trainer_selection done")
}
