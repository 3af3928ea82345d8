package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	original := logrus.StandardLogger().Out
	buf := &bytes.Buffer{}
	logrus.SetOutput(buf)
	t.Cleanup(func() { logrus.SetOutput(original) })
	return buf
}

func TestWithFields_DevelopmentKeepsRelevantFields(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	SetupTestLogger()
	buf := captureOutput(t)

	L.WithFields(Fields{
		"dataset":    "videogames",
		"user_agent": "curl",
		"noise":      "x",
	}).Info("mensagem")

	out := buf.String()
	assert.Contains(t, out, "dataset=videogames")
	assert.Contains(t, out, "user_agent=curl")
	assert.NotContains(t, out, "noise")
}

func TestWithField_ProductionKeepsEverything(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	SetupLogger("info")
	buf := captureOutput(t)

	L.WithField("noise", "x").Info("mensagem")

	assert.Contains(t, buf.String(), `"noise":"x"`)
}

func TestForContext_CorrelationID(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	SetupLogger("debug")
	buf := captureOutput(t)

	ctx, id := WithCorrelationID(context.Background())
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))

	ForContext(ctx).Info("mensagem")
	assert.Contains(t, buf.String(), id)
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	SetupLogger("verboso")

	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
