package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("info"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("trace"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("nonsense"))
}

func TestCombinedWriter(t *testing.T) {
	var a, b bytes.Buffer
	cw := NewCombinedWriter(&a, &b)

	n, err := cw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello", b.String())

	errA, errB := errors.New("a failed"), errors.New("b failed")
	cw = NewCombinedWriter(failingWriter{errA}, &a, failingWriter{errB})
	_, err = cw.Write([]byte("x"))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestSetupWritesToFileAndConsole(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetLevel(logrus.InfoLevel)

	var console bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "ftracker")
	Setup(LoggerSetupParams{
		LogFileName: logPath,
		LogToStdout: true,
		LogLevel:    "info",
		Stdout:      &console,
	})

	logrus.Info("batch finished")
	assert.Contains(t, console.String(), "batch finished")

	data, err := os.ReadFile(logPath + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "batch finished")
}

func TestSetupConsoleOnlyJSON(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	var console bytes.Buffer
	Setup(LoggerSetupParams{LogLevel: "debug", LogFormatJSON: true, Stdout: &console})

	logrus.WithField("code", "RUN").Debug("computed")
	assert.Contains(t, console.String(), `"code":"RUN"`)
	assert.Contains(t, console.String(), `"msg":"computed"`)
}
