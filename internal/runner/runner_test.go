package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestRunStreamsOutputAndExitCode(t *testing.T) {
	script := writeScript(t, "echo one\necho two 1>&2\necho three\nexit 3")

	var out bytes.Buffer
	res, err := Run(context.Background(), ForFile([]string{"sh"}, script, 10*time.Second), &out)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.Equal(t, 3, res.Lines)
	for _, want := range []string{"one", "two", "three"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestRunSuccess(t *testing.T) {
	res, err := Run(context.Background(), Command{Binary: "sh", Args: []string{"-c", "echo ok"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.GreaterOrEqual(t, res.Duration, time.Duration(0))
}

func TestRunTimeoutTerminatesChild(t *testing.T) {
	script := writeScript(t, "echo started\nsleep 30\necho never")

	var out bytes.Buffer
	start := time.Now()
	res, err := Run(context.Background(), Command{
		Binary:      "sh",
		Args:        []string{script},
		Timeout:     200 * time.Millisecond,
		GracePeriod: 200 * time.Millisecond,
	}, &out)
	require.ErrorIs(t, err, ErrTimeout)
	assert.True(t, res.TimedOut)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Contains(t, out.String(), "started")
	assert.NotContains(t, out.String(), "never")
}

func TestRunTimeoutEscalatesToKill(t *testing.T) {
	script := writeScript(t, "trap '' TERM\nwhile true; do sleep 0.05; done")

	res, err := Run(context.Background(), Command{
		Binary:      "sh",
		Args:        []string{script},
		Timeout:     100 * time.Millisecond,
		GracePeriod: 100 * time.Millisecond,
	}, nil)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, -1, res.ExitCode)
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := Run(ctx, Command{Binary: "sleep", Args: []string{"30"}, GracePeriod: 100 * time.Millisecond}, nil)
	require.ErrorIs(t, err, ErrCanceled)
	assert.False(t, res.TimedOut)
}

func TestRunStdinAndEnv(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "cat; echo $IX_MARK"},
		Env:    []string{"IX_MARK=marked"},
		Stdin:  strings.NewReader("from-stdin\n"),
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "from-stdin\nmarked\n", out.String())
}

func TestRunLongLine(t *testing.T) {
	// a 2 MB line, well past bufio.Scanner limits, then a short one
	script := writeScript(t, "head -c 2000000 /dev/zero | tr '\\0' x\necho\necho done")

	var out bytes.Buffer
	start := time.Now()
	res, err := Run(context.Background(), Command{
		Binary:  "sh",
		Args:    []string{script},
		Timeout: 10 * time.Second,
	}, &out)
	require.NoError(t, err)
	assert.False(t, res.TimedOut)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, 2, res.Lines)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, strings.Repeat("x", 2000000)+"\ndone\n", out.String())
}

func TestRunSeparateStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	res, err := Run(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "echo result; echo warning 1>&2; printf partial"},
		Stderr: &errOut,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Lines)
	assert.Equal(t, "result\npartial\n", out.String())
	assert.Equal(t, "warning\n", errOut.String())
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), Command{}, nil)
	assert.ErrorIs(t, err, ErrNoBinary)

	_, err = Run(context.Background(), Command{Binary: filepath.Join(t.TempDir(), "missing")}, nil)
	assert.Error(t, err)
}

func TestForFile(t *testing.T) {
	c := ForFile(nil, "/tmp/x.sh", time.Second)
	assert.Equal(t, "/tmp/x.sh", c.Binary)
	assert.Empty(t, c.Args)

	c = ForFile([]string{"python3", "-u"}, "check.py", 0)
	assert.Equal(t, "python3", c.Binary)
	assert.Equal(t, []string{"-u", "check.py"}, c.Args)
}
