package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"ix-simulation/internal/runner"

	"github.com/spf13/cobra"
)

// exitTimeout matches coreutils timeout(1).
const exitTimeout = 124

const (
	defaultTestTimeout = 60 * time.Second
	maxTestTimeout     = 7 * 24 * time.Hour
)

var (
	interpreter string
	gracePeriod time.Duration
)

var runTestCmd = &cobra.Command{
	Use:   "run-test FILE [TIMEOUT_SECONDS]",
	Short: "Run a test script under a timeout, streaming its output",
	Long: `Launches FILE (through --interpreter when set), streams its combined
stdout/stderr line by line and exits with its exit code. When the timeout
elapses the process group gets SIGTERM, then SIGKILL after the grace
period, and the command exits 124.`,
	Example: `  ixsim run-test tests/test_capacity.py 120 --interpreter "python3 -m pytest -x"`,
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runRunTest,
}

func init() {
	runTestCmd.Flags().StringVar(&interpreter, "interpreter", "", "interpreter command line prefixed to FILE (split on spaces)")
	runTestCmd.Flags().DurationVar(&gracePeriod, "grace", runner.DefaultGracePeriod, "wait between SIGTERM and SIGKILL")
}

func runRunTest(cmd *cobra.Command, args []string) error {
	timeout, err := parseTimeout(args)
	if err != nil {
		return err
	}
	if _, err := os.Stat(args[0]); err != nil {
		return err
	}

	c := runner.ForFile(strings.Fields(interpreter), args[0], timeout)
	c.GracePeriod = gracePeriod

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(cmd.ErrOrStderr(), "running %s (timeout %s)\n", args[0], timeout)
	res, err := runner.Run(ctx, c, out)
	switch {
	case errors.Is(err, runner.ErrTimeout):
		fmt.Fprintf(cmd.ErrOrStderr(), "TIMEOUT: %s did not finish within %s, terminated\n", args[0], timeout)
		return &exitError{code: exitTimeout}
	case errors.Is(err, runner.ErrCanceled):
		return &exitError{code: 130, err: err}
	case err != nil:
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exit code %d after %s (%d lines)\n", res.ExitCode, res.Duration.Round(time.Millisecond), res.Lines)
	if res.ExitCode != 0 {
		code := res.ExitCode
		if code < 0 {
			code = 1
		}
		return &exitError{code: code}
	}
	return nil
}

func parseTimeout(args []string) (time.Duration, error) {
	if len(args) < 2 {
		return defaultTestTimeout, nil
	}
	secs, err := strconv.ParseFloat(args[1], 64)
	// !(secs > 0) also catches NaN
	if err != nil || !(secs > 0) {
		return 0, fmt.Errorf("timeout must be a positive number of seconds, got %q", args[1])
	}
	if secs > maxTestTimeout.Seconds() {
		return 0, fmt.Errorf("timeout %q exceeds the maximum of %s", args[1], maxTestTimeout)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
