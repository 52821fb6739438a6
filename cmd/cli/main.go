// Command ixsim runs ion-exchange simulations, the arithmetic hand checks and
// supervised test scripts from the command line.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ix-simulation/internal/engine"
	"ix-simulation/internal/logging"
	"ix-simulation/internal/simulation"

	"github.com/spf13/cobra"
)

var (
	engineName    string
	engineURL     string
	engineCommand string
	engineTimeout time.Duration
	logLevel      string
	logFormat     string
)

var rootCmd = &cobra.Command{
	Use:           "ixsim",
	Short:         "Ion-exchange simulation tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&engineName, "engine", envOr("IX_ENGINE", engine.NameScreening), "simulation engine: "+strings.Join(engine.Names(), ", "))
	pf.StringVar(&engineURL, "engine-url", os.Getenv("IX_ENGINE_URL"), "base URL of the remote engine")
	pf.StringVar(&engineCommand, "engine-cmd", "", "command line of the process engine (split on spaces)")
	pf.DurationVar(&engineTimeout, "engine-timeout", engine.DefaultProcessTimeout, "timeout for process/remote engines")
	pf.StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level")
	pf.StringVar(&logFormat, "log-format", envOr("LOG_FORMAT", "console"), "log format: console or json")

	rootCmd.AddCommand(simulateCmd, verifyCmd, runTestCmd, rankCmd)
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(os.Stderr, "error:", ee.err)
		}
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func newLogger() *logging.Logger {
	return logging.New(logging.Config{Level: logLevel, Format: logFormat, Output: "stderr"})
}

func newDispatcher(log *logging.Logger) (*simulation.Dispatcher, error) {
	e, err := engine.New(engine.Config{
		Name:    engineName,
		Command: strings.Fields(engineCommand),
		Timeout: engineTimeout,
		URL:     engineURL,
		APIKey:  os.Getenv("IX_ENGINE_API_KEY"),
	}, log)
	if err != nil {
		return nil, err
	}
	return simulation.NewDispatcher(e, log), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
