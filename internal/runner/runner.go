// Package runner launches an external program under supervision: output is
// streamed line by line and the whole process group is terminated when the
// deadline elapses.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// DefaultGracePeriod is the wait between SIGTERM and SIGKILL.
const DefaultGracePeriod = 5 * time.Second

var (
	ErrNoBinary = errors.New("runner: binary is required")
	ErrTimeout  = errors.New("runner: timed out")
	ErrCanceled = errors.New("runner: canceled")
)

// Command configures a supervised child process.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	Args   []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is appended to os.Environ.
	Env   []string
	Stdin io.Reader
	// Stderr receives the child's stderr lines. Nil merges stderr into the
	// output passed to Run.
	Stderr io.Writer
	// Timeout bounds the run. Zero means no deadline.
	Timeout     time.Duration
	GracePeriod time.Duration
}

// Result describes a finished child.
type Result struct {
	// ExitCode is -1 when the child was killed by a signal.
	ExitCode int
	TimedOut bool
	Lines    int
	Duration time.Duration
}

// ForFile builds the command that runs path, optionally through an
// interpreter prefix (e.g. ["python3"] or ["go", "run"]).
func ForFile(interpreter []string, path string, timeout time.Duration) Command {
	if len(interpreter) == 0 {
		return Command{Binary: path, Timeout: timeout}
	}
	args := append(append([]string{}, interpreter[1:]...), path)
	return Command{Binary: interpreter[0], Args: args, Timeout: timeout}
}

// Run starts the child and copies its stdout (and stderr, unless cmd.Stderr
// is set) to out, one line at a time. Lines have no length limit. It returns
// once output is exhausted and the child has exited. A non-zero exit is reported in Result, not as an error; timeouts and
// cancellation return ErrTimeout / ErrCanceled alongside the Result.
func Run(ctx context.Context, cmd Command, out io.Writer) (*Result, error) {
	if cmd.Binary == "" {
		return nil, ErrNoBinary
	}
	if out == nil {
		out = io.Discard
	}
	grace := cmd.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("runner: pipe: %w", err)
	}
	defer outR.Close()
	readers := []*os.File{outR}
	sinks := []io.Writer{out}

	c := exec.Command(cmd.Binary, cmd.Args...) //nolint:gosec // running arbitrary programs is the point
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	c.Stdin = cmd.Stdin
	c.Stdout = outW
	c.Stderr = outW
	// own process group so the whole tree can be signalled
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var errW *os.File
	if cmd.Stderr != nil {
		var errR *os.File
		errR, errW, err = os.Pipe()
		if err != nil {
			outW.Close()
			return nil, fmt.Errorf("runner: pipe: %w", err)
		}
		defer errR.Close()
		c.Stderr = errW
		readers = append(readers, errR)
		sinks = append(sinks, cmd.Stderr)
	}
	closeWriters := func() {
		outW.Close()
		if errW != nil {
			errW.Close()
		}
	}

	start := time.Now()
	if err := c.Start(); err != nil {
		closeWriters()
		return nil, fmt.Errorf("runner: start %s: %w", cmd.Binary, err)
	}
	closeWriters()

	done := make(chan struct{})
	defer close(done)

	lineCh := make(chan outputLine)
	readErrCh := make(chan error, len(readers))
	var wg sync.WaitGroup
	for i, r := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := readLines(r, i, lineCh, done); err != nil {
				readErrCh <- err
			}
		}()
	}
	go func() {
		wg.Wait()
		close(lineCh)
	}()

	waitCh := make(chan error, 1)
	go func() { waitCh <- c.Wait() }()

	var lines <-chan outputLine = lineCh
	var exited <-chan error = waitCh
	var timeoutC, graceC, drainC <-chan time.Time
	ctxDone := ctx.Done()
	res := &Result{}
	canceled, signalled := false, false

	if cmd.Timeout > 0 {
		t := time.NewTimer(cmd.Timeout)
		defer t.Stop()
		timeoutC = t.C
	}

	terminate := func() {
		if signalled {
			return
		}
		signalled = true
		_ = syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
		graceC = time.After(grace)
	}

	for lines != nil || exited != nil {
		select {
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			res.Lines++
			fmt.Fprintln(sinks[line.stream], line.text)
		case <-exited:
			exited = nil
			// a backgrounded grandchild may still hold the pipe open
			drainC = time.After(grace)
		case <-drainC:
			lines = nil
		case <-timeoutC:
			timeoutC = nil
			res.TimedOut = true
			terminate()
		case <-ctxDone:
			ctxDone = nil
			canceled = true
			terminate()
		case <-graceC:
			graceC = nil
			_ = syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
		}
	}

	res.Duration = time.Since(start)
	res.ExitCode = c.ProcessState.ExitCode()

	switch {
	case res.TimedOut:
		return res, fmt.Errorf("%w after %s", ErrTimeout, cmd.Timeout)
	case canceled:
		return res, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
	}
	select {
	case err := <-readErrCh:
		return res, fmt.Errorf("runner: read output: %w", err)
	default:
	}
	return res, nil
}

type outputLine struct {
	stream int // index into the sinks of Run
	text   string
}

// readLines forwards r line by line until EOF or done. A trailing line
// without a newline is still forwarded.
func readLines(r io.Reader, stream int, lines chan<- outputLine, done <-chan struct{}) error {
	br := bufio.NewReader(r)
	for {
		text, err := br.ReadString('\n')
		if text != "" {
			select {
			case lines <- outputLine{stream: stream, text: strings.TrimRight(text, "\r\n")}:
			case <-done:
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			select {
			case <-done:
				return nil
			default:
				return err
			}
		}
	}
}

func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	return append(os.Environ(), extra...)
}
