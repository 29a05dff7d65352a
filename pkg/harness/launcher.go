package harness

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/pkg/errors"
)

// DefaultWaitDelay bounds how long a launcher waits for output pipes and
// stray child processes once the build process exited or was killed.
const DefaultWaitDelay = 5 * time.Second

// Request is what a Launcher needs to run one build.
type Request struct {
	Args []string
	Env  map[string]string
	Dir  string
	// Output receives stdout and stderr combined, in the order produced.
	Output io.Writer
}

// Launcher runs the build tool and returns its exit code. When ctx is done
// before the build finishes, the launcher terminates it and returns
// ctx.Err(). Failing to start is reported as a *LaunchError.
type Launcher interface {
	Launch(ctx context.Context, req Request) (int, error)
}

// Fork launches the build tool as a subprocess in its own process group.
type Fork struct {
	Executable string
	WaitDelay  time.Duration
}

func (f Fork) Launch(ctx context.Context, req Request) (int, error) {
	if f.Executable == "" {
		return -1, &LaunchError{Executable: "<unset>", Err: errors.New("no executable configured")}
	}

	cmd := exec.CommandContext(ctx, f.Executable, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = environ(req.Env)
	// the same writer for both streams makes os/exec share one pipe, so the
	// interleaving is preserved
	cmd.Stdout = req.Output
	cmd.Stderr = req.Output
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killProcessTree(cmd.Process)
	}
	cmd.WaitDelay = f.waitDelay()

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		return -1, &LaunchError{Executable: f.Executable, Err: err}
	}

	err := cmd.Wait()
	if ctx.Err() != nil {
		_ = killProcessTree(cmd.Process)
		waitProcessTree(cmd.Process, f.waitDelay())
		return exitCode(cmd, err), ctx.Err()
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	case errors.Is(err, exec.ErrWaitDelay):
		// the tool exited but a child kept the output pipe open
		_ = killProcessTree(cmd.Process)
		return cmd.ProcessState.ExitCode(), nil
	default:
		return -1, errors.Wrapf(err, "waiting for %s", f.Executable)
	}
}

func (f Fork) waitDelay() time.Duration {
	if f.WaitDelay > 0 {
		return f.WaitDelay
	}
	return DefaultWaitDelay
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}

// EntryPoint is an in-process main function of the build tool. It must write
// all output to req.Output and should return promptly once ctx is done.
type EntryPoint func(ctx context.Context, req Request) int

// InProcess runs the build tool through an entry point in the current
// process. Environment variables are handed to the entry point and never
// applied to the harness process.
type InProcess struct {
	Main      EntryPoint
	WaitDelay time.Duration
}

func (p InProcess) Launch(ctx context.Context, req Request) (int, error) {
	if p.Main == nil {
		return -1, &LaunchError{Executable: "<in-process>", Err: errors.New("no entry point configured")}
	}

	type outcome struct {
		code  int
		panic interface{}
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{code: -1, panic: r}
			}
		}()
		done <- outcome{code: p.Main(ctx, req)}
	}()

	select {
	case o := <-done:
		if o.panic != nil {
			return -1, &LaunchError{Executable: "<in-process>", Err: fmt.Errorf("entry point panicked: %v", o.panic)}
		}
		return o.code, nil
	case <-ctx.Done():
		delay := p.WaitDelay
		if delay <= 0 {
			delay = DefaultWaitDelay
		}
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case o := <-done:
			return o.code, ctx.Err()
		case <-timer.C:
			return -1, ctx.Err()
		}
	}
}
