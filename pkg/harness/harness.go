// Package harness configures, isolates and executes build tool invocations.
package harness

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const excerptLines = 20

// Harness executes invocations. It holds configuration only and is safe for
// concurrent use; every invocation owns its working directory.
type Harness struct {
	fork          Launcher
	inProcess     Launcher
	forkByDefault *bool
	profile       Profile
	classifier    Classifier
	timeout       time.Duration
	parallelism   int
	logger        log.Interface
	echo          io.Writer
	environ       func() []string
	clock         func() time.Time
}

type Option func(*Harness)

// WithExecutable forks the given build tool executable.
func WithExecutable(path string) Option {
	return func(h *Harness) {
		h.fork = Fork{Executable: path}
	}
}

// WithForkLauncher replaces the launcher used for forked invocations.
func WithForkLauncher(l Launcher) Option {
	return func(h *Harness) {
		h.fork = l
	}
}

// WithEntryPoint enables in-process invocations through main.
func WithEntryPoint(main EntryPoint) Option {
	return func(h *Harness) {
		h.inProcess = InProcess{Main: main}
	}
}

// WithForkByDefault selects the launcher for invocations that do not call
// SetFork. Without this option the forked launcher is preferred when set.
func WithForkByDefault(fork bool) Option {
	return func(h *Harness) {
		h.forkByDefault = &fork
	}
}

func WithProfile(p Profile) Option {
	return func(h *Harness) {
		h.profile = p
	}
}

// WithTimeout bounds every invocation. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(h *Harness) {
		h.timeout = d
	}
}

// WithParallelism bounds how many invocations ExecuteAll runs at once.
func WithParallelism(n int) Option {
	return func(h *Harness) {
		h.parallelism = n
	}
}

func WithLogger(l log.Interface) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithEcho copies the output of every invocation to w as it is produced.
// A Flush() error method on w is called once the build ends.
func WithEcho(w io.Writer) Option {
	return func(h *Harness) {
		h.echo = w
	}
}

// New returns a harness configured by opts.
func New(opts ...Option) *Harness {
	h := &Harness{
		profile: DefaultProfile,
		logger:  &log.Logger{Handler: discard.Default, Level: log.InfoLevel},
		environ: inheritedEnv,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.classifier = NewClassifier(h.profile)
	return h
}

func (h *Harness) Profile() Profile {
	return h.profile
}

// Classifier returns the line classifier matching the harness profile.
func (h *Harness) Classifier() Classifier {
	return h.classifier
}

func (h *Harness) launcher(p plan) (Launcher, error) {
	fork := h.fork != nil
	if h.forkByDefault != nil {
		fork = *h.forkByDefault
	}
	if p.fork != nil {
		fork = *p.fork
	}
	if fork {
		if h.fork == nil {
			return nil, &LaunchError{Executable: "<fork>", Err: errors.New("no executable configured")}
		}
		return h.fork, nil
	}
	if h.inProcess == nil {
		return nil, &LaunchError{Executable: "<in-process>", Err: errors.New("no entry point configured")}
	}
	return h.inProcess, nil
}

// Execute freezes inv, runs it and returns its result.
//
// A build exiting non-zero returns the result together with an
// *ExecutionFailure; a build exceeding the time limit returns the partial
// result with a *TimeoutError after its process tree has been terminated.
// Failures to start return a *LaunchError and no result. Nothing is retried.
func (h *Harness) Execute(ctx context.Context, inv *Invocation) (*ExecutionResult, error) {
	p, err := inv.freeze(h.profile)
	if err != nil {
		return nil, err
	}

	logger := h.logger.WithFields(log.Fields{
		"invocation": p.id,
		"dir":        p.workingDir,
	})

	if err := h.prepare(p); err != nil {
		return nil, err
	}

	launcher, err := h.launcher(p)
	if err != nil {
		return nil, err
	}

	args := p.args
	if p.argumentFile {
		argFile := filepath.Join(p.workingDir, h.profile.ArgFileName)
		if err := WriteArgumentFile(argFile, p.args); err != nil {
			return nil, err
		}
		args = []string{h.profile.ArgFilePrefix + argFile}
	}

	logPath := filepath.Join(p.workingDir, h.profile.LogFile)
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, errors.Wrap(err, "creating log file")
	}
	defer logFile.Close()

	runCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var sink io.Writer = logFile
	if h.echo != nil {
		sink = io.MultiWriter(logFile, h.echo)
	}
	out := newCapture(sink, h.classifier)
	logger.WithField("args", strings.Join(args, " ")).Info("starting build")

	start := h.clock()
	code, launchErr := launcher.Launch(runCtx, Request{
		Args:   args,
		Env:    p.environment(h.environ(), h.profile),
		Dir:    p.workingDir,
		Output: out,
	})
	lines, written, writeErr := out.close()
	if f, ok := h.echo.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	elapsed := h.clock().Sub(start)

	result := &ExecutionResult{
		id:              p.id,
		exitCode:        code,
		lines:           lines,
		workingDir:      p.workingDir,
		logFile:         logPath,
		localRepository: p.localRepository,
		args:            args,
		duration:        elapsed,
	}

	logger = logger.WithFields(log.Fields{
		"exit":     code,
		"duration": elapsed.Round(time.Millisecond).String(),
		"captured": humanize.Bytes(written),
	})

	if launchErr != nil {
		var le *LaunchError
		switch {
		case errors.As(launchErr, &le):
			logger.WithError(launchErr).Error("build could not be launched")
			return nil, launchErr
		case errors.Is(launchErr, context.DeadlineExceeded):
			logger.Warn("build timed out")
			return result, &TimeoutError{Limit: h.limit(elapsed), LogFile: logPath, Excerpt: tail(lines, excerptLines)}
		default:
			logger.WithError(launchErr).Warn("build interrupted")
			return result, errors.Wrap(launchErr, "build interrupted")
		}
	}
	if writeErr != nil {
		return result, errors.Wrap(writeErr, "writing log file")
	}

	if code != 0 {
		logger.Info("build failed")
		return result, &ExecutionFailure{ExitCode: code, LogFile: logPath, Excerpt: tail(lines, excerptLines)}
	}

	logger.Info("build finished")
	return result, nil
}

// limit reports the configured time limit, or the elapsed time when the
// caller's context carried the deadline.
func (h *Harness) limit(elapsed time.Duration) time.Duration {
	if h.timeout > 0 {
		return h.timeout
	}
	return elapsed.Round(time.Millisecond)
}

// prepare validates the working directory, applies autoclean and creates the
// local repository.
func (h *Harness) prepare(p plan) error {
	info, err := os.Stat(p.workingDir)
	if err != nil {
		return errors.Wrap(err, "checking working directory")
	}
	if !info.IsDir() {
		return errors.Errorf("working directory %s is not a directory", p.workingDir)
	}

	if p.autoclean {
		if err := clean(p.workingDir, h.profile.OutputDir, p.localRepository); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(p.localRepository, 0755); err != nil {
		return errors.Wrap(err, "creating local repository")
	}
	return nil
}

// ExecuteAll runs invocations concurrently, at most Parallelism at a time,
// and returns their results in input order along with the first error. A
// failing invocation does not cancel the others. Invocations must not share
// a working directory; sharing a local repository is allowed.
func (h *Harness) ExecuteAll(ctx context.Context, invocations ...*Invocation) ([]*ExecutionResult, error) {
	seen := map[string]bool{}
	for _, inv := range invocations {
		dir := filepath.Clean(inv.WorkingDir())
		if seen[dir] {
			return nil, errors.Errorf("invocations share working directory %s", dir)
		}
		seen[dir] = true
	}

	results := make([]*ExecutionResult, len(invocations))

	var g errgroup.Group
	if h.parallelism > 0 {
		g.SetLimit(h.parallelism)
	}
	for i, inv := range invocations {
		i, inv := i, inv
		g.Go(func() error {
			r, err := h.Execute(ctx, inv)
			results[i] = r
			return err
		})
	}
	return results, g.Wait()
}
