// Package scenario glues version gating, isolated invocations and result
// inspection together for integration tests of a build tool.
package scenario

import (
	"context"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/buildpacks/buildcheck/internal/style"
	"github.com/buildpacks/buildcheck/pkg/config"
	"github.com/buildpacks/buildcheck/pkg/harness"
	"github.com/buildpacks/buildcheck/pkg/inspect"
	"github.com/buildpacks/buildcheck/pkg/version"
)

const settingsFileName = "settings.xml"

// Suite is shared by the scenarios of one test binary and safe for use by
// parallel tests.
type Suite struct {
	cfg      config.Config
	policy   config.RepositoryPolicy
	harness  *harness.Harness
	discover func(ctx context.Context) (string, error)

	once       sync.Once
	version    version.Version
	versionErr error
}

type options struct {
	harness  []harness.Option
	discover func(ctx context.Context) (string, error)
}

type Option func(*options)

// WithHarnessOptions appends options to the ones derived from the config.
func WithHarnessOptions(opts ...harness.Option) Option {
	return func(o *options) {
		o.harness = append(o.harness, opts...)
	}
}

// WithVersionDiscovery replaces running the tool's version command.
func WithVersionDiscovery(discover func(ctx context.Context) (string, error)) Option {
	return func(o *options) {
		o.discover = discover
	}
}

func NewSuite(cfg config.Config, opts ...Option) (*Suite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	executable := cfg.Tool
	if path, err := exec.LookPath(cfg.Tool); err == nil {
		executable = path
	}

	hopts := []harness.Option{
		harness.WithExecutable(executable),
		harness.WithTimeout(timeout),
		harness.WithParallelism(cfg.Parallelism),
	}
	if cfg.Fork != nil {
		hopts = append(hopts, harness.WithForkByDefault(*cfg.Fork))
	}
	h := harness.New(append(hopts, o.harness...)...)

	discover := o.discover
	if discover == nil {
		discover = func(ctx context.Context) (string, error) {
			return harness.DiscoverVersion(ctx, executable, h.Profile(), cfg.Env)
		}
	}

	return &Suite{
		cfg:      cfg,
		policy:   policy,
		harness:  h,
		discover: discover,
	}, nil
}

// Load builds a suite from the config file at path and the environment.
func Load(path string, opts ...Option) (*Suite, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return NewSuite(cfg, opts...)
}

func (s *Suite) Harness() *harness.Harness {
	return s.harness
}

// Version returns the configured tool version, or discovers it on first use.
func (s *Suite) Version(ctx context.Context) (version.Version, error) {
	s.once.Do(func() {
		raw := s.cfg.ToolVersion
		if raw == "" {
			if raw, s.versionErr = s.discover(ctx); s.versionErr != nil {
				s.versionErr = errors.Wrap(s.versionErr, "discovering tool version")
				return
			}
		}
		s.version, s.versionErr = version.ParseVersion(raw)
	})
	return s.version, s.versionErr
}

// Require skips the test unless the tool version lies in rangeExpr. A
// malformed range fails the test.
func (s *Suite) Require(t testing.TB, rangeExpr string) {
	t.Helper()

	r, err := version.ParseRange(rangeExpr)
	if err != nil {
		t.Fatalf("invalid version range %s: %s", style.Symbol(rangeExpr), err)
		return
	}
	v, err := s.Version(context.Background())
	if err != nil {
		t.Fatalf("%s", err)
		return
	}
	if !r.Matches(v) {
		t.Skipf("tool version %s does not match %s", style.Symbol(v.String()), style.Symbol(rangeExpr))
	}
}

// Invocation copies project below t.TempDir() and returns an invocation with
// its own local repository and home directory, carrying the configured
// environment, JVM options and settings.
func (s *Suite) Invocation(t testing.TB, project string) *harness.Invocation {
	t.Helper()

	ws, err := harness.NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("%s", err)
		return nil
	}
	if s.policy == config.RepositoryShared {
		ws.SharedRepository = s.cfg.LocalRepository
	}

	inv, err := ws.Invocation(project)
	if err != nil {
		t.Fatalf("preparing %s: %s", style.Symbol(project), err)
		return nil
	}

	for k, v := range s.cfg.Env {
		inv.SetEnv(k, v)
	}
	inv.AddJVMOptions(s.cfg.JVMOptions...).UseArgumentFile(s.cfg.ArgumentFile)

	if s.cfg.SettingsTemplate != "" {
		values, err := harness.DefaultSettingsValues(inv.WorkingDir(), inv.LocalRepository())
		if err == nil {
			dst := filepath.Join(inv.WorkingDir(), settingsFileName)
			if err = harness.FilterSettings(s.cfg.SettingsTemplate, dst, values); err == nil {
				inv.SetSettingsFile(dst)
			}
		}
		if err != nil {
			t.Fatalf("preparing settings: %s", err)
			return nil
		}
	}
	return inv
}

// Execute runs inv and returns its result with an inspector over it. A
// non-zero exit is returned for inspection; any other error fails the test.
func (s *Suite) Execute(t testing.TB, inv *harness.Invocation) (*harness.ExecutionResult, *inspect.Inspector) {
	t.Helper()

	result, err := s.harness.Execute(context.Background(), inv)
	if err != nil {
		var failure *harness.ExecutionFailure
		if !errors.As(err, &failure) {
			t.Fatalf("executing %s: %s", inv.WorkingDir(), err)
			return nil, nil
		}
		t.Logf("build exited with code %d (log: %s)", failure.ExitCode, failure.LogFile)
	}
	return result, inspect.New(result, inspect.WithProfile(s.harness.Profile()))
}
