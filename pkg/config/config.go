// Package config loads the suite configuration from a TOML or YAML file and
// the environment.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	iconfig "github.com/buildpacks/buildcheck/internal/config"
)

const (
	envTool             = "BUILDCHECK_TOOL"
	envToolVersion      = "BUILDCHECK_TOOL_VERSION"
	envLocalRepository  = "BUILDCHECK_LOCAL_REPOSITORY"
	envRepositoryPolicy = "BUILDCHECK_REPOSITORY_POLICY"
	envTimeout          = "BUILDCHECK_TIMEOUT"
	envFork             = "BUILDCHECK_FORK"
	envParallelism      = "BUILDCHECK_PARALLELISM"
	envSettingsTemplate = "BUILDCHECK_SETTINGS_TEMPLATE"
	envArgumentFile     = "BUILDCHECK_ARGUMENT_FILE"
	envConfig           = "BUILDCHECK_CONFIG"
)

// DefaultConfigFile is looked up in the current directory.
const DefaultConfigFile = "buildcheck.toml"

type Config struct {
	// Tool is the build tool executable, looked up on PATH when not absolute.
	Tool string `toml:"tool,omitempty" yaml:"tool,omitempty"`
	// ToolVersion skips version discovery when set.
	ToolVersion      string            `toml:"tool-version,omitempty" yaml:"tool-version,omitempty"`
	LocalRepository  string            `toml:"local-repository,omitempty" yaml:"local-repository,omitempty"`
	RepositoryPolicy string            `toml:"repository-policy,omitempty" yaml:"repository-policy,omitempty"`
	Timeout          string            `toml:"timeout,omitempty" yaml:"timeout,omitempty"`
	Fork             *bool             `toml:"fork,omitempty" yaml:"fork,omitempty"`
	Parallelism      int               `toml:"parallelism,omitempty" yaml:"parallelism,omitempty"`
	SettingsTemplate string            `toml:"settings-template,omitempty" yaml:"settings-template,omitempty"`
	ArgumentFile     bool              `toml:"argument-file,omitempty" yaml:"argument-file,omitempty"`
	JVMOptions       []string          `toml:"jvm-options,omitempty" yaml:"jvm-options,omitempty"`
	Env              map[string]string `toml:"env,omitempty" yaml:"env,omitempty"`
}

func Default() Config {
	return Config{
		Tool:        "mvn",
		Timeout:     "10m",
		Parallelism: runtime.NumCPU(),
	}
}

// Read decodes the file at path over the defaults. A missing file yields the
// defaults; unknown keys are an error.
func Read(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, errors.Wrapf(err, "parsing config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.Errorf("unknown configuration keys in %s: %s", path, iconfig.ParseUndecodedKeys(undecoded))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrapf(err, "parsing config %s", path)
		}
	default:
		return Config{}, errors.Errorf("unsupported config format %s", filepath.Ext(path))
	}
	return cfg, nil
}

// Override applies BUILDCHECK_* variables found through lookup.
func (c Config) Override(lookup func(string) (string, bool)) (Config, error) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(envTool, &c.Tool)
	str(envToolVersion, &c.ToolVersion)
	str(envLocalRepository, &c.LocalRepository)
	str(envRepositoryPolicy, &c.RepositoryPolicy)
	str(envTimeout, &c.Timeout)
	str(envSettingsTemplate, &c.SettingsTemplate)

	if v, ok := lookup(envFork); ok && v != "" {
		fork, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.Wrapf(err, "parsing %s", envFork)
		}
		c.Fork = &fork
	}
	if v, ok := lookup(envParallelism); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrapf(err, "parsing %s", envParallelism)
		}
		c.Parallelism = n
	}
	if v, ok := lookup(envArgumentFile); ok && v != "" {
		use, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.Wrapf(err, "parsing %s", envArgumentFile)
		}
		c.ArgumentFile = use
	}
	return c, nil
}

// DefaultConfigPath returns BUILDCHECK_CONFIG, or buildcheck.toml in the
// current directory.
func DefaultConfigPath() string {
	if path := os.Getenv(envConfig); path != "" {
		return path
	}
	return DefaultConfigFile
}

// Load reads path, applies the process environment and validates the result.
// Relative paths in the file are resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		base := filepath.Dir(path)
		for _, p := range []*string{&cfg.LocalRepository, &cfg.SettingsTemplate} {
			if *p != "" && !filepath.IsAbs(*p) {
				*p = filepath.Join(base, *p)
			}
		}
	}
	if cfg, err = cfg.Override(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Tool == "" {
		return errors.New("no build tool configured")
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	policy, err := c.Policy()
	if err != nil {
		return err
	}
	if policy == RepositoryShared && c.LocalRepository == "" {
		return errors.New("a shared repository policy requires a local repository")
	}
	if c.Parallelism < 0 {
		return errors.Errorf("parallelism must not be negative, got %d", c.Parallelism)
	}
	return nil
}

// TimeoutDuration parses Timeout. An empty timeout disables the limit.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing timeout %q", c.Timeout)
	}
	if d < 0 {
		return 0, errors.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return d, nil
}

func (c Config) Policy() (RepositoryPolicy, error) {
	return ParseRepositoryPolicy(c.RepositoryPolicy)
}
