package harness

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

type Verbosity int

const (
	VerbosityDefault Verbosity = iota
	VerbosityDebug
	VerbosityQuiet
)

// Invocation is one configured run of the build tool. It is configured
// through its mutators, frozen by Harness.Execute and can be executed once.
// Mutating a frozen invocation panics.
type Invocation struct {
	id         string
	workingDir string

	goals      []string
	cliArgs    []string
	cliOptions []string

	env         map[string]string
	systemProps map[string]string
	jvmOptions  []string

	settingsFile       string
	globalSettingsFile string
	localRepository    string
	homeDir            string

	profiles     []string
	projects     []string
	projectFile  string
	nonRecursive bool
	verbosity    Verbosity
	threadSpec   string

	autoclean    bool
	fork         *bool
	debugScript  bool
	argumentFile bool

	frozen   bool
	consumed atomic.Bool
}

// NewInvocation returns an invocation running in workingDir. Autoclean is
// off by default so earlier output is never removed unless asked for.
func NewInvocation(workingDir string) *Invocation {
	return &Invocation{
		id:          uuid.NewString(),
		workingDir:  workingDir,
		env:         map[string]string{},
		systemProps: map[string]string{},
	}
}

func (i *Invocation) ID() string {
	return i.id
}

func (i *Invocation) WorkingDir() string {
	return i.workingDir
}

func (i *Invocation) LocalRepository() string {
	return i.localRepository
}

func (i *Invocation) mutable() {
	if i.frozen {
		panic("harness: invocation " + i.id + " is frozen")
	}
}

func (i *Invocation) AddGoals(goals ...string) *Invocation {
	i.mutable()
	i.goals = append(i.goals, goals...)
	return i
}

// AddCLIArgs appends raw arguments after the goals.
func (i *Invocation) AddCLIArgs(args ...string) *Invocation {
	i.mutable()
	i.cliArgs = append(i.cliArgs, args...)
	return i
}

// AddCLIOptions appends options placed before every generated flag.
func (i *Invocation) AddCLIOptions(options ...string) *Invocation {
	i.mutable()
	i.cliOptions = append(i.cliOptions, options...)
	return i
}

// ArgsFromFile appends the arguments listed in an argument file.
func (i *Invocation) ArgsFromFile(path string) error {
	i.mutable()
	args, err := ReadArgumentFile(path)
	if err != nil {
		return err
	}
	i.cliArgs = append(i.cliArgs, args...)
	return nil
}

func (i *Invocation) SetEnv(key, value string) *Invocation {
	i.mutable()
	i.env[key] = value
	return i
}

func (i *Invocation) SetSystemProperty(key, value string) *Invocation {
	i.mutable()
	i.systemProps[key] = value
	return i
}

// AddJVMOptions appends options to the tool's options environment variable.
func (i *Invocation) AddJVMOptions(options ...string) *Invocation {
	i.mutable()
	i.jvmOptions = append(i.jvmOptions, options...)
	return i
}

func (i *Invocation) SetSettingsFile(path string) *Invocation {
	i.mutable()
	i.settingsFile = path
	return i
}

func (i *Invocation) SetGlobalSettingsFile(path string) *Invocation {
	i.mutable()
	i.globalSettingsFile = path
	return i
}

func (i *Invocation) SetLocalRepository(path string) *Invocation {
	i.mutable()
	i.localRepository = path
	return i
}

// SetHomeDir isolates the user home so global configuration is not picked up
// from the machine running the tests.
func (i *Invocation) SetHomeDir(path string) *Invocation {
	i.mutable()
	i.homeDir = path
	return i
}

func (i *Invocation) AddProfiles(profiles ...string) *Invocation {
	i.mutable()
	i.profiles = append(i.profiles, profiles...)
	return i
}

func (i *Invocation) AddProjects(projects ...string) *Invocation {
	i.mutable()
	i.projects = append(i.projects, projects...)
	return i
}

// SetProjectFile selects an alternate project file or directory.
func (i *Invocation) SetProjectFile(path string) *Invocation {
	i.mutable()
	i.projectFile = path
	return i
}

func (i *Invocation) SetNonRecursive(nonRecursive bool) *Invocation {
	i.mutable()
	i.nonRecursive = nonRecursive
	return i
}

func (i *Invocation) SetVerbosity(v Verbosity) *Invocation {
	i.mutable()
	i.verbosity = v
	return i
}

// SetThreads passes a thread count such as "4", "1C" or "1.5C" to the tool.
// The value is validated when the invocation is executed.
func (i *Invocation) SetThreads(spec string) *Invocation {
	i.mutable()
	i.threadSpec = spec
	return i
}

func (i *Invocation) SetAutoclean(autoclean bool) *Invocation {
	i.mutable()
	i.autoclean = autoclean
	return i
}

// SetFork selects the forked launcher (true) or the in-process one (false),
// overriding the harness default.
func (i *Invocation) SetFork(fork bool) *Invocation {
	i.mutable()
	i.fork = &fork
	return i
}

func (i *Invocation) SetDebugScript(debug bool) *Invocation {
	i.mutable()
	i.debugScript = debug
	return i
}

// UseArgumentFile passes arguments through a generated argument file instead
// of the process command line.
func (i *Invocation) UseArgumentFile(use bool) *Invocation {
	i.mutable()
	i.argumentFile = use
	return i
}

// plan is the frozen, validated form of an invocation.
type plan struct {
	id              string
	workingDir      string
	args            []string
	env             map[string]string
	jvmOptions      []string
	localRepository string
	autoclean       bool
	fork            *bool
	argumentFile    bool
}

// freeze marks the invocation as consumed and returns its plan. A second
// call returns ErrInvocationConsumed.
func (i *Invocation) freeze(profile Profile) (plan, error) {
	if !i.consumed.CompareAndSwap(false, true) {
		return plan{}, ErrInvocationConsumed
	}
	i.frozen = true

	if i.workingDir == "" {
		return plan{}, ErrNoWorkingDir
	}
	if i.localRepository == "" {
		return plan{}, ErrNoLocalRepository
	}

	args, err := i.arguments(profile)
	if err != nil {
		return plan{}, err
	}

	return plan{
		id:              i.id,
		workingDir:      i.workingDir,
		args:            args,
		env:             i.environment(profile),
		jvmOptions:      append([]string(nil), i.jvmOptions...),
		localRepository: i.localRepository,
		autoclean:       i.autoclean,
		fork:            i.fork,
		argumentFile:    i.argumentFile,
	}, nil
}

func (i *Invocation) arguments(profile Profile) ([]string, error) {
	var args []string
	args = append(args, NormalizeArgs(i.cliOptions)...)

	if i.settingsFile != "" {
		args = append(args, profile.SettingsFlag, i.settingsFile)
	}
	if i.globalSettingsFile != "" {
		args = append(args, profile.GlobalSettingsFlag, i.globalSettingsFile)
	}
	if len(i.profiles) > 0 {
		args = append(args, profile.ProfilesFlag, strings.Join(i.profiles, ","))
	}
	if len(i.projects) > 0 {
		args = append(args, profile.ProjectsFlag, strings.Join(i.projects, ","))
	}
	if i.projectFile != "" {
		args = append(args, profile.FileFlag, i.projectFile)
	}
	if i.nonRecursive {
		args = append(args, profile.NonRecursiveFlag)
	}
	switch i.verbosity {
	case VerbosityDebug:
		args = append(args, profile.DebugFlag)
	case VerbosityQuiet:
		args = append(args, profile.QuietFlag)
	}
	if i.threadSpec != "" {
		if err := ValidateThreadSpec(i.threadSpec); err != nil {
			return nil, err
		}
		args = append(args, profile.ThreadsFlag, i.threadSpec)
	}

	args = append(args, systemProperty(profile.LocalRepositoryProperty, i.localRepository))
	if i.homeDir != "" && profile.UserHomeProperty != "" {
		args = append(args, systemProperty(profile.UserHomeProperty, i.homeDir))
	}

	keys := make([]string, 0, len(i.systemProps))
	for k := range i.systemProps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, systemProperty(k, i.systemProps[k]))
	}

	args = append(args, i.goals...)
	args = append(args, NormalizeArgs(i.cliArgs)...)

	return args, nil
}

func (i *Invocation) environment(profile Profile) map[string]string {
	env := make(map[string]string, len(i.env)+4)
	for k, v := range i.env {
		env[k] = v
	}

	if i.debugScript && profile.DebugScriptEnv != "" {
		env[profile.DebugScriptEnv] = "1"
	}
	if i.homeDir != "" {
		env["HOME"] = i.homeDir
		env["USERPROFILE"] = i.homeDir
	}
	return env
}

// environment overlays the plan's variables on inherited and appends the JVM
// options to the options variable, whichever of the two supplied it.
func (p plan) environment(inherited []string, profile Profile) map[string]string {
	env := MergeEnv(inherited, p.env)
	if len(p.jvmOptions) > 0 && profile.OptionsEnv != "" {
		appendEnv(env, profile.OptionsEnv, strings.Join(p.jvmOptions, " "))
	}
	return env
}

func systemProperty(key, value string) string {
	return "-D" + key + "=" + value
}
