package harness

// Profile describes the command-line and file-system conventions of the build
// tool under test.
type Profile struct {
	SettingsFlag       string
	GlobalSettingsFlag string
	ProfilesFlag       string
	ProjectsFlag       string
	FileFlag           string
	NonRecursiveFlag   string
	DebugFlag          string
	QuietFlag          string
	ThreadsFlag        string
	VersionFlag        string

	// LocalRepositoryProperty is passed as -D<property>=<path> on every
	// invocation.
	LocalRepositoryProperty string
	UserHomeProperty        string

	OptionsEnv     string
	DebugScriptEnv string

	// OutputDir is the per-module output directory removed by autoclean.
	OutputDir string
	// LogFile is created in the working directory of every invocation.
	LogFile string

	ArgFileName   string
	ArgFilePrefix string

	ErrorMarkers []string
	WarnMarkers  []string
	InfoMarkers  []string
	DebugMarkers []string
}

// DefaultProfile matches Maven-style build tools.
var DefaultProfile = Profile{
	SettingsFlag:       "-s",
	GlobalSettingsFlag: "--global-settings",
	ProfilesFlag:       "-P",
	ProjectsFlag:       "-pl",
	FileFlag:           "-f",
	NonRecursiveFlag:   "-N",
	DebugFlag:          "-X",
	QuietFlag:          "-q",
	ThreadsFlag:        "-T",
	VersionFlag:        "--version",

	LocalRepositoryProperty: "maven.repo.local",
	UserHomeProperty:        "user.home",

	OptionsEnv:     "MAVEN_OPTS",
	DebugScriptEnv: "MAVEN_DEBUG_SCRIPT",

	OutputDir: "target",
	LogFile:   "log.txt",

	ArgFileName:   ".buildcheck-args",
	ArgFilePrefix: "@",

	ErrorMarkers: []string{"[ERROR]", "[FATAL]"},
	WarnMarkers:  []string{"[WARNING]", "[WARN]"},
	InfoMarkers:  []string{"[INFO]"},
	DebugMarkers: []string{"[DEBUG]"},
}
