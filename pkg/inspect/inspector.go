// Package inspect turns an execution result and the file tree it left behind
// into pass/fail facts.
package inspect

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"

	"github.com/buildpacks/buildcheck/internal/paths"
	"github.com/buildpacks/buildcheck/pkg/harness"
)

const defaultExcerptLines = 20

// Inspector answers questions about one finished invocation. It never
// mutates the working directory or the local repository.
type Inspector struct {
	workingDir      string
	localRepository string
	logFile         string
	logName         string
	lines           []harness.LogLine
	classifier      harness.Classifier
	excerptLines    int
}

type Option func(*Inspector)

// WithProfile sets the log file name and line classification used by
// LoadLog.
func WithProfile(p harness.Profile) Option {
	return func(i *Inspector) {
		i.classifier = harness.NewClassifier(p)
		i.logName = p.LogFile
	}
}

// WithExcerptLines sets how many trailing log lines failures include.
func WithExcerptLines(n int) Option {
	return func(i *Inspector) {
		i.excerptLines = n
	}
}

// New inspects result.
func New(result *harness.ExecutionResult, opts ...Option) *Inspector {
	i := ForDir(result.WorkingDir(), result.LocalRepository(), result.Lines(), opts...)
	if result.LogFile() != "" {
		i.logFile = result.LogFile()
	}
	return i
}

// ForDir inspects a working directory and repository without a result, e.g.
// after a run that happened outside the harness.
func ForDir(workingDir, localRepository string, lines []harness.LogLine, opts ...Option) *Inspector {
	i := &Inspector{
		workingDir:      workingDir,
		localRepository: localRepository,
		logName:         harness.DefaultProfile.LogFile,
		lines:           append([]harness.LogLine(nil), lines...),
		classifier:      harness.NewClassifier(harness.DefaultProfile),
		excerptLines:    defaultExcerptLines,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logFile = filepath.Join(workingDir, i.logName)
	return i
}

func (i *Inspector) WorkingDir() string {
	return i.workingDir
}

func (i *Inspector) LocalRepository() string {
	return i.localRepository
}

// ErrorFree reports whether no captured line carries an error marker.
func (i *Inspector) ErrorFree() bool {
	return i.firstError() == nil
}

func (i *Inspector) firstError() *harness.LogLine {
	for n := range i.lines {
		if i.lines[n].Level == harness.LevelError {
			return &i.lines[n]
		}
	}
	return nil
}

// ContainsText reports whether the presence of text in the log matches
// expectPresent.
func (i *Inspector) ContainsText(text string, expectPresent bool) bool {
	return (i.findText(text) != nil) == expectPresent
}

func (i *Inspector) findText(text string) *harness.LogLine {
	for n := range i.lines {
		if strings.Contains(i.lines[n].Text, text) {
			return &i.lines[n]
		}
	}
	return nil
}

// DebugEnabled reports whether the build logged at debug level.
func (i *Inspector) DebugEnabled() bool {
	for _, l := range i.lines {
		if l.Level == harness.LevelDebug {
			return true
		}
	}
	return false
}

// FilePresent reports whether path, relative to the working directory,
// exists. With globAllowed one path segment may contain * or ?; any match
// counts. Paths with more than one wildcard segment are never present.
func (i *Inspector) FilePresent(path string, globAllowed bool) bool {
	matches, err := i.resolveFiles(path, globAllowed)
	return err == nil && len(matches) > 0
}

func (i *Inspector) resolveFiles(path string, globAllowed bool) ([]string, error) {
	full := i.resolve(path)
	if !globAllowed || paths.WildcardSegments(path) == 0 {
		if _, err := os.Stat(full); err != nil {
			return nil, nil
		}
		return []string{full}, nil
	}
	if n := paths.WildcardSegments(path); n > 1 {
		return nil, errors.Errorf("%s has %d wildcard segments, at most one is allowed", path, n)
	}
	matches, err := filepath.Glob(full)
	if err != nil {
		return nil, errors.Wrapf(err, "matching %s", path)
	}
	return matches, nil
}

func (i *Inspector) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(i.workingDir, filepath.FromSlash(path))
}

// LoadProperties reads a Java properties file below the working directory.
func (i *Inspector) LoadProperties(path string) (map[string]string, error) {
	full := i.resolve(path)
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: full}
		}
		return nil, errors.Wrapf(err, "reading %s", full)
	}

	loader := &properties.Loader{Encoding: properties.ISO_8859_1, DisableExpansion: true}
	props, err := loader.LoadFile(full)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", full)
	}
	return props.Map(), nil
}

// LoadLines reads a text file below the working directory, trimming every
// line and skipping blank ones.
func (i *Inspector) LoadLines(path string) ([]string, error) {
	full := i.resolve(path)
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: full}
		}
		return nil, errors.Wrapf(err, "reading %s", full)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", full)
	}
	return lines, nil
}

// LoadLog re-reads the log file from disk.
func (i *Inspector) LoadLog() ([]harness.LogLine, error) {
	data, err := os.ReadFile(i.logFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: i.logFile}
		}
		return nil, errors.Wrap(err, "reading log")
	}
	return i.classifier.ParseLog(data), nil
}

// ArtifactPath is where coord is installed in the local repository.
func (i *Inspector) ArtifactPath(coord Coordinate) string {
	return filepath.Join(coord.Dir(i.localRepository), coord.FileName())
}

// ArtifactPresent reports whether coord is installed. A SNAPSHOT artifact
// also matches its timestamped file names.
func (i *Inspector) ArtifactPresent(coord Coordinate) bool {
	if fileExists(i.ArtifactPath(coord)) {
		return true
	}
	if !coord.IsSnapshot() {
		return false
	}

	entries, err := os.ReadDir(coord.Dir(i.localRepository))
	if err != nil {
		return false
	}
	pattern := timestampedPattern(coord)
	for _, e := range entries {
		if !e.IsDir() && pattern.MatchString(e.Name()) {
			return true
		}
	}
	return false
}

func timestampedPattern(coord Coordinate) *regexp.Regexp {
	base := strings.TrimSuffix(coord.Version, snapshotSuffix)
	name := regexp.QuoteMeta(coord.ArtifactID+"-"+base) + `-\d{8}\.\d{6}-\d+`
	if classifier := coord.classifier(); classifier != "" {
		name += regexp.QuoteMeta("-" + classifier)
	}
	return regexp.MustCompile("^" + name + regexp.QuoteMeta("."+coord.extension()) + "$")
}

// ArtifactMetadataPresent reports whether repository metadata exists for
// coord: per artifact for releases, per version for snapshots.
func (i *Inspector) ArtifactMetadataPresent(coord Coordinate) bool {
	dir := coord.artifactDir(i.localRepository)
	if coord.IsSnapshot() {
		dir = coord.Dir(i.localRepository)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "maven-metadata*.xml"))
	return err == nil && len(matches) > 0
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
