package harness

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/buildpacks/buildcheck/internal/paths"
)

// clean removes every directory named outputDir below workingDir. A local
// repository inside the working directory survives, even when it lives in an
// output directory.
func clean(workingDir, outputDir, localRepository string) error {
	if outputDir == "" {
		return nil
	}

	var stale []string
	err := filepath.WalkDir(workingDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == workingDir {
			return nil
		}
		if paths.Within(localRepository, path) {
			return filepath.SkipDir
		}
		if d.Name() == outputDir {
			stale = append(stale, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "scanning %s for output directories", workingDir)
	}

	for _, dir := range stale {
		if err := removeAllExcept(dir, localRepository); err != nil {
			return errors.Wrapf(err, "removing %s", dir)
		}
	}
	return nil
}

func removeAllExcept(dir, keep string) error {
	if !paths.Within(dir, keep) {
		return os.RemoveAll(dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if paths.Within(keep, path) {
			continue
		}
		if err := removeAllExcept(path, keep); err != nil {
			return err
		}
	}
	return nil
}
