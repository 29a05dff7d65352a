package harness

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Workspace hands out isolated directories below a root: project copies,
// local repositories and user homes. Every call returns a fresh directory.
type Workspace struct {
	root string

	// SharedRepository, when set, is returned by Repository instead of a
	// fresh directory. Scenarios that chain builds through one repository
	// opt into it explicitly.
	SharedRepository string
}

func NewWorkspace(root string) (*Workspace, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating workspace %s", root)
	}
	return &Workspace{root: root}, nil
}

func (w *Workspace) Root() string {
	return w.root
}

// Project copies the project tree at src to <root>/<name>-<uuid> and returns
// the copy's path.
func (w *Workspace) Project(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", errors.Wrap(err, "reading project")
	}
	if !info.IsDir() {
		return "", errors.Errorf("project %s is not a directory", src)
	}

	dst := w.fresh(filepath.Base(filepath.Clean(src)))
	if err := copyTree(src, dst); err != nil {
		return "", errors.Wrapf(err, "copying project %s", src)
	}
	return dst, nil
}

// Repository returns the local repository for one invocation.
func (w *Workspace) Repository() (string, error) {
	if w.SharedRepository != "" {
		return w.SharedRepository, os.MkdirAll(w.SharedRepository, 0755)
	}
	return w.mkdir("repository")
}

// Home returns an empty user home directory.
func (w *Workspace) Home() (string, error) {
	return w.mkdir("home")
}

// Invocation copies src and returns an invocation running in the copy with
// its own local repository and home directory.
func (w *Workspace) Invocation(src string) (*Invocation, error) {
	dir, err := w.Project(src)
	if err != nil {
		return nil, err
	}
	repo, err := w.Repository()
	if err != nil {
		return nil, err
	}
	home, err := w.Home()
	if err != nil {
		return nil, err
	}
	return NewInvocation(dir).SetLocalRepository(repo).SetHomeDir(home), nil
}

func (w *Workspace) fresh(name string) string {
	return filepath.Join(w.root, name+"-"+uuid.NewString())
}

func (w *Workspace) mkdir(name string) (string, error) {
	dir := w.fresh(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}
	return dir, nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		}
		return nil
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
