// Package vostest holds an in-memory VOS for tests.
package vostest

import (
	"errors"
	"io/fs"
	"path"
	"syscall"

	"github.com/lcamplin/tpsh/core/vos"
	"github.com/spf13/afero"
)

// FakeOS is a deterministic VOS whose directory tree lives in an afero.Fs.
type FakeOS struct {
	*vos.MapEnv

	// Fs holds the directories Chdir may enter.
	Fs afero.Fs
	// Host is returned by Hostname unless HostErr is set.
	Host    string
	HostErr error
	// WdErr, if set, is returned by Getwd.
	WdErr error

	cwd string
}

var _ vos.VOS = (*FakeOS)(nil)

// NewFakeOS creates a FakeOS with the given "key=value" environment. The
// working directory starts at $HOME, or "/" if it isn't set; it and "/" are
// created in a fresh in-memory filesystem.
func NewFakeOS(environ ...string) *FakeOS {
	f := &FakeOS{
		MapEnv: vos.NewMapEnvFromEnvList(environ),
		Fs:     afero.NewMemMapFs(),
		Host:   "localhost",
		cwd:    "/",
	}
	_ = f.Fs.MkdirAll("/", 0755)
	if home := f.Getenv(vos.EnvHome); home != "" {
		_ = f.Fs.MkdirAll(home, 0755)
		f.cwd = path.Clean(home)
	}
	return f
}

// MustMkdirAll creates the directories in the fake filesystem.
func (f *FakeOS) MustMkdirAll(dirs ...string) *FakeOS {
	for _, dir := range dirs {
		if err := f.Fs.MkdirAll(dir, 0755); err != nil {
			panic(err)
		}
	}
	return f
}

// Hostname implements vos.VNetwork.Hostname.
func (f *FakeOS) Hostname() (string, error) {
	if f.HostErr != nil {
		return "", f.HostErr
	}
	return f.Host, nil
}

// Username implements vos.VOS.Username from $USER.
func (f *FakeOS) Username() (string, error) {
	if name := f.Getenv(vos.EnvUser); name != "" {
		return name, nil
	}
	return "", vos.ErrNoUser
}

// Getwd implements vos.VOS.Getwd.
func (f *FakeOS) Getwd() (string, error) {
	if f.WdErr != nil {
		return "", f.WdErr
	}
	return f.cwd, nil
}

// Chdir implements vos.VOS.Chdir, resolving relative paths against the
// current directory.
func (f *FakeOS) Chdir(dir string) error {
	target := dir
	if !path.IsAbs(target) {
		target = path.Join(f.cwd, target)
	}
	target = path.Clean(target)

	info, err := f.Fs.Stat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOENT}
	case err != nil:
		return &fs.PathError{Op: "chdir", Path: dir, Err: err}
	case !info.IsDir():
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}

	f.cwd = target
	return nil
}
