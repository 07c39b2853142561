package vos

import (
	"os"
	"os/user"
)

// NativeOS implements VOS over the real process state.
type NativeOS struct{}

var _ VOS = (*NativeOS)(nil)

// Native returns the VOS of the running process.
func Native() *NativeOS {
	return &NativeOS{}
}

// Hostname implements VNetwork.Hostname.
func (*NativeOS) Hostname() (string, error) {
	return os.Hostname()
}

// Username returns $USER, falling back to the account database.
func (n *NativeOS) Username() (string, error) {
	if name := n.Getenv(EnvUser); name != "" {
		return name, nil
	}
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "", ErrNoUser
	}
	return u.Username, nil
}

// UserHomeDir returns $HOME, falling back to the account database.
func (n *NativeOS) UserHomeDir() (string, error) {
	if home := n.Getenv(EnvHome); home != "" {
		return home, nil
	}
	u, err := user.Current()
	if err != nil || u.HomeDir == "" {
		return "", ErrNoHome
	}
	return u.HomeDir, nil
}

func (*NativeOS) Getwd() (string, error) {
	return os.Getwd()
}

func (*NativeOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

func (*NativeOS) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

func (*NativeOS) Unsetenv(key string) error {
	return os.Unsetenv(key)
}

func (*NativeOS) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (*NativeOS) Getenv(key string) string {
	return os.Getenv(key)
}

func (*NativeOS) Environ() []string {
	return os.Environ()
}
