package shell

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/lcamplin/tpsh/core/vos"
	"golang.org/x/sys/unix"
)

// ErrCommandNotFound is returned when a program can't be found on PATH.
var ErrCommandNotFound = errors.New("command not found")

// Process is a handle on a launched stage.
type Process interface {
	// Pid returns the operating system process identifier.
	Pid() int
	// Wait blocks until the process exits. A process that didn't exit
	// normally with status zero is reported as *ExitError.
	Wait() error
	// Release abandons the handle without waiting for the process.
	Release() error
}

// Launcher starts one stage with its standard streams bound to stdin and
// stdout, without waiting for it.
type Launcher interface {
	Launch(stdin, stdout *os.File, argv []string) (Process, error)
}

// ExitError reports a stage that was signaled or exited with a non-zero
// status.
type ExitError struct {
	Name   string
	Status unix.WaitStatus
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, describeStatus(e.Status))
}

func describeStatus(status unix.WaitStatus) string {
	switch {
	case status.Signaled():
		return fmt.Sprintf("signal: %v", status.Signal())
	case status.Exited():
		return fmt.Sprintf("exit status %d", status.ExitStatus())
	}
	return fmt.Sprintf("wait status %#x", uint32(status))
}

// ExecLauncher launches stages as child processes. The child gets the
// given descriptors as its standard input and output and Stderr as its
// standard error; no other descriptor of the shell leaks into it.
type ExecLauncher struct {
	Stderr *os.File
	// Env supplies the child's environment. When nil the child inherits
	// the shell's.
	Env vos.EnvironFetcher
}

var _ Launcher = (*ExecLauncher)(nil)

// Launch implements Launcher.Launch. Process creation and program image
// replacement happen in one step, so a program that can't be run is
// reported here and no child is left behind.
func (l *ExecLauncher) Launch(stdin, stdout *os.File, argv []string) (Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, launchError(argv[0], err)
	}

	cmd := &exec.Cmd{
		Path: path,
		Args: argv,
	}
	// A nil *os.File must not end up in an io.Reader or io.Writer.
	if stdin != nil {
		cmd.Stdin = stdin
	}
	if stdout != nil {
		cmd.Stdout = stdout
	}
	if l.Stderr != nil {
		cmd.Stderr = l.Stderr
	}
	if l.Env != nil {
		cmd.Env = append([]string{}, l.Env.Environ()...)
	}
	if err := cmd.Start(); err != nil {
		return nil, launchError(argv[0], err)
	}

	return &execProcess{cmd: cmd}, nil
}

func launchError(name string, err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		err = execErr.Err
	}
	if errors.Is(err, exec.ErrNotFound) {
		err = ErrCommandNotFound
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return fmt.Errorf("%s: %w", name, err)
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Wait() error {
	err := p.cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return &ExitError{Name: p.cmd.Args[0], Status: unix.WaitStatus(status)}
		}
	}
	return err
}

func (p *execProcess) Release() error {
	return p.cmd.Process.Release()
}
