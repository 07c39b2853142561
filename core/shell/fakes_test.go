package shell

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

type fakeProcess struct {
	pid      int
	argv     []string
	stdin    *os.File
	stdout   *os.File
	waitErr  error
	waited   bool
	released bool
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Wait() error {
	p.waited = true
	return p.waitErr
}

func (p *fakeProcess) Release() error {
	p.released = true
	return nil
}

// fakeLauncher records launches instead of starting anything. Commands
// named in fail can't be launched; those in exitErr exit abnormally.
type fakeLauncher struct {
	mu       sync.Mutex
	launched []*fakeProcess
	fail     map[string]bool
	waitErrs map[string]error
}

func (l *fakeLauncher) Launch(stdin, stdout *os.File, argv []string) (Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fail[argv[0]] {
		return nil, fmt.Errorf("%s: %w", argv[0], ErrCommandNotFound)
	}
	proc := &fakeProcess{
		pid:     1000 + len(l.launched),
		argv:    argv,
		stdin:   stdin,
		stdout:  stdout,
		waitErr: l.waitErrs[argv[0]],
	}
	l.launched = append(l.launched, proc)
	return proc, nil
}

func (l *fakeLauncher) names() []string {
	var out []string
	for _, p := range l.launched {
		out = append(out, p.argv[0])
	}
	return out
}

// pipeRecorder hands out real pipes and remembers every end.
type pipeRecorder struct {
	ends []*os.File
	err  error
}

func (r *pipeRecorder) pipe() (*os.File, *os.File, error) {
	if r.err != nil {
		return nil, nil, r.err
	}
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, nil, err
	}
	r.ends = append(r.ends, pr, pw)
	return pr, pw, nil
}

// closed reports whether every recorded end has been closed already.
func (r *pipeRecorder) closed() bool {
	for _, f := range r.ends {
		if !errors.Is(f.Close(), os.ErrClosed) {
			return false
		}
	}
	return true
}
