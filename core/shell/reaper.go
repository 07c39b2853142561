package shell

import (
	"errors"
	"log"

	"golang.org/x/sys/unix"
)

// Reaper collects background stages that have exited, without blocking.
type Reaper struct {
	Log *log.Logger

	pending map[int]Command
	wait4   func(pid int, status *unix.WaitStatus, options int, rusage *unix.Rusage) (int, error)
}

// NewReaper creates a Reaper with nothing to collect.
func NewReaper(logger *log.Logger) *Reaper {
	return &Reaper{
		Log:     logger,
		pending: make(map[int]Command),
		wait4:   unix.Wait4,
	}
}

// Track takes ownership of proc. Its handle is released: from now on the
// process is only collected by Reap.
func (r *Reaper) Track(proc Process, argv Command) {
	pid := proc.Pid()
	if err := proc.Release(); err != nil {
		r.logger().Printf("release pid=%d: %v", pid, err)
	}
	r.pending[pid] = argv
	r.logger().Printf("tracking background pid=%d %q", pid, []string(argv))
}

// Pending returns the number of background processes not yet collected.
func (r *Reaper) Pending() int {
	return len(r.pending)
}

// Reap collects every tracked process that has exited and returns how many
// were collected.
func (r *Reaper) Reap() int {
	reaped := 0
	for pid, argv := range r.pending {
		var status unix.WaitStatus
		wpid, err := r.wait4(pid, &status, unix.WNOHANG, nil)
		switch {
		case errors.Is(err, unix.ECHILD):
			// Collected elsewhere.
			delete(r.pending, pid)
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			r.logger().Printf("wait4 pid=%d: %v", pid, err)
		case wpid == 0:
			// Still running.
		default:
			delete(r.pending, pid)
			reaped++
			r.logger().Printf("reaped pid=%d %q: %s", pid, []string(argv), describeStatus(status))
		}
	}
	return reaped
}

func (r *Reaper) logger() *log.Logger {
	if r.Log == nil {
		return discardLogger
	}
	return r.Log
}
