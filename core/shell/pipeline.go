package shell

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/lcamplin/tpsh/core/vos"
)

// ShellName prefixes the shell's diagnostics.
const ShellName = "tpsh"

// Executor runs the commands of a CommandTable as a pipeline.
//
// Each adjacent pair of spawned stages is joined by an anonymous pipe. The
// shell closes its copy of every pipe end as soon as the stage using it has
// been launched, so readers see end-of-stream when their writer exits.
// Built-ins run in the shell's own process and never touch a pipe.
type Executor struct {
	// Stdin and Stdout are the shell's own standard streams, handed to the
	// first and last stages.
	Stdin  *os.File
	Stdout *os.File
	// Stderr receives diagnostics.
	Stderr io.Writer

	OS       vos.VOS
	Launcher Launcher

	// AbortOnSpawnFailure stops launching stages once one fails to start.
	// Stages already launched are still waited on.
	AbortOnSpawnFailure bool

	// Reaper collects background stages. When nil they are released and
	// never waited on.
	Reaper *Reaper

	Log *log.Logger

	// pipe creates the channel between two stages, os.Pipe if nil.
	pipe func() (r *os.File, w *os.File, err error)
}

type launchedStage struct {
	proc Process
	argv Command
}

// Execute runs table. Stages are launched left to right; for a foreground
// table every launched stage is then waited on in launch order.
func (e *Executor) Execute(table *CommandTable) {
	logger := e.logger()
	count := table.Count()

	var launched []launchedStage
	in := e.Stdin
	for i, command := range table.Commands {
		if builtin, ok := LookupBuiltin(command.Name()); ok && builtin.Main != nil {
			logger.Printf("builtin %q", []string(command))
			builtin.Main(e.builtinContext(), command)
			continue
		}

		out := e.Stdout
		var next *os.File
		if i < count-1 {
			r, w, err := e.newPipe()
			if err != nil {
				e.diagnose(fmt.Errorf("pipe: %w", err))
				break
			}
			logger.Printf("pipe r=%d w=%d", r.Fd(), w.Fd())
			out, next = w, r
		}

		proc, err := e.Launcher.Launch(in, out, command)

		// The child holds its own copies now.
		closeUnless(in, e.Stdin)
		closeUnless(out, e.Stdout)
		in = next

		if err != nil {
			e.diagnose(err)
			if e.AbortOnSpawnFailure {
				logger.Printf("aborting pipeline after stage %d", i)
				break
			}
			continue
		}
		logger.Printf("launched pid=%d %q", proc.Pid(), []string(command))
		launched = append(launched, launchedStage{proc: proc, argv: command})
	}
	// Left over when the last stage was a built-in or the pipeline stopped.
	closeUnless(in, e.Stdin)

	if table.Background {
		for _, stage := range launched {
			e.abandon(stage)
		}
		return
	}

	for _, stage := range launched {
		logger.Printf("waiting for pid=%d", stage.proc.Pid())
		if err := stage.proc.Wait(); err != nil {
			e.diagnose(err)
		}
	}
}

func (e *Executor) abandon(stage launchedStage) {
	if e.Reaper != nil {
		e.Reaper.Track(stage.proc, stage.argv)
		return
	}
	pid := stage.proc.Pid()
	if err := stage.proc.Release(); err != nil {
		e.logger().Printf("release pid=%d: %v", pid, err)
	}
	e.logger().Printf("left pid=%d in the background", pid)
}

func (e *Executor) builtinContext() *BuiltinContext {
	return &BuiltinContext{
		OS:     e.OS,
		Stdout: e.Stdout,
		Stderr: e.Stderr,
	}
}

func (e *Executor) newPipe() (*os.File, *os.File, error) {
	if e.pipe != nil {
		return e.pipe()
	}
	return os.Pipe()
}

func (e *Executor) diagnose(err error) {
	fmt.Fprintf(e.Stderr, "%s: %v\n", ShellName, err)
}

func (e *Executor) logger() *log.Logger {
	if e.Log == nil {
		return discardLogger
	}
	return e.Log
}

var discardLogger = log.New(ioutil.Discard, "", 0)

// closeUnless closes f unless it is nil or the shell's own stream keep.
func closeUnless(f, keep *os.File) {
	if f != nil && f != keep {
		f.Close()
	}
}
