package shell

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// Shell is the read, parse, execute loop.
type Shell struct {
	Source   CommandSource
	Prompt   *PromptRenderer
	Executor *Executor
	// Reaper, if set, collects finished background stages before each
	// prompt and once more when the loop ends.
	Reaper *Reaper

	// Stdout receives the prompt when Source doesn't draw it.
	Stdout io.Writer
	// Stderr receives diagnostics.
	Stderr io.Writer

	Log *log.Logger
}

// Run prompts for and runs command lines until input ends or a line starts
// with exit. It only fails when input can't be read.
func (s *Shell) Run() error {
	logger := s.logger()
	defer s.reap()

	for {
		s.reap()
		s.showPrompt()

		table, err := s.Source.ReadTable()
		var readErr *ReadError
		switch {
		case err == io.EOF:
			logger.Print("end of input")
			return nil
		case errors.Is(err, ErrInterrupted):
			continue
		case errors.As(err, &readErr):
			return err
		case err != nil:
			fmt.Fprintf(s.Stderr, "%s: error reading commands: %v\n", ShellName, err)
			continue
		case table == nil || table.Count() == 0:
			fmt.Fprintf(s.Stderr, "%s: error reading commands: %v\n", ShellName, ErrEmptyLine)
			continue
		}

		if table.Commands[0].Name() == exitName {
			logger.Print("exit requested")
			return nil
		}

		s.Executor.Execute(table)
	}
}

func (s *Shell) showPrompt() {
	prompt, err := s.Prompt.Render()
	if err != nil {
		fmt.Fprintf(s.Stderr, "%s: %v\n", ShellName, err)
		prompt = ""
	}

	if prompter, ok := s.Source.(Prompter); ok {
		prompter.SetPrompt(prompt)
		return
	}
	if s.Stdout != nil {
		fmt.Fprint(s.Stdout, prompt)
	}
}

func (s *Shell) reap() {
	if s.Reaper == nil {
		return
	}
	if n := s.Reaper.Reap(); n > 0 {
		s.logger().Printf("collected %d background processes", n)
	}
}

func (s *Shell) logger() *log.Logger {
	if s.Log == nil {
		return discardLogger
	}
	return s.Log
}
