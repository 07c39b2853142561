package shell

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/abiosoft/readline"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the line being typed was abandoned with
// Ctrl-C. The shell prompts again.
var ErrInterrupted = errors.New("interrupted")

// CommandSource yields one CommandTable per input line. It returns io.EOF
// once input is exhausted and a *ReadError when no more input can be read.
type CommandSource interface {
	ReadTable() (*CommandTable, error)
}

// Prompter is implemented by sources that draw the prompt themselves.
type Prompter interface {
	SetPrompt(prompt string)
}

// ReadError reports that input can't be read any more.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return "read input: " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// LineReader reads one line of input per call.
type LineReader interface {
	Readline() (string, error)
}

// LineSource parses each line of a LineReader into a CommandTable.
type LineSource struct {
	Reader LineReader
}

var _ CommandSource = (*LineSource)(nil)

// ReadTable implements CommandSource.ReadTable.
func (s *LineSource) ReadTable() (*CommandTable, error) {
	line, err := s.Reader.Readline()
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case err == readline.ErrInterrupt:
		return nil, ErrInterrupted
	case err != nil:
		return nil, &ReadError{Err: err}
	}
	return Parse(line)
}

// ReadlineOptions configure NewReadlineSource.
type ReadlineOptions struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// HistoryFile keeps the history between sessions when set.
	HistoryFile  string
	HistoryLimit int

	// Completion completes built-ins and executables found on PathEnv.
	Completion bool
	PathEnv    string
}

// ReadlineSource reads lines with line editing and history.
type ReadlineSource struct {
	LineSource
	rl *readline.Instance
}

var (
	_ CommandSource = (*ReadlineSource)(nil)
	_ Prompter      = (*ReadlineSource)(nil)
)

// NewReadlineSource creates a ReadlineSource over the given streams.
func NewReadlineSource(opts ReadlineOptions) (*ReadlineSource, error) {
	stdin, stdout := opts.Stdin, opts.Stdout
	cfg := &readline.Config{
		Stdin:           stdin,
		Stdout:          stdout,
		Stderr:          opts.Stderr,
		HistoryFile:     opts.HistoryFile,
		HistoryLimit:    opts.HistoryLimit,
		InterruptPrompt: "^C",
		EOFPrompt:       exitName,
		FuncIsTerminal: func() bool {
			return isatty.IsTerminal(stdin.Fd()) && isatty.IsTerminal(stdout.Fd())
		},
	}
	if opts.Completion {
		var items []readline.PrefixCompleterInterface
		for _, name := range commandNames(opts.PathEnv) {
			items = append(items, readline.PcItem(name))
		}
		cfg.AutoComplete = readline.NewPrefixCompleter(items...)
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &ReadlineSource{
		LineSource: LineSource{Reader: rl},
		rl:         rl,
	}, nil
}

// SetPrompt implements Prompter.SetPrompt.
func (s *ReadlineSource) SetPrompt(prompt string) {
	s.rl.SetPrompt(prompt)
}

// Close restores the terminal.
func (s *ReadlineSource) Close() error {
	return s.rl.Close()
}

// commandNames lists the built-ins and executables in the PATH-style list
// of directories, sorted and without duplicates.
func commandNames(pathEnv string) []string {
	names := make(map[string]struct{})
	for name := range AllBuiltins {
		names[name] = struct{}{}
	}

	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil || info.Mode()&0111 == 0 {
				continue
			}
			names[entry.Name()] = struct{}{}
		}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
