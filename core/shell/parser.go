package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

var (
	// ErrEmptyLine is returned for lines with no words.
	ErrEmptyLine = errors.New("no command entered")
	// ErrEmptyCommand is returned when a pipeline has a stage with no words.
	ErrEmptyCommand = errors.New("syntax error near unexpected token `|'")
	// ErrMisplacedAmpersand is returned when & isn't the last word.
	ErrMisplacedAmpersand = errors.New("syntax error near unexpected token `&'")
)

// Parse splits line into a CommandTable. Words are split the way a POSIX
// shell does, honouring quotes; there is no expansion or globbing. Commands
// are separated by an unquoted | and a trailing unquoted & runs the pipeline
// in the background. Neither operator needs surrounding space.
func Parse(line string) (*CommandTable, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyLine
	}

	segments, background, err := splitOperators(line)
	if err != nil {
		return nil, err
	}

	table := &CommandTable{Background: background}
	for _, segment := range segments {
		words, err := shlex.Split(segment, true)
		if err != nil {
			return nil, fmt.Errorf("syntax error: %w", err)
		}
		if len(words) == 0 {
			if background && len(segments) == 1 {
				return nil, ErrMisplacedAmpersand
			}
			return nil, ErrEmptyCommand
		}
		table.Commands = append(table.Commands, Command(words))
	}

	return table, nil
}

// splitOperators cuts line at every | outside quotes and strips a final &.
// An & followed by anything but space is misplaced. An unterminated quote
// runs to the end of the line and is reported by the word splitter.
func splitOperators(line string) (segments []string, background bool, err error) {
	const (
		unquoted = iota
		singleQuoted
		doubleQuoted
	)

	state := unquoted
	start := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch state {
		case singleQuoted:
			if c == '\'' {
				state = unquoted
			}
			continue
		case doubleQuoted:
			switch c {
			case '\\':
				i++
			case '"':
				state = unquoted
			}
			continue
		}

		switch c {
		case '\\':
			i++
		case '\'':
			state = singleQuoted
		case '"':
			state = doubleQuoted
		case '|':
			segments = append(segments, line[start:i])
			start = i + 1
		case '&':
			if strings.TrimSpace(line[i+1:]) != "" {
				return nil, false, ErrMisplacedAmpersand
			}
			return append(segments, line[start:i]), true, nil
		}
	}

	return append(segments, line[start:]), false, nil
}
