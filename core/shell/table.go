package shell

import "strings"

// Command is one argument vector. Element 0 names the program or built-in.
type Command []string

// Name returns the program or built-in the command runs.
func (c Command) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// String renders the command for logs.
func (c Command) String() string {
	return strings.Join(c, " ")
}

// CommandTable holds the commands of one input line, in pipeline order.
type CommandTable struct {
	Commands []Command
	// Background is set when the shell must not wait for the pipeline.
	Background bool
}

// Count returns the number of commands in the table.
func (t *CommandTable) Count() int {
	return len(t.Commands)
}
