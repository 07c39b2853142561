package shell

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lcamplin/tpsh/core/vos"
	"github.com/pborman/getopt/v2"
)

// BuiltinContext is the shell state a built-in may use.
type BuiltinContext struct {
	OS     vos.VOS
	Stdout io.Writer
	Stderr io.Writer
}

// BuiltinFunc runs a built-in in the shell's own process and returns its
// exit status.
type BuiltinFunc func(ctx *BuiltinContext, args []string) int

// Builtin describes a command the shell interprets itself.
type Builtin struct {
	Name  string
	Use   string
	Short string
	// Main runs the built-in as a pipeline stage. It is nil for built-ins
	// the shell loop handles before the pipeline runs.
	Main BuiltinFunc
}

// AllBuiltins holds a list of all registered shell builtins.
var AllBuiltins = make(map[string]*Builtin)

func addBuiltin(b *Builtin) {
	AllBuiltins[b.Name] = b
}

// LookupBuiltin returns the built-in called name.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := AllBuiltins[name]
	return b, ok
}

// ListBuiltins returns the registered built-ins sorted by name.
func ListBuiltins() []*Builtin {
	var out []*Builtin
	for _, b := range AllBuiltins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

const (
	cdName   = "cd"
	exitName = "exit"
)

// Cd is the cd shell builtin. With no argument it changes to the home
// directory, "-" returns to $OLDPWD.
func Cd(ctx *BuiltinContext, args []string) int {
	opts := getopt.New()
	helpOpt := opts.BoolLong("help", 'h', "show this help and exit")

	if err := opts.Getopt(args, nil); err != nil {
		fmt.Fprintf(ctx.Stderr, "%s: %v\n", cdName, err)
		printBuiltinHelp(ctx.Stderr, AllBuiltins[cdName], opts)
		return 2
	}
	if *helpOpt {
		printBuiltinHelp(ctx.Stdout, AllBuiltins[cdName], opts)
		return 0
	}

	var target string
	switch rest := opts.Args(); len(rest) {
	case 0:
		home, err := ctx.OS.UserHomeDir()
		if err != nil {
			fmt.Fprintf(ctx.Stderr, "%s: %v\n", cdName, err)
			return 1
		}
		target = home
	case 1:
		var err error
		target, err = cdTarget(ctx.OS, rest[0])
		if err != nil {
			fmt.Fprintf(ctx.Stderr, "%s: %v\n", cdName, err)
			return 1
		}
	default:
		fmt.Fprintf(ctx.Stderr, "%s: too many arguments\n", cdName)
		return 1
	}

	previous, _ := ctx.OS.Getwd()
	if err := ctx.OS.Chdir(target); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			fmt.Fprintf(ctx.Stderr, "%s: %s: %v\n", cdName, pathErr.Path, pathErr.Err)
		} else {
			fmt.Fprintf(ctx.Stderr, "%s: %v\n", cdName, err)
		}
		return 1
	}

	wd, err := ctx.OS.Getwd()
	if err != nil {
		wd = target
	}
	_ = ctx.OS.Setenv(vos.EnvOldPWD, previous)
	_ = ctx.OS.Setenv(vos.EnvPWD, wd)
	if len(opts.Args()) == 1 && opts.Args()[0] == "-" {
		fmt.Fprintln(ctx.Stdout, wd)
	}
	return 0
}

var errNoOldPWD = errors.New("OLDPWD not set")

// cdTarget expands "-" and a leading "~" in the argument to cd.
func cdTarget(virtualOS vos.VOS, arg string) (string, error) {
	switch {
	case arg == "-":
		old := virtualOS.Getenv(vos.EnvOldPWD)
		if old == "" {
			return "", errNoOldPWD
		}
		return old, nil
	case arg == "~" || strings.HasPrefix(arg, "~/"):
		home, err := virtualOS.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(arg, "~")), nil
	}
	return arg, nil
}

func printBuiltinHelp(w io.Writer, b *Builtin, opts *getopt.Set) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, b.Use)
	fmt.Fprintln(w, b.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	opts.PrintOptions(w)
}

func init() {
	addBuiltin(&Builtin{
		Name:  cdName,
		Use:   "cd [-h] [dir | - | ~[/path]]",
		Short: "Change the shell working directory, $HOME by default.",
		Main:  Cd,
	})
	addBuiltin(&Builtin{
		Name:  exitName,
		Use:   "exit",
		Short: "Exit the shell when it is the first word of a line.",
	})
}
