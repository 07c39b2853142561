package shell

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abiosoft/readline"
	"github.com/lcamplin/tpsh/core/vos/vostest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type shellFixture struct {
	shell    *Shell
	launcher *fakeLauncher
	os       *vostest.FakeOS
	out      *bytes.Buffer
}

func newShellFixture(t *testing.T, reader LineReader) *shellFixture {
	t.Helper()

	fake := newPromptOS()
	launcher := &fakeLauncher{fail: map[string]bool{}, waitErrs: map[string]error{}}
	out := &bytes.Buffer{}

	return &shellFixture{
		shell: &Shell{
			Source: &LineSource{Reader: reader},
			Prompt: &PromptRenderer{OS: fake, DomainSuffix: DefaultDomainSuffix},
			Executor: &Executor{
				Stdin:    tempFile(t, "stdin"),
				Stdout:   tempFile(t, "stdout"),
				Stderr:   out,
				OS:       fake,
				Launcher: launcher,
			},
			Stdout: out,
			Stderr: out,
		},
		launcher: launcher,
		os:       fake,
		out:      out,
	}
}

func TestShell_Run_transcript(t *testing.T) {
	fixture := newShellFixture(t, lines(
		readResult{line: "cd src"},
		readResult{line: ""},
		readResult{line: "cd /nope"},
		readResult{line: "cd"},
		readResult{err: readline.ErrInterrupt},
		readResult{line: "exit"},
		readResult{line: "echo unreachable"},
	))

	require.NoError(t, fixture.shell.Run())

	assert.Empty(t, fixture.launcher.launched)
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)
	g.Assert(t, "transcript", fixture.out.Bytes())
}

func TestShell_Run_executes(t *testing.T) {
	fixture := newShellFixture(t, lines(
		readResult{line: "echo hi"},
		readResult{line: "ls | wc -l"},
	))

	require.NoError(t, fixture.shell.Run())

	assert.Equal(t, []string{"echo", "ls", "wc"}, fixture.launcher.names())
	for _, proc := range fixture.launcher.launched {
		assert.True(t, proc.waited)
	}
}

func TestShell_Run_exitFirst(t *testing.T) {
	fixture := newShellFixture(t, lines(
		readResult{line: "exit | echo never"},
	))

	require.NoError(t, fixture.shell.Run())

	assert.Empty(t, fixture.launcher.launched)
}

func TestShell_Run_exitLater(t *testing.T) {
	fixture := newShellFixture(t, lines(
		readResult{line: "echo hi | exit"},
	))

	require.NoError(t, fixture.shell.Run())

	// exit only ends the shell as the first word; elsewhere it's a program.
	assert.Equal(t, []string{"echo", "exit"}, fixture.launcher.names())
}

func TestShell_Run_endOfInput(t *testing.T) {
	fixture := newShellFixture(t, lines())

	require.NoError(t, fixture.shell.Run())

	assert.Equal(t, "alice@wonderland:~> ", fixture.out.String())
}

func TestShell_Run_readError(t *testing.T) {
	broken := errors.New("input/output error")
	fixture := newShellFixture(t, lines(
		readResult{line: "echo hi"},
		readResult{err: broken},
		readResult{line: "echo never"},
	))

	err := fixture.shell.Run()

	assert.True(t, errors.Is(err, broken))
	assert.Equal(t, []string{"echo"}, fixture.launcher.names())
}

func TestShell_Run_promptFailure(t *testing.T) {
	fixture := newShellFixture(t, lines(readResult{line: "echo hi"}))
	fixture.os.HostErr = errors.New("no network")

	require.NoError(t, fixture.shell.Run())

	assert.Equal(t,
		"tpsh: error getting hostname: no network\ntpsh: error getting hostname: no network\n",
		fixture.out.String())
	assert.Equal(t, []string{"echo"}, fixture.launcher.names(), "the line is still read")
}

type recordingPrompter struct {
	LineSource
	prompts []string
}

func (p *recordingPrompter) SetPrompt(prompt string) {
	p.prompts = append(p.prompts, prompt)
}

func TestShell_Run_prompter(t *testing.T) {
	fixture := newShellFixture(t, nil)
	source := &recordingPrompter{LineSource: LineSource{Reader: lines(readResult{line: "cd /tmp"})}}
	fixture.os.MustMkdirAll("/tmp")
	fixture.shell.Source = source

	require.NoError(t, fixture.shell.Run())

	assert.Equal(t, []string{"alice@wonderland:~> ", "alice@wonderland:/tmp> "}, source.prompts)
	assert.Empty(t, fixture.out.String(), "the source draws the prompt")
}

func TestShell_Run_reaps(t *testing.T) {
	fixture := newShellFixture(t, lines(readResult{line: "sleep 1 &"}))
	reaper := NewReaper(nil)
	calls := 0
	reaper.wait4 = func(pid int, _ *unix.WaitStatus, _ int, _ *unix.Rusage) (int, error) {
		calls++
		return pid, nil
	}
	fixture.shell.Reaper = reaper
	fixture.shell.Executor.Reaper = reaper

	require.NoError(t, fixture.shell.Run())

	assert.Equal(t, 0, reaper.Pending())
	assert.Equal(t, 1, calls)
}
