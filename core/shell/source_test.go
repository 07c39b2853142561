package shell

import (
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/abiosoft/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readResult struct {
	line string
	err  error
}

// scriptedReader replays lines, then reports io.EOF.
type scriptedReader struct {
	results []readResult
}

func lines(results ...readResult) *scriptedReader {
	return &scriptedReader{results: results}
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.results) == 0 {
		return "", io.EOF
	}
	res := r.results[0]
	r.results = r.results[1:]
	return res.line, res.err
}

func TestLineSource_ReadTable(t *testing.T) {
	broken := errors.New("input/output error")
	source := &LineSource{Reader: lines(
		readResult{line: "ls -l | wc &"},
		readResult{err: readline.ErrInterrupt},
		readResult{line: ""},
		readResult{err: broken},
	)}

	table, err := source.ReadTable()
	require.NoError(t, err)
	assert.Equal(t, &CommandTable{
		Commands:   []Command{{"ls", "-l"}, {"wc"}},
		Background: true,
	}, table)

	_, err = source.ReadTable()
	assert.Equal(t, ErrInterrupted, err)

	_, err = source.ReadTable()
	assert.Equal(t, ErrEmptyLine, err)

	_, err = source.ReadTable()
	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.True(t, errors.Is(err, broken))

	_, err = source.ReadTable()
	assert.Equal(t, io.EOF, err)
}

func TestCommandNames(t *testing.T) {
	bin := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(bin, "frob"), nil, 0o755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(bin, "notes.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(bin, "subdir"), 0o755))

	other := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(other, "frob"), nil, 0o755))

	pathEnv := bin + string(filepath.ListSeparator) + filepath.Join(bin, "missing") + string(filepath.ListSeparator) + other
	assert.Equal(t, []string{"cd", "exit", "frob"}, commandNames(pathEnv))
}
