// Package replio contains the line-reading implementations the CLI front
// end uses to get statement and command input: a direct reader for
// piped/batch input and an interactive reader built on GNU-readline-style
// editing.
package replio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader is the capability the CLI's REPL loop needs from either input
// implementation.
type Reader interface {
	ReadLine() (string, error)
	Close() error
}

// DirectReader reads lines from any io.Reader with no editing support. It
// is used for piped, scripted, or non-TTY input, and whenever the CLI is
// run with the --direct flag.
type DirectReader struct {
	r *bufio.Reader
}

// NewDirectReader wraps r in a buffered line reader.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line with its trailing newline trimmed. It
// returns io.EOF (with an empty string) once the underlying reader is
// exhausted.
func (d *DirectReader) ReadLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close is a no-op: DirectReader owns no resources that need teardown. It
// exists so DirectReader satisfies Reader.
func (d *DirectReader) Close() error {
	return nil
}

// InteractiveReader reads lines from stdin via chzyer/readline, giving the
// user history and line editing. It should only be constructed when stdin
// and stdout are both attached to a terminal.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewInteractiveReader starts a readline instance with the given prompt
// and, if non-empty, a history file to load from and append to.
func NewInteractiveReader(prompt, historyFile string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline instance: %w", err)
	}
	return &InteractiveReader{rl: rl}, nil
}

// ReadLine blocks until a full line is entered.
func (i *InteractiveReader) ReadLine() (string, error) {
	line, err := i.rl.Readline()
	if err != nil {
		return "", err
	}
	return line, nil
}

// SetPrompt updates the prompt shown before the next ReadLine.
func (i *InteractiveReader) SetPrompt(prompt string) {
	i.rl.SetPrompt(prompt)
}

// Close releases the underlying terminal resources.
func (i *InteractiveReader) Close() error {
	return i.rl.Close()
}
