// Package input reads lines of REPL input — expressions, assignments, and
// ":" directives — for the formulon REPL (cmd/formulon-repl), either
// directly from any io.Reader or interactively from a TTY via GNU readline.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectCommandReader reads a line of REPL input from any generic input
// stream directly. It can be used with any io.Reader (a pipe, a script
// file, a test fixture) but does not sanitize the input of control and
// escape sequences, so it is unsuitable for a raw TTY.
//
// DirectCommandReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectCommandReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveCommandReader reads a line of REPL input from stdin using a Go
// implementation of the GNU Readline library. This keeps expression input
// clear of typing and editing escape sequences and gives the session
// command history and line editing. This should generally only be used
// when directly connected to a TTY.
//
// InteractiveCommandReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveCommandReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// defaultPrompt is shown by an InteractiveCommandReader until the caller
// overrides it with SetPrompt.
const defaultPrompt = "formulon> "

// NewDirectReader creates a new DirectCommandReader and initializes a
// buffered reader on the provided reader. The returned reader must have
// Close called on it before disposal to properly tear down resources.
func NewDirectReader(r io.Reader) *DirectCommandReader {
	return &DirectCommandReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveCommandReader and
// initializes readline. The returned reader must have Close called on it
// before disposal to properly tear down readline resources.
func NewInteractiveReader() (*InteractiveCommandReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: defaultPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveCommandReader{
		rl:     rl,
		prompt: defaultPrompt,
	}, nil
}

// Close cleans up resources associated with the DirectCommandReader.
func (dcr *DirectCommandReader) Close() error {
	// DirectCommandReader does not itself hold any closeable resource, but
	// satisfies the same Close contract as InteractiveCommandReader so
	// cmd/formulon-repl/main.go's commandReader interface can treat both
	// uniformly regardless of which one a given run picked.
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveCommandReader.
func (icr *InteractiveCommandReader) Close() error {
	return icr.rl.Close()
}

// ReadCommand reads the next line of REPL input — an expression, a
// "name = expr" assignment, or a ":" directive — from the underlying
// stream. The returned string will only be empty if there is an error
// reading input; otherwise this function blocks until a line containing
// non-space characters is read (unless AllowBlank was set).
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dcr *DirectCommandReader) ReadCommand() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dcr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && dcr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// ReadCommand reads the next line of REPL input — an expression, a
// "name = expr" assignment, or a ":" directive — from readline. The
// returned string will only be empty if there is an error; otherwise this
// function blocks until a line consisting of more than empty or
// whitespace-only input is read (unless AllowBlank was set).
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (icr *InteractiveCommandReader) ReadCommand() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = icr.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && icr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether a blank line is returned as-is instead of being
// skipped. By default it is not (cmd/formulon-repl's loop has nothing
// useful to do with an empty expression).
func (dcr *DirectCommandReader) AllowBlank(allow bool) {
	dcr.blanksAllowed = allow
}

// AllowBlank sets whether a blank line is returned as-is instead of being
// skipped. By default it is not (cmd/formulon-repl's loop has nothing
// useful to do with an empty expression).
func (icr *InteractiveCommandReader) AllowBlank(allow bool) {
	icr.blanksAllowed = allow
}

// SetPrompt updates the prompt shown before each line of input.
func (icr *InteractiveCommandReader) SetPrompt(p string) {
	icr.prompt = p
	icr.rl.SetPrompt(p)
}

// GetPrompt gets the current prompt.
func (icr *InteractiveCommandReader) GetPrompt() string {
	return icr.prompt
}
