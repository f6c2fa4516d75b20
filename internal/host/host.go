// Package host implements the I/O shim Brew's built-ins (print, inputi,
// inputs) write through (spec.md §6.2). It is the one place that talks to
// the terminal, in the same spirit as the teacher's cmd entrypoint shimming
// stdin/stdout behind an interface rather than calling fmt.Scan/fmt.Print
// directly from evaluator code.
package host

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
)

// IO is what the evaluator's built-ins depend on: plain output and a single
// line of input. Tests substitute a buffer-backed IO; cmd/brew wires the
// real terminal.
type IO interface {
	Output(s string)
	GetInput() (string, bool)
}

// Terminal is the IO implementation used outside of tests. Output writes
// each string as one line; GetInput reads one line with its line ending
// removed. It behaves the same whether or not stdin is a TTY: a prompt
// given to inputi/inputs arrives through Output like any other line.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Output(s string) {
	fmt.Fprintln(t.out, s)
}

func (t *Terminal) GetInput() (string, bool) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// IsInteractive reports whether fd behaves like a real terminal. It is the
// same check cmd/brew makes inline (via isatty) before printing its
// startup banner; cmd/brew does not call this function.
func IsInteractive(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Buffer is an in-memory IO used by tests and by inputs/inputi's own unit
// tests: Output appends lines, GetInput drains pre-seeded lines.
type Buffer struct {
	Lines []string
	input []string
	pos   int
}

func NewBuffer(input ...string) *Buffer {
	return &Buffer{input: input}
}

func (b *Buffer) Output(s string) {
	b.Lines = append(b.Lines, s)
}

func (b *Buffer) GetInput() (string, bool) {
	if b.pos >= len(b.input) {
		return "", false
	}
	line := b.input[b.pos]
	b.pos++
	return line, true
}
