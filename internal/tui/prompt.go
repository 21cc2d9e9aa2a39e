package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a prompt needs a terminal but stdin is not one.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// PromptPassword reads a secret from in without echoing it.
func PromptPassword(in *os.File, out io.Writer, prompt string) (string, error) {
	if !IsTerminal(in) {
		return "", ErrNotTerminal
	}
	fd := int(in.Fd())
	_, _ = fmt.Fprint(out, prompt)
	raw, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

// PromptLine reads one trimmed line from r after writing prompt to out.
func PromptLine(r io.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
