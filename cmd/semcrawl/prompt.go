package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// errEmptyInput is returned when a prompt receives no answer.
var errEmptyInput = errors.New("no input given")

// prompter reads answers from the user.
// When input is a terminal, passwords are read without echo.
type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	fd       int
	terminal bool
}

// newPrompter creates a prompter reading from in and writing prompts to out.
func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.terminal = true
	}
	return p
}

// line prints label and reads one trimmed line.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	answer, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && answer != "") {
		if errors.Is(err, io.EOF) {
			return "", errEmptyInput
		}
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errEmptyInput
	}
	return answer, nil
}

// password prints label and reads a secret without echoing it.
func (p *prompter) password(label string) (string, error) {
	if !p.terminal {
		return p.line(label)
	}
	fmt.Fprint(p.out, label)
	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(secret) == 0 {
		return "", errEmptyInput
	}
	return string(secret), nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// withSpinner runs fn while a spinner labelled msg turns on w.
// The spinner is only shown when w is a terminal.
func withSpinner(w io.Writer, msg string, fn func() error) error {
	if !isTerminal(w) {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + msg
	s.Start()
	defer s.Stop()
	return fn()
}
