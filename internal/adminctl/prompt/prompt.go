// Package prompt reads confirmations and field values from the operator.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests
var readPassword = term.ReadPassword

// isTerminal is swapped out in tests
var isTerminal = term.IsTerminal

// Prompter asks questions on out and reads answers from in
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	answer, err := p.ask(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Clear is the answer that empties a value at a Line prompt
const Clear = "-"

// Line asks for a value. An empty answer keeps current and Clear returns "".
//
//	Version [1.0.0]: _
func (p *Prompter) Line(label, current string) (string, error) {
	q := label
	if current != "" {
		q += fmt.Sprintf(" [%s]", current)
	}
	answer, err := p.ask(q + ": ")
	if err != nil {
		return "", err
	}
	switch answer {
	case "":
		return current, nil
	case Clear:
		return "", nil
	}
	return answer, nil
}

// Secret asks for a value without echo when stdin is a terminal. An empty
// answer returns "" so the caller can keep the stored value.
func (p *Prompter) Secret(label string, hasCurrent bool) (string, error) {
	q := label
	if hasCurrent {
		q += " [hidden]"
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return p.ask(q + ": ")
	}

	if _, err := fmt.Fprint(p.out, q+": "); err != nil {
		return "", err
	}
	secret, err := readPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(string(secret)), nil
}

func (p *Prompter) ask(q string) (string, error) {
	if _, err := fmt.Fprint(p.out, q); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// AutoConfirm answers yes to everything, for --yes
type AutoConfirm struct{}

// Confirm implements mutation.Confirmer
func (AutoConfirm) Confirm(ctx context.Context, question string) (bool, error) {
	return true, ctx.Err()
}
