// Package cli implements the back-office commands run from a terminal:
// creating admin users and importing credential files.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Prompter asks questions on out and reads the answers line by line from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter returns a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Line prints label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Password asks for a password twice and returns it when both answers match.
func (p *Prompter) Password(label string) (string, error) {
	first, err := p.Line(label)
	if err != nil {
		return "", err
	}
	second, err := p.Line("Repeat " + strings.ToLower(label))
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrPasswordMismatch
	}
	return first, nil
}
