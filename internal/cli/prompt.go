package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jacksmith/binder/internal/ops"
)

// Prompter asks yes/no and multiple-choice questions on a line-oriented
// stream. With AssumeYes set every confirmation is accepted without reading
// input, and import mode questions pick the default.
type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	AssumeYes bool
	// DefaultMode answers ChooseMode when AssumeYes is set.
	DefaultMode ops.ImportMode
}

// NewPrompter creates a Prompter reading from in and writing questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next trimmed input line. ok is false at end of input.
func (p *Prompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Confirm asks a yes/no question. Anything but y/yes is no.
func (p *Prompter) Confirm(question string) bool {
	if p.AssumeYes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	answer, ok := p.readLine()
	if !ok {
		fmt.Fprintln(p.out)
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// ConfirmForeign implements ops.Prompter.
func (p *Prompter) ConfirmForeign(producer string) bool {
	if producer == "" {
		producer = "an unknown application"
	} else {
		producer = fmt.Sprintf("%q", producer)
	}
	return p.Confirm(fmt.Sprintf("This file was exported by %s, not binder. Import anyway?", producer))
}

// ChooseMode implements ops.Prompter. Answers are matched by prefix, so
// "r" selects replace.
func (p *Prompter) ChooseMode(existing int) (ops.ImportMode, bool) {
	if p.AssumeYes {
		return p.DefaultMode, true
	}

	for {
		fmt.Fprintf(p.out, "Your list has %d cards. Replace it or merge into it? [replace/merge/cancel] ", existing)
		answer, ok := p.readLine()
		if !ok {
			fmt.Fprintln(p.out)
			return ops.ImportModeMerge, false
		}

		choice, err := MatchCommand(answer, []string{"replace", "merge", "cancel"})
		if err != nil {
			fmt.Fprintln(p.out, "Please answer replace, merge or cancel.")
			continue
		}
		switch choice {
		case "replace":
			return ops.ImportModeReplace, true
		case "merge":
			return ops.ImportModeMerge, true
		default:
			return ops.ImportModeMerge, false
		}
	}
}
