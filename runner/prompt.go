package runner

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompt asks the operator to continue or cancel.
type Prompt interface {
	Confirm(question string) (bool, error)
}

// TerminalPrompt reads a y/N answer from a terminal. Anything but an
// explicit yes cancels.
type TerminalPrompt struct {
	In  io.Reader
	Out io.Writer
}

func (p *TerminalPrompt) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.Out, "%s [y/N] ", question)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("error reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
