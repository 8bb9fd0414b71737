package ui

import (
	"fmt"
	"strings"

	"github.com/peterh/liner"
)

// Prompter wraps liner for the wizard and confirmation flows.
type Prompter struct {
	line *liner.State
}

func NewPrompter() *Prompter {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	return &Prompter{line: l}
}

func (p *Prompter) Close() {
	p.line.Close()
}

// Line reads one line, offering def as an editable suggestion when present.
func (p *Prompter) Line(label, def string) (string, error) {
	var (
		input string
		err   error
	)
	if def != "" {
		input, err = p.line.PromptWithSuggestion(label+": ", def, -1)
	} else {
		input, err = p.line.Prompt(label + ": ")
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Password reads a line without echo.
func (p *Prompter) Password(label string) (string, error) {
	pw, err := p.line.PasswordPrompt(label + ": ")
	if err != nil {
		return "", err
	}
	return pw, nil
}

// Confirm asks a yes/no question, defaulting to no. Destructive actions
// must go through this; there is no single-click delete anywhere.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.line.Prompt(fmt.Sprintf("%s (y/N): ", label))
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
