// Package prompt implements the interactive confirmation collaborator.
// Prompting only happens on a real terminal; everywhere else the default
// choice is returned so unattended runs never hang.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/types"
)

var log = logging.GetLogger("prompt")

type terminalPrompter struct {
	in  io.Reader
	out io.Writer
	tty bool
}

// New creates a Prompter over stdin/stdout.
func New() types.Prompter {
	return &terminalPrompter{
		in:  os.Stdin,
		out: os.Stdout,
		tty: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

// NewFor creates a Prompter over arbitrary streams; tests use this.
func NewFor(in io.Reader, out io.Writer, tty bool) types.Prompter {
	return &terminalPrompter{in: in, out: out, tty: tty}
}

func (p *terminalPrompter) PromptForConfirmation(prompt string, choices []string, defaultChoice string, requireAnswer bool) string {
	if !p.tty {
		log.Debug().Str("prompt", prompt).Str("answer", defaultChoice).Msg("No terminal; using default answer")
		return defaultChoice
	}

	reader := bufio.NewReader(p.in)
	for {
		fmt.Fprintf(p.out, "%s (%s) [%s]: ", prompt, strings.Join(choices, "/"), defaultChoice)
		line, err := reader.ReadString('\n')
		if err != nil {
			return defaultChoice
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			if defaultChoice != "" || !requireAnswer {
				return defaultChoice
			}
			continue
		}
		for _, choice := range choices {
			if strings.EqualFold(answer, choice) {
				return choice
			}
		}
		fmt.Fprintf(p.out, "'%s' is not a valid choice.\n", answer)
		if !requireAnswer {
			return defaultChoice
		}
	}
}

// Static is a canned-answer Prompter for tests.
type Static struct {
	Answer  string
	Prompts []string
}

func (s *Static) PromptForConfirmation(prompt string, choices []string, defaultChoice string, requireAnswer bool) string {
	s.Prompts = append(s.Prompts, prompt)
	if s.Answer == "" {
		return defaultChoice
	}
	return s.Answer
}
