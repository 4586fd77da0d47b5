package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const maxHistoryLine = 500

// Term represents the terminal running wstat's prompt.
type Term struct {
	prompt string
	line   *liner.State
	cmds   *Commands
	stdout io.Writer
}

// New returns a new Term.
func New() *Term {
	return &Term{
		prompt: "(wstat) ",
		cmds:   DefaultCommands(),
		stdout: os.Stdout,
	}
}

// Run begins running the prompt and returns the exit status wstat should
// use.
func (t *Term) Run() (int, error) {
	t.line = liner.NewLiner()
	defer t.line.Close()
	t.line.SetCtrlCAborts(true)
	t.line.SetCompleter(func(line string) (c []string) {
		for _, cmd := range t.cmds.cmds {
			for _, alias := range cmd.aliases {
				if strings.HasPrefix(alias, strings.ToLower(line)) {
					c = append(c, alias)
				}
			}
		}
		return
	})

	fmt.Fprintln(t.stdout, "Type 'help' for list of commands.")

	var lastCmd string
	for {
		cmdstr, err := t.promptForInput()
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				fmt.Fprintln(t.stdout, "exit")
				return 0, nil
			}
			return 1, fmt.Errorf("prompt for input failed: %w", err)
		}

		if strings.TrimSpace(cmdstr) == "" {
			cmdstr = lastCmd
		}
		lastCmd = cmdstr

		if err := t.cmds.Call(cmdstr, t); err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return 0, nil
			}
			fmt.Fprintf(os.Stderr, "Command failed: %s\n", err)
		}
	}
}

func (t *Term) promptForInput() (string, error) {
	l, err := t.line.Prompt(t.prompt)
	if err != nil {
		return "", err
	}

	l = strings.TrimSuffix(l, "\n")
	if l != "" {
		if len(l) < maxHistoryLine {
			t.line.AppendHistory(l)
		}
	}

	return l, nil
}
