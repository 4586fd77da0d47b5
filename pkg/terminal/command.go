// Package terminal implements the interactive wstat prompt.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cosiner/argv"

	"github.com/undoio/waitstatus/pkg/waitstatus"
)

type cmdfunc func(t *Term, args []string) error

type command struct {
	aliases []string
	helpMsg string
	cmdFn   cmdfunc
}

// Returns true if the command string matches one of the aliases for this command
func (c command) match(cmdstr string) bool {
	for _, v := range c.aliases {
		if v == cmdstr {
			return true
		}
	}
	return false
}

// Commands represents the commands available at the prompt.
type Commands struct {
	cmds []command
}

// ExitRequestError is returned when the user asks to leave the prompt.
type ExitRequestError struct{}

func (ere ExitRequestError) Error() string {
	return ""
}

var errNoCmd = errors.New("command not available")

// DefaultCommands returns the commands of the prompt.
func DefaultCommands() *Commands {
	c := &Commands{}
	c.cmds = []command{
		{aliases: []string{"help", "h"}, cmdFn: c.help, helpMsg: `Prints the help message.

	help [command]

Type "help" followed by the name of a command for more information about it.`},
		{aliases: []string{"decode", "d"}, cmdFn: decode, helpMsg: `Decodes wait status words.

	decode <status> [<status>...]

Statuses may be written in decimal, hexadecimal (0x) or octal (0) notation.`},
		{aliases: []string{"explain", "x"}, cmdFn: explain, helpMsg: `Shows every query of a wait status and whether it is meaningful.

	explain <status>

Exit codes are only meaningful when the process exited, signal numbers and the core dump flag only when it was killed by a signal.`},
		{aliases: []string{"exit", "quit", "q"}, cmdFn: exitCommand, helpMsg: "Exit the prompt."},
	}
	sort.Sort(byFirstAlias(c.cmds))
	return c
}

type byFirstAlias []command

func (a byFirstAlias) Len() int           { return len(a) }
func (a byFirstAlias) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byFirstAlias) Less(i, j int) bool { return a[i].aliases[0] < a[j].aliases[0] }

// Find will look up the command function for the given command input.
// If it cannot find the command it will default to noCmdAvailable().
func (c *Commands) Find(cmdstr string) cmdfunc {
	for _, v := range c.cmds {
		if v.match(cmdstr) {
			return v.cmdFn
		}
	}
	return noCmdAvailable
}

// Call takes a command line, splits it the way a shell would and
// executes the command it names.
func (c *Commands) Call(cmdstr string, t *Term) error {
	args, err := splitArgs(cmdstr)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	return c.Find(args[0])(t, args[1:])
}

func splitArgs(cmdstr string) ([]string, error) {
	if strings.TrimSpace(cmdstr) == "" {
		return nil, nil
	}
	cmds, err := argv.Argv(cmdstr, func(s string) (string, error) {
		return "", fmt.Errorf("backtick not supported in '%s'", s)
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(cmds) != 1 {
		return nil, errors.New("pipes are not supported")
	}
	return cmds[0], nil
}

// WriteMarkdown writes the table of commands to w.
func (c *Commands) WriteMarkdown(w io.Writer) {
	fmt.Fprint(w, "# Commands\n\n")

	fmt.Fprint(w, "Command | Description\n")
	fmt.Fprint(w, "--------|------------\n")
	for _, cmd := range c.cmds {
		h := cmd.helpMsg
		if idx := strings.Index(h, "\n"); idx >= 0 {
			h = h[:idx]
		}
		fmt.Fprintf(w, "[%s](#%s) | %s\n", cmd.aliases[0], cmd.aliases[0], h)
	}
	fmt.Fprint(w, "\n")

	for _, cmd := range c.cmds {
		fmt.Fprintf(w, "## %s\n%s\n\n", cmd.aliases[0], cmd.helpMsg)
		if len(cmd.aliases) > 1 {
			fmt.Fprint(w, "Aliases:")
			for _, alias := range cmd.aliases[1:] {
				fmt.Fprintf(w, " %s", alias)
			}
			fmt.Fprint(w, "\n")
		}
		fmt.Fprint(w, "\n")
	}
}

func noCmdAvailable(t *Term, args []string) error {
	return errNoCmd
}

func exitCommand(t *Term, args []string) error {
	return ExitRequestError{}
}

func (c *Commands) help(t *Term, args []string) error {
	if len(args) > 0 {
		for _, cmd := range c.cmds {
			if cmd.match(args[0]) {
				fmt.Fprintln(t.stdout, cmd.helpMsg)
				return nil
			}
		}
		return errNoCmd
	}

	fmt.Fprintln(t.stdout, "The following commands are available:")
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 0, ' ', 0)
	for _, cmd := range c.cmds {
		h := cmd.helpMsg
		if idx := strings.Index(h, "\n"); idx >= 0 {
			h = h[:idx]
		}
		if len(cmd.aliases) > 1 {
			fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", cmd.aliases[0], strings.Join(cmd.aliases[1:], " | "), h)
		} else {
			fmt.Fprintf(w, "    %s \t %s\n", cmd.aliases[0], h)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(t.stdout, "Type help followed by a command for full documentation.")
	return nil
}

// ParseStatus parses a wait status written in decimal, hexadecimal or
// octal. Values up to 0xffffffff are accepted and reinterpreted as the
// 32-bit status word.
func ParseStatus(s string) (waitstatus.Status, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid status %q: %w", s, err)
	}
	if n < math.MinInt32 || n > math.MaxUint32 {
		return 0, fmt.Errorf("invalid status %q: out of 32-bit range", s)
	}
	return waitstatus.Status(int32(uint32(n))), nil
}

func decode(t *Term, args []string) error {
	if len(args) == 0 {
		return errors.New("not enough arguments")
	}
	for _, arg := range args {
		st, err := ParseStatus(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(t.stdout, "%#x: %v\n", uint32(st), st)
	}
	return nil
}

func explain(t *Term, args []string) error {
	if len(args) != 1 {
		return errors.New("explain takes exactly one status")
	}
	st, err := ParseStatus(args[0])
	if err != nil {
		return err
	}
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	fmt.Fprintf(w, "raw\t%#x\n", uint32(st))
	fmt.Fprintf(w, "exited\t%v\n", st.Exited())
	if st.Exited() {
		fmt.Fprintf(w, "exit code\t%d\n", st.ExitCode())
	} else {
		fmt.Fprintf(w, "exit code\t-\t(process did not exit)\n")
	}
	fmt.Fprintf(w, "signaled\t%v\n", st.Signaled())
	if st.Signaled() {
		fmt.Fprintf(w, "signal\t%d\t(%v)\n", int(st.Signal()), st.Signal())
		fmt.Fprintf(w, "core dumped\t%v\n", st.CoreDumped())
	} else {
		fmt.Fprintf(w, "signal\t-\t(process was not killed by a signal)\n")
		fmt.Fprintf(w, "core dumped\t-\t(process was not killed by a signal)\n")
	}
	if code, ok := st.ShellCode(); ok {
		fmt.Fprintf(w, "shell code\t%d\n", code)
	}
	return w.Flush()
}
