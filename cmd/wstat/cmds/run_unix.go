//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package cmds

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/undoio/waitstatus/pkg/config"
	"github.com/undoio/waitstatus/pkg/policy"
	"github.com/undoio/waitstatus/pkg/proc"
	"github.com/undoio/waitstatus/pkg/supervisor"
)

var (
	// policyPath is the Starlark exit policy script, overriding the config file.
	policyPath string
	// maxRestarts overrides max-restarts from the config file.
	maxRestarts int
	// subreaper makes wstat reap orphaned descendants.
	subreaper bool
	// chdir is the working directory of the command.
	chdir string
	// extraEnv holds KEY=VALUE pairs added to the command's environment.
	extraEnv []string
)

func addRunCommand(rootCommand *cobra.Command) {
	runCommand := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command and propagate its decoded exit status.",
		Long: `Run a command and propagate its decoded exit status.

The command runs in its own process group. Signals listed under
forward-signals in the config file are passed on to that group. When the
command exits wstat exits with the same code; when it is killed by a
signal wstat exits with 128 plus the signal number, as a shell would.

An exit policy written in Starlark can override the exit code or ask for
the command to be restarted:

	def on_exit(status):
	    if status.signaled and status.signal == 9:
	        return "restart"
	    return None
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *conf
			if cmd.Flags().Changed("policy") {
				cfg.Policy = policyPath
			}
			if cmd.Flags().Changed("max-restarts") {
				cfg.MaxRestarts = maxRestarts
			}
			if cmd.Flags().Changed("subreaper") {
				cfg.Subreaper = subreaper
			}
			var opts []proc.LaunchOption
			if chdir != "" {
				opts = append(opts, proc.WithDir(chdir))
			}
			if len(extraEnv) > 0 {
				for _, kv := range extraEnv {
					if !strings.Contains(kv, "=") {
						return fmt.Errorf("invalid --env %q, expected KEY=VALUE", kv)
					}
				}
				opts = append(opts, proc.WithEnv(extraEnv...))
			}
			code, err := execute(context.Background(), &cfg, args, opts...)
			if err != nil {
				return err
			}
			exitStatus = code
			return nil
		},
	}
	runCommand.Flags().StringVarP(&policyPath, "policy", "p", "", "Starlark exit policy script.")
	runCommand.Flags().IntVarP(&maxRestarts, "max-restarts", "r", 0, "Maximum number of restarts the exit policy may request.")
	runCommand.Flags().SetInterspersed(false)
	runCommand.Flags().BoolVarP(&subreaper, "subreaper", "", false, "Become a child subreaper and reap orphaned descendants (Linux only).")
	runCommand.Flags().StringVarP(&chdir, "chdir", "C", "", "Working directory of the command.")
	runCommand.Flags().StringArrayVarP(&extraEnv, "env", "e", nil, "Add KEY=VALUE to the command's environment (repeatable).")
	rootCommand.AddCommand(runCommand)
}

func execute(ctx context.Context, cfg *config.Config, args []string, opts ...proc.LaunchOption) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 1, err
	}
	if os.Getpid() == 1 && !cfg.Subreaper {
		logrus.WithFields(logrus.Fields{"layer": "wstat"}).Warnln("running as PID 1 without --subreaper, orphaned processes will not be reaped.")
	}

	var pol policy.Policy
	if cfg.Policy != "" {
		script, err := policy.Load(cfg.Policy, nil)
		if err != nil {
			return 1, err
		}
		pol = script
	}

	s, err := supervisor.New(cfg, pol, opts...)
	if err != nil {
		return 1, err
	}
	return s.Run(ctx, args)
}
