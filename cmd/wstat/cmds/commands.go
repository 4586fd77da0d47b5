package cmds

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/undoio/waitstatus/pkg/config"
	"github.com/undoio/waitstatus/pkg/logflags"
	"github.com/undoio/waitstatus/pkg/terminal"
	"github.com/undoio/waitstatus/pkg/version"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// logDest is the file path or file descriptor where logs should go.
	logDest string
	// configPath overrides the default config file location.
	configPath string
	// profileMode enables cpu or mem profiling of wstat itself.
	profileMode string

	// jsonOutput makes decode print JSON objects.
	jsonOutput bool
	// saveConfig makes the config command write the effective config.
	saveConfig bool

	conf     *config.Config
	profiler interface{ Stop() }

	exitStatus int
)

const wstatCommandLongDesc = `wstat decodes process wait statuses and supervises commands.

The status word returned by wait4(2) packs together whether a child exited
normally, its exit code, the signal that killed it and whether it dumped
core. wstat decodes such words given on the command line and can run a
command itself, forwarding signals to it and propagating its decoded exit
status.`

// New returns an initialized command tree.
func New(docCall bool) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:               "wstat",
		Short:             "wstat decodes process wait statuses.",
		Long:              wstatCommandLongDesc,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
	}

	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable logging.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", `Comma separated list of components that should produce debug output (supervisor, proc, reaper, policy).`)
	rootCommand.PersistentFlags().StringVarP(&logDest, "log-dest", "", "", "Writes logs to the specified file or file descriptor.")
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "", "", "Path of the configuration file (default $XDG_CONFIG_HOME/wstat/config.yml).")
	rootCommand.PersistentFlags().StringVarP(&profileMode, "profile", "", "", "Profile wstat itself, one of: cpu, mem.")

	decodeCommand := &cobra.Command{
		Use:   "decode <status>...",
		Short: "Decode wait status words.",
		Long: `Decode wait status words.

Statuses may be written in decimal, hexadecimal (0x) or octal (0) notation,
e.g. 'wstat decode 0x8b' reports a segmentation fault with a core dump on
Linux.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return decodeStatuses(cmd.OutOrStdout(), args)
		},
	}
	decodeCommand.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Print one JSON object per status.")
	rootCommand.AddCommand(decodeCommand)

	replCommand := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive prompt for decoding statuses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := terminal.New().Run()
			exitStatus = code
			return err
		},
	}
	rootCommand.AddCommand(replCommand)

	configCommand := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if saveConfig {
				path, err := conf.Save(configPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# written to %s\n", path)
			}
			out, err := yaml.Marshal(conf)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	configCommand.Flags().BoolVarP(&saveConfig, "save", "", false, "Also write the configuration to the config file.")
	rootCommand.AddCommand(configCommand)

	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wstat\n%s\n", version.WstatVersion)
		},
	}
	rootCommand.AddCommand(versionCommand)

	addRunCommand(rootCommand)

	if docCall {
		rootCommand.DisableAutoGenTag = true
	}

	return rootCommand
}

// ExitStatus returns the code wstat should exit with once the command
// tree has executed.
func ExitStatus() int {
	return exitStatus
}

func setup(cmd *cobra.Command, args []string) error {
	exitStatus = 0
	if err := logflags.Setup(log, logOutput, logDest); err != nil {
		return err
	}
	var err error
	conf, err = config.Load(configPath)
	if err != nil {
		return err
	}
	switch profileMode {
	case "":
	case "cpu":
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	case "mem":
		profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
	default:
		return fmt.Errorf("unknown profile mode %q", profileMode)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
	logflags.Close()
}

func decodeStatuses(w io.Writer, args []string) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	for _, arg := range args {
		st, err := terminal.ParseStatus(arg)
		if err != nil {
			return err
		}
		if jsonOutput {
			if err := enc.Encode(st.Report()); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "%s: %v\n", arg, st)
	}
	return nil
}
