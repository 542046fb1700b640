// Command loggate emits log records through the loggate facade.
//
// Usage:
//
//	loggate emit [--app NAME] [--level LEVEL] [--log-dir DIR] [--backend console|delegated] [--severity LEVEL] MESSAGE...
//
// Flags default to the LOGGATE_* environment variables read by loggate.LoadConfig.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sivaosorg/loggate"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "loggate",
		Short:        "Leveled logging facade",
		SilenceUsage: true,
	}
	rootCmd.SetErr(stderr)
	rootCmd.AddCommand(newEmitCommand())
	return rootCmd
}

func newEmitCommand() *cobra.Command {
	emitCmd := &cobra.Command{
		Use:   "emit MESSAGE...",
		Short: "Start the facade, emit one record and shut down",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loggate.LoadConfig()
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, cfg); err != nil {
				return err
			}
			severityName, _ := cmd.Flags().GetString("severity")
			severity, err := loggate.ParseSeverity(severityName)
			if err != nil {
				return err
			}

			cfg.Output = cmd.ErrOrStderr()
			state, err := cfg.NewState()
			if err != nil {
				return err
			}
			defer func() {
				if err := state.Shutdown(); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}()
			if install, _ := cmd.Flags().GetBool("signal-handler"); install {
				state.InstallFailureSignalHandler()
			}

			rec := state.LogDepth(0, severity)
			rec.Append(strings.Join(args, " "))
			rec.Close()
			return nil
		},
	}
	emitCmd.Flags().String("app", "", "Application name (LOGGATE_APP)")
	emitCmd.Flags().String("level", "", "Severity threshold: debug|info|warning|error|fatal (LOGGATE_LEVEL)")
	emitCmd.Flags().String("log-dir", "", "Log directory for the delegated backend (LOGGATE_DIR)")
	emitCmd.Flags().String("backend", "", "Backend: console|delegated (LOGGATE_BACKEND)")
	emitCmd.Flags().String("severity", "info", "Severity of the emitted record")
	emitCmd.Flags().Bool("signal-handler", false, "Install the failure signal handler")
	return emitCmd
}

// applyFlags overrides the environment configuration with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *loggate.Config) error {
	flags := cmd.Flags()
	if flags.Changed("app") {
		cfg.AppName, _ = flags.GetString("app")
	}
	if flags.Changed("level") {
		level, _ := flags.GetString("level")
		threshold, err := loggate.ParseSeverity(level)
		if err != nil {
			return err
		}
		cfg.Threshold = threshold
	}
	if flags.Changed("log-dir") {
		cfg.LogDir, _ = flags.GetString("log-dir")
	}
	if flags.Changed("backend") {
		backend, _ := flags.GetString("backend")
		cfg.Backend = strings.ToLower(backend)
	}
	return cfg.Validate()
}
