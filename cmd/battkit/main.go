package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/battkit/battkit/internal/client"
	"github.com/battkit/battkit/pkg/battery"
	"github.com/battkit/battkit/pkg/version"
)

var (
	logLevel   = "info"
	configPath = "/etc/battkit.toml"
	debug      = false
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	if debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, battery.ErrNoBattery) {
		fmt.Fprintln(os.Stderr, "\nError: no battery detected on this machine")
		fmt.Fprintln(os.Stderr, "battkit only works on devices with battery hardware.")
	} else if errors.Is(err, battery.ErrUnsupportedPlatform) {
		fmt.Fprintln(os.Stderr, "\nError: this operating system is not supported")
	} else if errors.Is(err, client.ErrServerUnreachable) {
		fmt.Fprintln(os.Stderr, "\nError: battkit server is not reachable")
		fmt.Fprintln(os.Stderr, "Is the server running? Start it with 'battkit serve'.")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battkit",
		Short: "battkit reads battery status and health on laptops",
		Long: `battkit reads battery status, capacity and health information
through OS-native mechanisms and presents it in a uniform way.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.BoolVar(&debug, "debug", false, "log individual metric read failures")

	cmd.AddCommand(
		NewStatusCommand(),
		NewServeCommand(),
		NewVersionCommand(),
	)

	return cmd
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}
