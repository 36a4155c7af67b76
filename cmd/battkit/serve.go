package main

import (
	"github.com/spf13/cobra"

	"github.com/battkit/battkit/internal/server"
	"github.com/battkit/battkit/pkg/battery"
	"github.com/battkit/battkit/pkg/config"
)

func NewServeCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the battkit HTTP server",
		Long: `Run an HTTP server exposing battery snapshots, so status bars and
remote battkit invocations can read them without touching the hardware
themselves.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			bat, err := battery.New(cfg.BatteryOptions(debug))
			if err != nil {
				return err
			}

			addr := cfg.Listen
			if listen != "" {
				addr = listen
			}
			return server.Run(addr, bat)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address, overrides the config file (default 127.0.0.1:9377)")

	return cmd
}
