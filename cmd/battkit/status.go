package main

import (
	"encoding/json"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/battkit/battkit/internal/client"
	"github.com/battkit/battkit/pkg/battery"
	"github.com/battkit/battkit/pkg/config"
	"github.com/battkit/battkit/pkg/units"
)

// metricLabels maps snapshot keys to their display names.
var metricLabels = map[string]string{
	battery.KeyPercent:           "Charge",
	battery.KeyPowerStatus:       "Power status",
	battery.KeyDesignCapacity:    "Design capacity",
	battery.KeyRemainingCapacity: "Remaining capacity",
	battery.KeyChargeRate:        "Charge rate",
	battery.KeyFastCharge:        "Fast charge",
	battery.KeyManufacturer:      "Manufacturer",
	battery.KeyTechnology:        "Technology",
	battery.KeyCycleCount:        "Cycle count",
	battery.KeyHealth:            "Health",
	battery.KeyVoltage:           "Voltage",
	battery.KeyTemperature:       "Temperature",
}

func NewStatusCommand() *cobra.Command {
	var (
		jsonOutput bool
		serverURL  string
		noCache    bool
		sequential bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current battery status",
		Long: `Show the full battery snapshot: charge, capacities, charge rate,
health, and specification data. Metrics the hardware does not expose
are shown as "n/a".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchSnapshot(serverURL, !noCache, !sequential)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(data)
			}

			printSnapshot(cmd, data)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&jsonOutput, "json", false, "output as JSON")
	flags.StringVar(&serverURL, "server", "", "fetch from a running battkit server, e.g. http://127.0.0.1:9377")
	flags.BoolVar(&noCache, "no-cache", false, "bypass the snapshot cache")
	flags.BoolVar(&sequential, "sequential", false, "collect metrics one by one instead of in parallel")

	return cmd
}

func fetchSnapshot(serverURL string, useCache, parallel bool) (map[string]string, error) {
	if serverURL != "" {
		return client.NewClient(serverURL).GetSnapshot(useCache)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	bat, err := battery.New(cfg.BatteryOptions(debug))
	if err != nil {
		return nil, err
	}
	return bat.GetResult(useCache, parallel), nil
}

func printSnapshot(cmd *cobra.Command, data map[string]string) {
	cmd.Println(bold("Battery status:"))
	for _, key := range battery.MetricKeys {
		value := data[key]
		if value == "" {
			value = units.Unavailable
		}
		cmd.Printf("  %s: %s\n", metricLabels[key], colorValue(key, value))
	}
	if generated, ok := data[battery.KeyGenerated]; ok {
		cmd.Println()
		cmd.Printf("  Generated: %s\n", generated)
	}
}

// colorValue highlights the values a human looks at first. Placeholders
// stay dim so missing data does not read as an alarming state.
func colorValue(key, value string) string {
	if value == units.Unavailable {
		return color.New(color.Faint).Sprint(value)
	}

	switch key {
	case battery.KeyPowerStatus:
		if value == "Plugged In" {
			return color.New(color.Bold, color.FgGreen).Sprint(value)
		}
		return color.New(color.Bold, color.FgYellow).Sprint(value)
	case battery.KeyChargeRate:
		if strings.Contains(value, "Charging") {
			return color.New(color.Bold, color.FgGreen).Sprint(value)
		}
		if strings.Contains(value, "Discharging") {
			return color.New(color.Bold, color.FgRed).Sprint(value)
		}
		return bold("%s", value)
	default:
		return bold("%s", value)
	}
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
