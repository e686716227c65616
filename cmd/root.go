package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"taptick/internal/config"
	"taptick/internal/output"
	"taptick/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "taptick",
	Short: "Fire precisely timed taps on an Android device",
	Long: `taptick lands taps on an Android device at an exact wall-clock instant.

It locates the target button in a uiautomator snapshot ahead of the deadline,
takes reference time from NTP (falling back to the local clock), then
converges on the target with a coarse sleep and a fine polling loop before
firing a batched device-side tap sequence.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("adb", "", `adb binary to invoke (default "adb", env TAPTICK_ADB)`)
	rootCmd.PersistentFlags().String("serial", "", "Device serial for adb -s (env TAPTICK_SERIAL)")
	rootCmd.PersistentFlags().String("ntp-server", "", `NTP server for reference time (default "pool.ntp.org", env TAPTICK_NTP_SERVER)`)
	rootCmd.PersistentFlags().String("env-file", "", "Load environment defaults from this file (default ./.env when present)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Env must load before flags fall back to TAPTICK_* values.
		envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}

		formatFlag, _ := rootCmd.PersistentFlags().GetString("format")
		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		output.OutputFormat = format

		if pretty, _ := rootCmd.PersistentFlags().GetBool("pretty"); pretty {
			output.PrettyOutput = true
		}
		return nil
	}
}
