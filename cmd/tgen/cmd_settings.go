package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgen-network/tgen/pkg/cli"
	"github.com/tgen-network/tgen/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.tgen/settings.json.

Settings provide defaults for context flags:
  - default_testbed: Used when --testbed is not specified
  - default_session: Used when -s is not specified
  - log_dir:         Transcript directory for sessions without log_path

Examples:
  tgen settings show
  tgen settings set testbed /lab/testbed.yaml
  tgen settings set session ix1
  tgen settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

		t := cli.NewTable("SETTING", "VALUE")

		printSetting := func(name, value string) {
			if value == "" {
				value = "(not set)"
			}
			t.Row(name, value)
		}

		printSetting("default_testbed", s.DefaultTestbed)
		printSetting("default_session", s.DefaultSession)
		printSetting("log_dir", s.LogDir)
		printSetting("record_results", fmt.Sprintf("%v", s.RecordResults))

		t.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: `Set a persistent setting value.

Available settings:
  testbed        - Default testbed file (--testbed flag default)
  session        - Default session name (-s flag default)
  log_dir        - Transcript directory override
  record_results - Record raw replies in transcripts (true/false)

Examples:
  tgen settings set testbed /lab/testbed.yaml
  tgen settings set session ix1
  tgen settings set log_dir /var/log/tgen`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting := args[0]
		value := args[1]

		s, err := settings.Load()
		if err != nil {
			s = &settings.Settings{}
		}

		switch setting {
		case "testbed", "default_testbed":
			s.SetTestbed(value)
			fmt.Printf("Default testbed set to: %s\n", value)
		case "session", "default_session":
			s.SetSession(value)
			fmt.Printf("Default session set to: %s\n", value)
		case "log_dir":
			s.SetLogDir(value)
			fmt.Printf("Transcript directory set to: %s\n", value)
		case "record_results":
			s.RecordResults = value == "true"
			fmt.Printf("Record results set to: %v\n", s.RecordResults)
		default:
			return fmt.Errorf("unknown setting: %s (valid: testbed, session, log_dir, record_results)", setting)
		}

		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}

		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Get a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting := args[0]

		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		var value string
		switch setting {
		case "testbed", "default_testbed":
			value = s.DefaultTestbed
		case "session", "default_session":
			value = s.DefaultSession
		case "log_dir":
			value = s.LogDir
		case "record_results":
			value = fmt.Sprintf("%v", s.RecordResults)
		default:
			return fmt.Errorf("unknown setting: %s (valid: testbed, session, log_dir, record_results)", setting)
		}

		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("All settings cleared.")
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settings.DefaultSettingsPath())
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
