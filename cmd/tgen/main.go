// Tgen - Traffic Generator Automation Tool
//
// A CLI for driving traffic-generator chassis whose control surface is a
// line-oriented Tcl-style interpreter:
//   - Sessions over raw console, ssh, or an in-process interpreter
//   - Object-tree navigation (chassis → card → port → stream)
//   - Every command recorded in a replayable transcript
//
// OO CLI Pattern:
//
//	Context flags select the object; commands are methods on that object:
//
//	tgen -s <session> -o <object> <verb> [args]
//	     └───────────┬──────────┘  └─┬─┘
//	        Object Selection     Method Call
//
// Context flags:
//
//	-s, --session  Session name from the testbed file
//	-o, --object   Object path (e.g. chassis/card1/port2)
//
// Examples:
//
//	tgen -s ix1 eval "version"                       # Raw command
//	tgen -s ix1 -o chassis/port1 get speed           # Read attribute
//	tgen -s ix1 -o chassis/port1 set speed 1000      # Write attribute
//	tgen -s ix1 -o chassis/port1 invoke reset        # Call method
//	tgen -s ix1 -o chassis list port                 # List children
//	tgen -s ix1 replay /var/log/tgen/ix1.tcl         # Re-send a transcript
package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tgen-network/tgen/pkg/cli"
	"github.com/tgen-network/tgen/pkg/settings"
	"github.com/tgen-network/tgen/pkg/tgen/codec"
	"github.com/tgen-network/tgen/pkg/tgen/config"
	"github.com/tgen-network/tgen/pkg/tgen/entity"
	"github.com/tgen-network/tgen/pkg/tgen/session"
	"github.com/tgen-network/tgen/pkg/util"
	"github.com/tgen-network/tgen/pkg/version"
)

var (
	// Context flags (object selectors)
	sessionName string // -s, --session
	objectPath  string // -o, --object

	// Global option flags
	testbedPath   string
	errorMarkers  string
	verbose       bool
	recordResults bool

	// Global state
	userSettings *settings.Settings
	testbed      *config.Testbed
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "tgen",
	Short:             "Traffic Generator Automation Tool",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Tgen is an object-oriented CLI for driving traffic-generator chassis.

Context flags select the object; commands are methods on that object.
Sessions come from a testbed file (--testbed or settings).

  tgen -s <session> -o <object> <verb> [args]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for certain commands
		if isSettingsOrHelp(cmd) {
			return nil
		}

		// Load user settings
		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		// Apply defaults from settings
		if testbedPath == "" {
			testbedPath = userSettings.DefaultTestbed
		}
		if sessionName == "" {
			sessionName = userSettings.DefaultSession
		}
		if userSettings.RecordResults {
			recordResults = true
		}

		// Set log level: quiet by default, verbose on -v
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		if testbedPath == "" {
			return fmt.Errorf("testbed required: use --testbed <file> or 'tgen settings set testbed <file>'")
		}
		testbed, err = config.Load(testbedPath)
		if err != nil {
			return fmt.Errorf("loading testbed: %w", err)
		}
		return nil
	},
}

func init() {
	// Context flags (object selectors)
	rootCmd.PersistentFlags().StringVarP(&sessionName, "session", "s", "", "Session name (object selector)")
	rootCmd.PersistentFlags().StringVarP(&objectPath, "object", "o", "", "Object path (object selector)")

	// Option flags (global)
	rootCmd.PersistentFlags().StringVarP(&testbedPath, "testbed", "t", "", "Testbed file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&recordResults, "record-results", false, "Record raw replies in the transcript")
	rootCmd.PersistentFlags().StringVar(&errorMarkers, "error-markers", "", "Override error-reply markers (comma-separated)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "object", Title: "Object Operations:"},
		&cobra.Group{ID: "session", Title: "Session Operations:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{getCmd, setCmd, invokeCmd, listCmd} {
		cmd.GroupID = "object"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{evalCmd, replayCmd, shellCmd, sessionsCmd} {
		cmd.GroupID = "session"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if version.Version == "dev" {
			fmt.Println("tgen dev build (use 'make build' for version info)")
		} else {
			fmt.Printf("tgen %s (%s)\n", version.Version, version.GitCommit)
		}
	},
}

// ============================================================================
// Context Helpers
// ============================================================================

// openSession connects the session selected by -s (or the testbed default),
// prompting for a password when the transport needs one and the testbed
// carries none.
func openSession() (*session.Session, error) {
	cfg, err := testbed.SessionConfig(sessionName)
	if err != nil {
		return nil, err
	}

	if cfg.Kind == "ssh" && cfg.Transport.Password == "" {
		pw, err := promptPassword(cfg.Transport.User, cfg.Transport.Endpoint)
		if err != nil {
			return nil, err
		}
		cfg.Transport.Password = pw
	}

	if userSettings.LogDir != "" && cfg.LogPath == "" {
		cfg.LogPath = userSettings.LogDir + "/" + cfg.Name + ".tcl"
	}
	if recordResults {
		cfg.RecordResults = true
	}
	if markers := util.SplitCommaSeparated(errorMarkers); markers != nil {
		if cfg.Convention == nil {
			cfg.Convention = codec.DefaultConvention()
		}
		cfg.Convention.Markers = markers
	}

	return session.Connect(cfg)
}

// requireObject ensures an object path is specified via -o
func requireObject() (string, error) {
	if objectPath == "" {
		return "", fmt.Errorf("object required: use -o <path> flag")
	}
	return objectPath, nil
}

// objectNode opens the session and wraps the -o path as an entity node.
func objectNode() (*session.Session, *entity.Node, error) {
	path, err := requireObject()
	if err != nil {
		return nil, nil, err
	}
	sess, err := openSession()
	if err != nil {
		return nil, nil, err
	}
	return sess, entity.NewRoot(sess, path), nil
}

func promptPassword(user, endpoint string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", user, endpoint)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// ============================================================================
// Output Helpers
// ============================================================================

// printResult renders a decoded reply: scalars on one line, lists one
// element per line, failures to stderr with a non-zero exit.
func printResult(res codec.Result) error {
	if res.IsFailure() {
		f := res.Failure()
		fmt.Fprintf(os.Stderr, "%s %s\n", red(string(f.Kind)+":"), f.Text)
		return fmt.Errorf("command failed (%s)", f.Kind)
	}
	if res.IsList() {
		for _, item := range res.Items() {
			fmt.Println(item.String())
		}
		return nil
	}
	fmt.Println(res.Scalar())
	return nil
}

// Color helpers — delegate to pkg/cli
func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
func bold(s string) string   { return cli.Bold(s) }

// isSettingsOrHelp checks whether cmd (or any ancestor) is a settings, help, or version command.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings":
			return true
		}
	}
	return false
}
