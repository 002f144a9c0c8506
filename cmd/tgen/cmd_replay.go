package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var replayContinue bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-send a transcript file",
	Long: `Re-send the commands of a transcript file over the selected
session, in order. Comment lines (including recorded results) and blank
lines are skipped.

Examples:
  tgen -s ix1 replay /var/log/tgen/ix1.tcl
  tgen -s ix2 replay setup.tcl --continue-on-error`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening transcript: %w", err)
		}
		defer f.Close()

		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		ctx := context.Background()
		scanner := bufio.NewScanner(f)
		lineNo, sent, failed := 0, 0, 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			res, err := sess.Call(ctx, line)
			if err != nil {
				return err
			}
			sent++
			if res.IsFailure() {
				failed++
				fmt.Fprintf(os.Stderr, "%s line %d: %s\n", red("FAIL"), lineNo, res.Failure().Text)
				if !replayContinue {
					return fmt.Errorf("replay stopped at line %d", lineNo)
				}
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading transcript: %w", err)
		}

		if failed > 0 {
			fmt.Printf("Replayed %d commands, %s.\n", sent, red(fmt.Sprintf("%d failed", failed)))
			return fmt.Errorf("replay finished with failures")
		}
		fmt.Printf("Replayed %d commands %s.\n", sent, green("successfully"))
		return nil
	},
}

func init() {
	replayCmd.Flags().BoolVar(&replayContinue, "continue-on-error", false, "Keep replaying after a failed command")
}
