package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgen-network/tgen/pkg/cli"
)

var evalAsync bool

var evalCmd = &cobra.Command{
	Use:   "eval <command...>",
	Short: "Send a raw command to the interpreter",
	Long: `Send one command verbatim and print the decoded reply.

Examples:
  tgen -s ix1 eval version
  tgen -s ix1 eval "chassis cget -hostname"
  tgen -s ix1 eval --async "logger start"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		command := strings.Join(args, " ")
		if evalAsync {
			return sess.CallAsync(context.Background(), command)
		}
		res, err := sess.Call(context.Background(), command)
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <attribute>",
	Short: "Read an object attribute",
	Long: `Read one attribute of the object selected by -o.

Examples:
  tgen -s ix1 -o chassis/port1 get speed
  tgen -s ix1 -o chassis get hostname`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, node, err := objectNode()
		if err != nil {
			return err
		}
		defer sess.Close()

		return printResult(node.GetAttribute(context.Background(), args[0]))
	},
}

var setCmd = &cobra.Command{
	Use:   "set <attribute> <value>",
	Short: "Write an object attribute",
	Long: `Write one attribute of the object selected by -o.

Examples:
  tgen -s ix1 -o chassis/port1 set speed 1000
  tgen -s ix1 -o chassis/port1 set name "uplink to core"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, node, err := objectNode()
		if err != nil {
			return err
		}
		defer sess.Close()

		res := node.SetAttribute(context.Background(), args[0], args[1])
		if res.IsFailure() {
			return printResult(res)
		}
		fmt.Println(green("OK"))
		return nil
	},
}

var invokeCmd = &cobra.Command{
	Use:   "invoke <method> [args...]",
	Short: "Call a method on an object",
	Long: `Call a method-style command on the object selected by -o.

Examples:
  tgen -s ix1 -o chassis/port1 invoke reset
  tgen -s ix1 -o chassis invoke reserve -user alice`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, node, err := objectNode()
		if err != nil {
			return err
		}
		defer sess.Close()

		extra := make([]interface{}, len(args)-1)
		for i, a := range args[1:] {
			extra[i] = a
		}
		return printResult(node.Invoke(context.Background(), args[0], extra...))
	},
}

var listCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List child objects",
	Long: `List the children of the object selected by -o, optionally
filtered by kind.

Examples:
  tgen -s ix1 -o chassis list
  tgen -s ix1 -o chassis/card1 list port`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, node, err := objectNode()
		if err != nil {
			return err
		}
		defer sess.Close()

		kind := ""
		if len(args) > 0 {
			kind = args[0]
		}
		children, err := node.Children(context.Background(), kind)
		if err != nil {
			return err
		}
		for _, child := range children {
			fmt.Println(child.Path())
		}
		if len(children) == 0 {
			fmt.Println("(none)")
		}
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List testbed sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := cli.NewTable("SESSION", "TRANSPORT", "ENDPOINT")
		for _, name := range testbed.SessionNames() {
			def := testbed.Sessions[name]
			marker := name
			if name == testbed.Default {
				marker = name + " *"
			}
			t.Row(marker, def.Transport, def.Endpoint)
		}
		t.Flush()
		return nil
	},
}

func init() {
	evalCmd.Flags().BoolVar(&evalAsync, "async", false, "Send without waiting for a reply")
}
