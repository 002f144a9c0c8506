package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgen-network/tgen/pkg/tgen/entity"
	"github.com/tgen-network/tgen/pkg/tgen/session"
)

// Shell provides an interactive REPL with a persistent session.
type Shell struct {
	sess     *session.Session
	node     *entity.Node // current object context
	reader   *bufio.Reader
	commands map[string]func(args []string)
}

// NewShell creates a new interactive shell for the given session.
func NewShell(sess *session.Session, root *entity.Node) *Shell {
	s := &Shell{
		sess:   sess,
		node:   root,
		reader: bufio.NewReader(os.Stdin),
	}
	s.commands = map[string]func(args []string){
		"eval":   s.cmdEval,
		"get":    s.cmdGet,
		"set":    s.cmdSet,
		"invoke": s.cmdInvoke,
		"list":   s.cmdList,
		"cd":     s.cmdCd,
		"pwd":    func([]string) { fmt.Println(s.node.Path()) },
		"help":   func([]string) { s.cmdHelp() },
		"?":      func([]string) { s.cmdHelp() },
	}
	return s
}

// Run starts the interactive shell loop.
func (s *Shell) Run() error {
	fmt.Printf("Connected to %s.\n", bold(s.sess.Name()))
	if path := s.sess.TranscriptPath(); path != "" {
		fmt.Printf("Transcript: %s\n", path)
	}
	fmt.Println("Type 'help' for available commands.")

	for {
		fmt.Print(s.prompt())

		line, err := s.reader.ReadString('\n')
		if err != nil { // EOF
			fmt.Println("Disconnecting...")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		cmd := args[0]

		switch cmd {
		case "quit", "exit", "q":
			fmt.Println("Disconnecting...")
			return nil
		default:
			if fn, ok := s.commands[cmd]; ok {
				fn(args[1:])
			} else {
				fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
			}
		}
	}
}

// prompt returns the current prompt string.
func (s *Shell) prompt() string {
	return fmt.Sprintf("%s:%s> ", s.sess.Name(), s.node.Path())
}

func (s *Shell) cmdEval(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: eval <command...>")
		return
	}
	res, err := s.sess.Call(context.Background(), strings.Join(args, " "))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printResult(res)
}

func (s *Shell) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: get <attribute>")
		return
	}
	printResult(s.node.GetAttribute(context.Background(), args[0]))
}

func (s *Shell) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: set <attribute> <value>")
		return
	}
	value := strings.Join(args[1:], " ")
	res := s.node.SetAttribute(context.Background(), args[0], value)
	if res.IsFailure() {
		printResult(res)
		return
	}
	fmt.Println(green("OK"))
}

func (s *Shell) cmdInvoke(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: invoke <method> [args...]")
		return
	}
	extra := make([]interface{}, len(args)-1)
	for i, a := range args[1:] {
		extra[i] = a
	}
	printResult(s.node.Invoke(context.Background(), args[0], extra...))
}

func (s *Shell) cmdList(args []string) {
	kind := ""
	if len(args) > 0 {
		kind = args[0]
	}
	children, err := s.node.Children(context.Background(), kind)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, child := range children {
		fmt.Printf("  %s\n", child.Path())
	}
	if len(children) == 0 {
		fmt.Println("  (none)")
	}
}

// cmdCd changes the object context: 'cd <child>' descends, 'cd ..'
// ascends, 'cd /<path>' jumps to an absolute path.
func (s *Shell) cmdCd(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: cd <child|..|/path>")
		return
	}
	target := args[0]

	switch {
	case target == "..":
		if parent := s.node.Parent(); parent != nil {
			s.node = parent
		} else {
			fmt.Println("Already at the root.")
		}
	case strings.HasPrefix(target, "/"):
		path := strings.TrimPrefix(target, "/")
		if found := s.node.FindByPath(path); found != nil {
			s.node = found
		} else {
			// Not cached; wrap the path directly.
			s.node = entity.NewRoot(s.sess, path)
		}
	default:
		// Descend into a cached child, listing on demand.
		if found := s.node.FindByPath(s.node.Path() + "/" + target); found != nil {
			s.node = found
			return
		}
		children, err := s.node.Children(context.Background(), "")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		for _, child := range children {
			if child.Name() == target {
				s.node = child
				return
			}
		}
		fmt.Printf("No child %q under %s\n", target, s.node.Path())
	}
}

// cmdHelp displays available commands.
func (s *Shell) cmdHelp() {
	fmt.Println("Commands:")
	fmt.Println("  eval <command...>        Send a raw command")
	fmt.Println("  get <attr>               Read an attribute of the current object")
	fmt.Println("  set <attr> <value>       Write an attribute of the current object")
	fmt.Println("  invoke <method> [args]   Call a method on the current object")
	fmt.Println("  list [kind]              List children of the current object")
	fmt.Println("  cd <child|..|/path>      Change the current object")
	fmt.Println("  pwd                      Show the current object path")
	fmt.Println("  quit                     Disconnect")
	fmt.Println("  help                     Show this help")
}

// shellCmd is the cobra command for the interactive shell.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell with a persistent session",
	Long: `Start an interactive shell with a persistent session.

The shell provides a REPL with:
  - Persistent session (connected on entry, closed on quit)
  - Object context navigation (cd <child> / cd .. / pwd)
  - Raw commands alongside object operations
  - The usual transcript capture

Examples:
  tgen -s ix1 shell
  tgen -s ix1 -o chassis shell`,
	Aliases: []string{"sh"},
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		root := objectPath
		if root == "" {
			root = "chassis"
		}
		sh := NewShell(sess, entity.NewRoot(sess, root))
		return sh.Run()
	},
}
