// Package cmd implements the viewtree CLI commands.
//
// The root command dispatches to subcommands (states, play, demo,
// snapshot). Scene commands take an optional path to a scene file and
// fall back to viewtree.yaml in the working directory.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "viewtree",
	Short: "viewtree - view lifecycle scenes",
	Long: `viewtree drives a tree of views through its lifecycle: rendering,
attaching, showing, hiding and deferred removal behind exit transitions.
Scenes are described in yaml and rendered to the terminal or to PNG.

Use "viewtree <command> --help" for more information about a command.`,
	Usage: "viewtree <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// logLevel is raised to debug by --verbose.
var logLevel = new(slog.LevelVar)

// Execute runs the CLI with the arguments from os.Args.
func Execute() error {
	return execute(os.Args[1:])
}

func execute(args []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	args, done := globalFlags(args)
	if done {
		return nil
	}
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", args[0])
	}
	if slices.ContainsFunc(args[1:], isHelp) {
		printCommandHelp(cmd)
		return nil
	}
	return cmd.Run(args[1:])
}

func isHelp(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

// globalFlags strips --verbose from args. Help and version are only global
// before the command name; done reports that one of them was handled.
func globalFlags(args []string) (rest []string, done bool) {
	for _, arg := range args {
		if len(rest) == 0 {
			switch {
			case isHelp(arg):
				printHelp(rootCmd)
				return nil, true
			case arg == "-v" || arg == "--version" || arg == "version":
				fmt.Printf("viewtree version %s (built %s)\n", Version, BuildTime)
				return nil, true
			}
		}
		if arg == "--verbose" {
			logLevel.Set(slog.LevelDebug)
			continue
		}
		rest = append(rest, arg)
	}
	return rest, false
}

// flagValue returns the value following args[i], or an error naming the
// flag when it is missing.
func flagValue(args []string, i int) (string, error) {
	if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
		return "", fmt.Errorf("%s requires a value", args[i])
	}
	return args[i+1], nil
}

func printHelp(cmd *Command) {
	fmt.Printf("%s\n\nUsage:\n  %s\n\nCommands:\n", cmd.Long, cmd.Usage)
	for _, sub := range cmd.SubCommands {
		fmt.Printf("  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Print(`
Flags:
  -h, --help           Show help for a command
  -v, --version        Show version information
  --verbose            Log scene steps and diagnostics at debug level

Examples:
  viewtree states                 Print the lifecycle state table
  viewtree play scene.yaml        Run a scene's script in the terminal
  viewtree snapshot -o out.png    Paint viewtree.yaml to an image
`)
}

func printCommandHelp(cmd *Command) {
	fmt.Printf("%s\n\nUsage:\n  %s\n", cmd.Long, cmd.Usage)
}
