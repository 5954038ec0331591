package commands

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (authenticate once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without re-authenticating.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\nStarting interactive session...")
			fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			commands := siblingCommands(cmd)
			scanner := bufio.NewScanner(cmd.InOrStdin())

			for {
				fmt.Fprint(out, "> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts, err := parseCommandLine(line)
				if err != nil {
					fmt.Fprintf(out, "Error parsing command: %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}
				cmdName := parts[0]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Fprintln(out, "Goodbye!")
					return nil
				}

				if cmdName == "help" {
					printInteractiveHelp(out, commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Fprintf(out, "Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				if err := runInSession(targetCmd, parts[1:]); err != nil {
					app.Logger.Debug("Interactive command failed", zap.String("command", cmdName), zap.Error(err))
					fmt.Fprintf(out, "%sError: %v%s\n\n", colorRed, err, colorReset)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

// siblingCommands returns the root's runnable commands, keyed by name
func siblingCommands(cmd *cobra.Command) map[string]*cobra.Command {
	commands := make(map[string]*cobra.Command)
	if cmd.Parent() == nil {
		return commands
	}
	for _, subCmd := range cmd.Parent().Commands() {
		switch subCmd.Name() {
		case cmd.Name(), "completion", "help":
			continue
		}
		commands[subCmd.Name()] = subCmd
	}
	return commands
}

// runInSession runs a command's RunE directly. The full Execute() flow would
// re-run PersistentPreRunE and authenticate again.
func runInSession(targetCmd *cobra.Command, args []string) error {
	// Flags keep their values between runs otherwise
	targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	})

	if err := targetCmd.ParseFlags(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	args = targetCmd.Flags().Args()

	if targetCmd.Args != nil {
		if err := targetCmd.Args(targetCmd, args); err != nil {
			return err
		}
	}

	switch {
	case targetCmd.RunE != nil:
		return targetCmd.RunE(targetCmd, args)
	case targetCmd.Run != nil:
		targetCmd.Run(targetCmd, args)
	}
	return nil
}

func printInteractiveHelp(w io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(w, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintln(w, "\n  help                           Show this help message")
	fmt.Fprintln(w, "  exit, quit                     Exit the interactive session")
}

// parseCommandLine splits a command line into arguments, respecting single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 outside quotes

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args, nil
}
