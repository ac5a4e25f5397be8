package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/neocad/logger"
)

const shellPrompt = "neocad> "

// NewShellCmd builds the interactive shell bound to s.
func NewShellCmd(s *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run inspect, query and list repeatedly against one loaded database",
		Long: `Load the data files once, then read inspect, query and list command lines
from standard input. Quote arguments as in a POSIX shell.

Type "help" for usage and "exit" or "quit" (or send EOF) to leave.

Example session:
  neocad> inspect --name Eros
  neocad> query --date 2020-01-01 --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := s.Database(cmd.Context()); err != nil {
				return err
			}
			return runShell(cmd, s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// newShellRoot builds a fresh command tree for one shell line so flag values
// never leak from one line into the next.
func newShellRoot(s *Session, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "neocad>",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewInspectCmd(s), NewQueryCmd(s), NewListCmd(s))
	root.SetOut(out)
	root.SetErr(out)
	root.CompletionOptions.DisableDefaultCmd = true
	return root
}

func runShell(cmd *cobra.Command, s *Session, in io.Reader, out io.Writer) error {
	log := logger.LoggerFromContext(cmd.Context())
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, shellPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		args, err := shellquote.Split(line)
		if err != nil {
			pterm.Fprintln(out, pterm.Red("error: ")+err.Error())
			continue
		}
		root := newShellRoot(s, out)
		root.SetArgs(args)
		if err := root.ExecuteContext(cmd.Context()); err != nil {
			log.Debugw("Shell command failed", "line", line, logger.FieldError, err)
			pterm.Fprintln(out, pterm.Red("error: ")+err.Error())
		}
	}

	return scanner.Err()
}
