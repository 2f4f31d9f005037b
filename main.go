// Command knowyourdrug checks a selection of drugs for known pairwise interactions.
// It runs as a one-shot CLI (check, drugs) or as an HTTP API (serve).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitError carries a process exit code through cobra's error return
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "knowyourdrug",
		Short:         "Drug interaction checker",
		Long:          "Checks every pair of the selected drugs against an interaction table and reports the worst severity found.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(drugsCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
