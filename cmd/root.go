package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (invalid configuration, startup failure).
	ExitCodeError = 1
	// ExitCodeCheckFailed indicates that `docsync check` ran but some routes or
	// the configuration source failed.
	ExitCodeCheckFailed = 2
)

// CheckFailedError is returned by `docsync check` when the pass completed with
// failures.
type CheckFailedError struct {
	SourceFailed bool
	Failures     int
}

func (e *CheckFailedError) Error() string {
	if e.SourceFailed {
		return "configuration source could not be read"
	}
	return fmt.Sprintf("%d route(s) failed", e.Failures)
}

// rootCmd represents the base command for the docsync application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Keep a cache of service API documents in sync with their routes",
	Long: `docsync periodically reads a list of service routes, fetches the API
document each route points at (from disk, over HTTP or from a Kubernetes
ConfigMap) and keeps a session store of documents up to date: new routes are
added, changed documents are replaced and removed routes are pruned.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "docsync version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var checkFailed *CheckFailedError
	if errors.As(err, &checkFailed) {
		return ExitCodeCheckFailed
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
