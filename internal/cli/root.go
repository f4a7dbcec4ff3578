package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webgme/webgme-setup-tool/pkg/version"
)

var globalOpts GlobalOptions

var rootCmd = &cobra.Command{
	Use:   "webgme-setup",
	Short: "Scaffold and run WebGME applications",
	Long: `webgme-setup creates the boilerplate of a WebGME application
(package.json, config files, app entry point, test fixtures) and runs it
through the package manager.`,
	Version:           version.GetVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: ensureDependencies,
}

// reportedError marks an error whose message was already shown to the
// user by the component that produced it.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command. Cancelling ctx stops init between
// steps and kills a running package manager. Errors not already shown are
// printed through the user-facing logger.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var re *reportedError
	if errors.As(err, &re) {
		return err
	}
	if deps != nil && deps.Out != nil {
		deps.Out.Error("Error: " + err.Error())
	} else {
		_, _ = fmt.Fprintln(os.Stderr, "Error: "+err.Error())
	}
	return err
}

func ensureDependencies(_ *cobra.Command, _ []string) error {
	if deps != nil {
		return nil
	}
	return InitDependencies(globalOpts)
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("webgme-setup %s\n", version.GetVersion()))

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalOpts.ConfigPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/webgme-setup/config.yaml)")
	flags.BoolVar(&globalOpts.NoColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&globalOpts.Verbose, "verbose", false, "Write debug logs to stderr")
}
