package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webgme/webgme-setup-tool/internal/core/project"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Install dependencies and start the app",
	Long: `Run "<package manager> install" in the project and, when it succeeds,
"<package manager> start". The project is the nearest directory containing
webgme-setup.json, or the current directory when there is none.

The package manager defaults to npm and can be changed with the
package_manager config key or WEBGME_SETUP_PACKAGE_MANAGER.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().Bool("legacy-output-check", false, "Treat any install output as a failure")
}

func runStart(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	root, err := project.FindProjectRootOrCurrent(cwd)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	deps.Logger.Debug("starting project", "root", root)

	runner := deps.NewRunner(root, getBoolFlag(cmd, "legacy-output-check"))
	err = runner.Start(cmd.Context())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		// Ctrl-C stops the dev server; not a failure.
		deps.Out.Write("Stopped.")
		return nil
	case isContextErr(err):
		return err
	default:
		return reported(err)
	}
}
