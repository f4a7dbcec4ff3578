package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webgme/webgme-setup-tool/internal/core/project"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new WebGME project",
	Long: `Create a new WebGME project.

Usage patterns:
  webgme-setup init <name>   Create ./<name>/ and initialize the project inside it
  webgme-setup init          Initialize the project in the current directory

The target directory must not exist when a name is given. Without a name
the current directory must not already contain webgme-setup.json; an
existing package.json is merged, an existing .gitignore is kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation when initializing the current directory")
}

func runInit(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	}

	if name == "" && !getBoolFlag(cmd, "yes") && deps.Confirmer != nil {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		if exists, err := project.HasDescriptor(cwd); err != nil || exists {
			// Init reports the precondition failure.
			return initProject(cmd, name)
		}
		ok, err := deps.Confirmer.Confirm(
			"Create a WebGME project here?",
			"Files will be added to "+cwd+".",
		)
		if err != nil {
			return err
		}
		if !ok {
			deps.Out.Write("Aborted.")
			return nil
		}
	}

	return initProject(cmd, name)
}

func initProject(cmd *cobra.Command, name string) error {
	result, err := deps.Initializer.Init(cmd.Context(), project.InitOptions{Name: name})
	if err != nil {
		if isContextErr(err) {
			return err
		}
		return reported(err)
	}

	if deps.Theme != nil && !deps.Theme.NoColor {
		if summary, err := renderSummary(result, deps.Config.PackageManager); err == nil {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), summary)
		} else {
			deps.Logger.Debug("summary render failed", "error", err)
		}
	}
	return nil
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
