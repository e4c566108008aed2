package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jsonerr/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a jsonerr.toml manifest with default settings",
	Long: `Create a jsonerr.toml manifest in [dir] (the current directory by default).
The directory is created when it does not exist; an existing manifest is never
overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", target)
	}

	path, err := project.Init(target)
	if err != nil {
		if errors.Is(err, project.ErrManifestExists) {
			return fmt.Errorf("%s already exists", path)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
