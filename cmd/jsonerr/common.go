package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jsonerr/internal/diag"
	"jsonerr/internal/diagfmt"
	"jsonerr/internal/project"
	"jsonerr/internal/source"
)

// errDiagnostics signals that diagnostics with errors were printed; main only
// needs the exit status.
var errDiagnostics = diag.ErrFailed

// loadManifest loads the manifest governing the first path and applies the
// global flag overrides. A broken manifest is printed as PRJ6001.
func loadManifest(cmd *cobra.Command, paths []string) (*project.Manifest, error) {
	start := "."
	if len(paths) > 0 {
		start = paths[0]
	}
	m, err := project.LoadOrDefault(start)
	if err != nil {
		reportManifestError(cmd, err)
		return nil, errDiagnostics
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiagnostics >= 0 {
		m.Config.Diagnostics.Max = maxDiagnostics
	}
	return m, nil
}

func reportManifestError(cmd *cobra.Command, err error) {
	bag := diag.NewBag(0)
	bag.Add(diag.Detached(diag.ProjBadManifest, "%v", err))
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, source.NewFileSet(), diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr)})
}

// baseDir returns the directory diagnostics paths are relative to.
func baseDir(m *project.Manifest) string {
	if m != nil && m.Root != "" {
		return m.Root
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

type renderOptions struct {
	format    string
	withNotes bool
	fullPath  bool
	color     bool
}

func readRenderOptions(cmd *cobra.Command) (renderOptions, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "short":
	default:
		return renderOptions{}, fmt.Errorf("unknown format %q (expected pretty|json|short)", format)
	}
	return renderOptions{
		format:    format,
		withNotes: withNotes,
		fullPath:  fullPath,
		color:     useColor(cmd, os.Stdout),
	}, nil
}

func addRenderFlags(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().String("format", defaultFormat, "diagnostics format (pretty|json|short)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// renderDiagnostics prints bag in the chosen format. Nothing is printed for
// an empty bag in pretty and short formats.
func renderDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts renderOptions) error {
	pathMode := diagfmt.PathModeAuto
	if opts.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch opts.format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     opts.withNotes,
		})
	case "short":
		if out := diag.FormatShortDiagnostics(bag.Items(), fs, opts.withNotes); out != "" {
			_, err := fmt.Fprintln(w, out)
			return err
		}
		return nil
	default:
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: opts.withNotes,
		})
		return nil
	}
}

// absPaths makes every argument absolute so results and outputs agree on paths.
func absPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	out := make([]string, len(args))
	for i, a := range args {
		p, err := filepath.Abs(a)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
