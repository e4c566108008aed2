package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"jsonerr/internal/driver"
	"jsonerr/internal/project"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] [file.go|directory...]",
	Short: "Generate error responses and OpenAPI fragments",
	Long: `Compile every annotated error unit in the given files or directories
(the current directory by default) and write, next to each source file, the
generated Go code and its OpenAPI fragment. A file with any error writes nothing.`,
	RunE: runGen,
}

func init() {
	genCmd.Flags().Int("jobs", 0, "max parallel files (0=auto)")
	genCmd.Flags().Bool("log", true, "log internal cases before hiding them (overrides the manifest)")
	genCmd.Flags().String("internal-code", "", "code reported for internal errors (overrides the manifest)")
	genCmd.Flags().Bool("dry-run", false, "compile and report without writing files")
	genCmd.Flags().String("ui", "auto", "progress UI (auto|on|off); defaults to $JSONERR_UI")
	genCmd.Flags().Bool("disk-cache", false, "reuse results of unchanged files across runs")
	addRenderFlags(genCmd, "pretty")
}

// runGen drives one compilation. It returns errDiagnostics when any file
// failed so that the process exits non-zero after printing diagnostics.
func runGen(cmd *cobra.Command, args []string) error {
	paths, err := absPaths(args)
	if err != nil {
		return err
	}
	render, err := readRenderOptions(cmd)
	if err != nil {
		return err
	}
	manifest, err := loadManifest(cmd, paths)
	if err != nil {
		return err
	}
	if err := applyGenOverrides(cmd, &manifest.Config); err != nil {
		return err
	}

	opts, err := compileOptions(cmd, manifest)
	if err != nil {
		return err
	}
	if useCache, _ := cmd.Flags().GetBool("disk-cache"); useCache {
		cache, cacheErr := driver.OpenDiskCache("jsonerr")
		if cacheErr != nil {
			log.Warn().Err(cacheErr).Msg("disk cache disabled")
		} else {
			opts.Cache = cache
		}
	}
	if opts.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	files, err := driver.ExpandPaths(paths, manifest.Config.Generate)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn().Strs("paths", paths).Msg("no Go files found")
		return nil
	}

	mode, err := uiModeFromCommand(cmd)
	if err != nil {
		return err
	}

	var res *driver.Result
	if mode.useProgressUI(currentProgressTarget(len(files), render.format)) {
		res, err = runCompileWithUI(cmd.Context(), "jsonerr gen", files, opts)
	} else {
		res, err = driver.Compile(cmd.Context(), files, opts)
	}
	if err != nil {
		if res != nil {
			_ = renderDiagnostics(cmd.ErrOrStderr(), res.Diagnostics(), res.FileSet, render)
		}
		return err
	}

	if err := renderDiagnostics(cmd.OutOrStdout(), res.Diagnostics(), res.FileSet, render); err != nil {
		return err
	}
	if opts.Timings {
		printFileTimings(cmd.ErrOrStderr(), res, opts.BaseDir)
	}
	if render.format == "pretty" {
		printGenSummary(cmd, res, opts.DryRun)
	}
	if res.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// applyGenOverrides copies explicitly set flags over the manifest values.
func applyGenOverrides(cmd *cobra.Command, cfg *project.Config) error {
	if cmd.Flags().Changed("log") {
		v, err := cmd.Flags().GetBool("log")
		if err != nil {
			return fmt.Errorf("failed to get log flag: %w", err)
		}
		cfg.Generate.Log = v
	}
	if cmd.Flags().Changed("internal-code") {
		v, err := cmd.Flags().GetString("internal-code")
		if err != nil {
			return fmt.Errorf("failed to get internal-code flag: %w", err)
		}
		cfg.Generate.InternalCode = v
	}
	return cfg.Validate()
}

// compileOptions builds the driver options shared by gen, diag and explain.
func compileOptions(cmd *cobra.Command, m *project.Manifest) (driver.Options, error) {
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	jobs := 0
	if f := cmd.Flags().Lookup("jobs"); f != nil {
		if jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	return driver.Options{
		Config:  m.Config,
		Jobs:    jobs,
		Timings: timings,
		BaseDir: baseDir(m),
	}, nil
}

func printGenSummary(cmd *cobra.Command, res *driver.Result, dryRun bool) {
	var written, cached, failed int
	for _, fr := range res.Files {
		switch {
		case fr == nil:
		case fr.Failed():
			failed++
		case fr.Written:
			written++
			if fr.Cached {
				cached++
			}
		}
	}
	out := cmd.ErrOrStderr()
	if dryRun {
		fmt.Fprintf(out, "jsonerr: %d files checked, %d failed (dry run)\n", len(res.Files), failed)
		return
	}
	fmt.Fprintf(out, "jsonerr: %d files, %d written (%d cached), %d failed\n", len(res.Files), written, cached, failed)
}
