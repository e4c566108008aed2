package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"jsonerr/internal/driver"
	"jsonerr/internal/ir"
	"jsonerr/internal/lower/response"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.go|directory...]",
	Short: "Check annotated error units without writing anything",
	Long: `Run the compiler over the given files or directories and print the
diagnostics. Optionally dump the intermediate representation or the response
table of every unit that compiled.`,
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().Int("jobs", 0, "max parallel files (0=auto)")
	diagCmd.Flags().String("emit-ir", "", "dump unit snapshots after analysis (json|msgpack)")
	diagCmd.Flags().Bool("emit-table", false, "dump the response table of every unit")
	addRenderFlags(diagCmd, "pretty")
}

// runDiagnose is gen with DryRun forced on plus the dump flags.
func runDiagnose(cmd *cobra.Command, args []string) error {
	paths, err := absPaths(args)
	if err != nil {
		return err
	}
	render, err := readRenderOptions(cmd)
	if err != nil {
		return err
	}
	emitIR, err := cmd.Flags().GetString("emit-ir")
	if err != nil {
		return fmt.Errorf("failed to get emit-ir flag: %w", err)
	}
	emitIR = strings.ToLower(strings.TrimSpace(emitIR))
	switch emitIR {
	case "", "json", "msgpack":
	default:
		return fmt.Errorf("unknown --emit-ir value %q (expected json|msgpack)", emitIR)
	}
	emitTable, err := cmd.Flags().GetBool("emit-table")
	if err != nil {
		return fmt.Errorf("failed to get emit-table flag: %w", err)
	}

	manifest, err := loadManifest(cmd, paths)
	if err != nil {
		return err
	}
	opts, err := compileOptions(cmd, manifest)
	if err != nil {
		return err
	}
	opts.DryRun = true

	res, err := driver.Compile(cmd.Context(), paths, opts)
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

	if emitIR != "" {
		if err := emitSnapshots(cmd.OutOrStdout(), res, emitIR); err != nil {
			return err
		}
	}
	if emitTable {
		if err := emitTables(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	}

	if res.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// emitSnapshots writes the snapshots of every compiled unit as one document.
func emitSnapshots(w io.Writer, res *driver.Result, format string) error {
	snaps := make([]ir.Snapshot, 0)
	for _, fr := range res.Files {
		if fr == nil {
			continue
		}
		for _, u := range fr.Units {
			snaps = append(snaps, u.Snapshot())
		}
	}
	if format == "msgpack" {
		data, err := msgpack.Marshal(snaps)
		if err != nil {
			return fmt.Errorf("encode snapshots: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snaps)
}

func emitTables(w io.Writer, res *driver.Result) error {
	for _, fr := range res.Files {
		if fr == nil || len(fr.Tables) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "# %s\n", fr.Path); err != nil {
			return err
		}
		for _, t := range fr.Tables {
			if err := response.Dump(w, t); err != nil {
				return err
			}
		}
	}
	return nil
}
