package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"jsonerr/internal/driver"
)

var explainCmd = &cobra.Command{
	Use:   "explain [flags] <file.go> <Unit> <Case>",
	Short: "Show the JSON error a case converts to",
	Long: `Compile <file.go> and print the error response produced by the given case.
The --payload value is decoded as JSON when it parses and used as a string
otherwise. Internal cases print the hidden response and their log record.`,
	Args: cobra.ExactArgs(3),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().String("payload", "", "payload value of the case (JSON or plain string)")
	addRenderFlags(explainCmd, "pretty")
}

type explanation struct {
	Unit     string `json:"unit"`
	Case     string `json:"case"`
	Kind     string `json:"kind"`
	Response any    `json:"response"`
	// Log is the record written for an internal case.
	Log string `json:"log,omitempty"`
}

func runExplain(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	unitName, caseName := args[1], args[2]
	render, err := readRenderOptions(cmd)
	if err != nil {
		return err
	}
	raw, err := cmd.Flags().GetString("payload")
	if err != nil {
		return fmt.Errorf("failed to get payload flag: %w", err)
	}

	manifest, err := loadManifest(cmd, []string{path})
	if err != nil {
		return err
	}
	opts, err := compileOptions(cmd, manifest)
	if err != nil {
		return err
	}
	opts.DryRun = true

	res, err := driver.Compile(cmd.Context(), []string{path}, opts)
	if err != nil {
		return err
	}
	if res.HasErrors() {
		if err := renderDiagnostics(cmd.ErrOrStderr(), res.Diagnostics(), res.FileSet, render); err != nil {
			return err
		}
		return errDiagnostics
	}

	fr, ok := res.File(path)
	if !ok {
		return fmt.Errorf("%s: not a Go source file", args[0])
	}
	_, table, ok := fr.Unit(unitName)
	if !ok {
		return fmt.Errorf("%s: no error unit %q", args[0], unitName)
	}
	rule, ok := table.Rule(caseName)
	if !ok {
		return fmt.Errorf("%s: unit %s has no case %q", args[0], unitName, caseName)
	}

	out := explanation{
		Unit:     unitName,
		Case:     caseName,
		Kind:     "request",
		Response: rule.Convert(decodePayload(raw, rule.Naive)),
	}
	if rule.Internal {
		out.Kind = "internal"
		if rule.Log {
			out.Log = rule.Record
			if !rule.Naive && raw != "" {
				out.Log += " " + raw
			}
		}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// decodePayload turns the --payload flag into a value. Naive cases have none.
func decodePayload(raw string, naive bool) any {
	if naive || raw == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
