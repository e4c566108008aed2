package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jsonerr/jsonresp/openapi"
)

var combineCmd = &cobra.Command{
	Use:   "combine [--write] <fragment.json> <A> <B>",
	Short: "Document two responses sharing a status as one",
	Long: `Combine the artifacts A and B of a fragment into AOrB, whose schema is
oneOf the two definitions. Both must document the same status. The combined
artifact is printed; --write adds it to the fragment instead.`,
	Args: cobra.ExactArgs(3),
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().Bool("write", false, "add the combined artifact to the fragment file")
}

func runCombine(cmd *cobra.Command, args []string) error {
	path, nameA, nameB := args[0], args[1], args[2]
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}

	frag, err := openapi.ReadFragment(path)
	if err != nil {
		return err
	}
	a, ok := frag.Artifact(nameA)
	if !ok {
		return fmt.Errorf("%s: no artifact %q", path, nameA)
	}
	b, ok := frag.Artifact(nameB)
	if !ok {
		return fmt.Errorf("%s: no artifact %q", path, nameB)
	}
	combined, err := openapi.Combine(a, b)
	if err != nil {
		return err
	}

	if write {
		frag.Add(combined)
		data, err := frag.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", combined.Name, path)
		return nil
	}

	single := openapi.NewFragment()
	single.Add(combined)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(single)
}
