package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-openapi/spec"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"jsonerr/jsonresp/openapi"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Work with generated OpenAPI fragments",
}

var docsMergeCmd = &cobra.Command{
	Use:   "merge --into swagger.json [--out file] <fragment.json...>",
	Short: "Merge fragments into a Swagger 2.0 document",
	Long: `Copy the definitions and responses of every fragment into the document
given by --into. Entries with the same name are replaced. The result is written
back to --into unless --out is set ("-" writes to stdout).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocsMerge,
}

var docsEnvelopeCmd = &cobra.Command{
	Use:   "envelope [--content ref] [--meta ref]",
	Short: "Print the schema of the success envelope",
	Args:  cobra.NoArgs,
	RunE:  runDocsEnvelope,
}

func init() {
	docsMergeCmd.Flags().String("into", "", "swagger document to merge into")
	docsMergeCmd.Flags().String("out", "", "output path (defaults to --into)")
	_ = docsMergeCmd.MarkFlagRequired("into")

	docsEnvelopeCmd.Flags().String("content", "", "$ref of the content schema")
	docsEnvelopeCmd.Flags().String("meta", "", "$ref of the meta schema")

	docsCmd.AddCommand(docsMergeCmd)
	docsCmd.AddCommand(docsEnvelopeCmd)
}

func runDocsMerge(cmd *cobra.Command, args []string) error {
	into, err := cmd.Flags().GetString("into")
	if err != nil {
		return fmt.Errorf("failed to get into flag: %w", err)
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	if out == "" {
		out = into
	}

	data, err := os.ReadFile(into)
	if err != nil {
		return err
	}
	var sw spec.Swagger
	if err := json.Unmarshal(data, &sw); err != nil {
		return fmt.Errorf("parse %s: %w", into, err)
	}

	merged, err := mergeFragments(&sw, args)
	if err != nil {
		return err
	}
	log.Info().Int("fragments", len(args)).Int("artifacts", merged).Str("into", into).Msg("fragments merged")

	result, err := json.MarshalIndent(&sw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", out, err)
	}
	result = append(result, '\n')
	if out == "-" {
		_, err = cmd.OutOrStdout().Write(result)
		return err
	}
	return os.WriteFile(out, result, 0o644)
}

// mergeFragments applies the fragments in order and returns how many
// artifacts were copied. Names replaced by a later fragment are logged.
func mergeFragments(sw *spec.Swagger, paths []string) (int, error) {
	total := 0
	for _, p := range paths {
		frag, err := openapi.ReadFragment(p)
		if err != nil {
			return total, err
		}
		for _, name := range frag.Apply(sw) {
			log.Debug().Str("name", name).Str("fragment", p).Msg("replaced existing entry")
		}
		total += len(frag.Names())
	}
	return total, nil
}

func runDocsEnvelope(cmd *cobra.Command, _ []string) error {
	content, err := cmd.Flags().GetString("content")
	if err != nil {
		return fmt.Errorf("failed to get content flag: %w", err)
	}
	meta, err := cmd.Flags().GetString("meta")
	if err != nil {
		return fmt.Errorf("failed to get meta flag: %w", err)
	}
	payload := map[string]*spec.Schema{
		openapi.EnvelopeName: openapi.EnvelopeSchema(content, meta),
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
