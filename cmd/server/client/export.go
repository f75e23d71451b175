package client

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/encounter-forge/internal/export/statblock"
	"github.com/KirkDiggler/encounter-forge/internal/handlers/encounterforge/v1alpha1"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/idgen"
)

var outFile string

var exportPDFCmd = &cobra.Command{
	Use:   "export-pdf <encounter-id>",
	Short: "Write printable stat blocks for an encounter",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportPDF,
}

func init() {
	exportPDFCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (defaults to the encounter title)")
}

func runExportPDF(cmd *cobra.Command, args []string) error {
	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.GetEncounter(ctx, &v1alpha1.GetEncounterRequest{EncounterID: args[0]})
		if err != nil {
			return describe("get encounter", err)
		}

		data, err := statblock.Render(resp.Encounter)
		if err != nil {
			return fmt.Errorf("failed to render stat blocks: %w", err)
		}

		path := outFile
		if path == "" {
			path = idgen.Slug(resp.Encounter.Title) + ".pdf"
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "📄 Wrote %s (%d bytes)\n", path, len(data))
		return nil
	})
}
