package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/encounter-forge/internal/handlers/encounterforge/v1alpha1"
)

var (
	enemyType  string
	count      int
	difficulty string
	language   string
	listLimit  int
	includeSRD bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an encounter",
	Long:  `Generate a batch of creatures of one enemy type at the chosen difficulty.`,
	RunE:  runGenerate,
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Generate a random encounter",
	Long:  `Pick a random enemy type, count and difficulty and generate the encounter.`,
	RunE:  runRandom,
}

var getCmd = &cobra.Command{
	Use:   "get <encounter-id>",
	Short: "Show a stored encounter",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent encounters",
	RunE:  runList,
}

var enemyTypesCmd = &cobra.Command{
	Use:   "enemy-types",
	Short: "List enemy type suggestions",
	RunE:  runEnemyTypes,
}

func init() {
	generateCmd.Flags().StringVar(&enemyType, "enemy-type", "", "Enemy type, e.g. Goblin (required)")
	generateCmd.Flags().IntVar(&count, "count", 1, "Number of creatures (1-20)")
	generateCmd.Flags().StringVar(&difficulty, "difficulty", "medium", "easy, medium, hard or random")
	generateCmd.Flags().StringVar(&language, "language", "", "Output language (en or ru)")
	_ = generateCmd.MarkFlagRequired("enemy-type") // nolint:errcheck // safe to ignore in init

	randomCmd.Flags().StringVar(&language, "language", "", "Output language (en or ru)")

	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum encounters to list (0 for the server default)")

	enemyTypesCmd.Flags().StringVar(&language, "language", "", "Suggestion language (en or ru)")
	enemyTypesCmd.Flags().BoolVar(&includeSRD, "srd", false, "Include SRD monster names")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.GenerateEncounter(ctx, &v1alpha1.GenerateEncounterRequest{
			EnemyType:         enemyType,
			NumberOfCreatures: count,
			Difficulty:        difficulty,
			Language:          language,
		})
		if err != nil {
			return describe("generate encounter", err)
		}

		printEncounter(cmd.OutOrStdout(), resp.Encounter)
		return nil
	})
}

func runRandom(cmd *cobra.Command, _ []string) error {
	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.GenerateRandomEncounter(ctx, &v1alpha1.GenerateRandomEncounterRequest{
			Language: language,
		})
		if err != nil {
			return describe("generate random encounter", err)
		}

		printEncounter(cmd.OutOrStdout(), resp.Encounter)
		return nil
	})
}

func runGet(cmd *cobra.Command, args []string) error {
	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.GetEncounter(ctx, &v1alpha1.GetEncounterRequest{EncounterID: args[0]})
		if err != nil {
			return describe("get encounter", err)
		}

		printEncounter(cmd.OutOrStdout(), resp.Encounter)
		return nil
	})
}

func runList(cmd *cobra.Command, _ []string) error {
	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.ListEncounters(ctx, &v1alpha1.ListEncountersRequest{Limit: listLimit})
		if err != nil {
			return describe("list encounters", err)
		}

		w := cmd.OutOrStdout()
		if len(resp.Encounters) == 0 {
			fmt.Fprintln(w, "No encounters yet.")
			return nil
		}
		for _, enc := range resp.Encounters {
			fmt.Fprintf(w, "%s  %-32s %2d × %s (%s)\n",
				enc.ID, enc.Title, len(enc.Enemies), enc.EnemyType, enc.Difficulty)
		}
		return nil
	})
}

func runEnemyTypes(cmd *cobra.Command, _ []string) error {
	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.ListEnemyTypes(ctx, &v1alpha1.ListEnemyTypesRequest{
			Language:   language,
			IncludeSRD: includeSRD,
		})
		if err != nil {
			return describe("list enemy types", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Enemy types (%s):\n", resp.Language)
		for _, name := range resp.EnemyTypes {
			fmt.Fprintf(w, "  - %s\n", name)
		}
		if includeSRD && !resp.SRDIncluded {
			fmt.Fprintln(w, "\nSRD names were not available.")
		}
		return nil
	})
}
