package client

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/encounter-forge/internal/battle"
	"github.com/KirkDiggler/encounter-forge/internal/handlers/encounterforge/v1alpha1"
)

var (
	battleTitle  string
	snapshotFile string
)

var battleCmd = &cobra.Command{
	Use:   "battle",
	Short: "Track enemy hit points through a battle",
}

var battleStartCmd = &cobra.Command{
	Use:   "start [encounter-id]",
	Short: "Start a battle from an encounter or a snapshot file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBattleStart,
}

var battleDamageCmd = &cobra.Command{
	Use:   "damage <battle-id> <enemy-id> <amount>",
	Short: "Apply damage to one enemy",
	Args:  cobra.ExactArgs(3),
	RunE:  runBattleDamage,
}

var battleShowCmd = &cobra.Command{
	Use:   "show <battle-id>",
	Short: "Show the current state of a battle",
	Args:  cobra.ExactArgs(1),
	RunE:  runBattleShow,
}

var battleFinishCmd = &cobra.Command{
	Use:   "finish <battle-id>",
	Short: "End a battle and discard its state",
	Args:  cobra.ExactArgs(1),
	RunE:  runBattleFinish,
}

func init() {
	battleStartCmd.Flags().StringVar(&battleTitle, "title", "", "Battle title (defaults to the encounter title)")
	battleStartCmd.Flags().StringVar(&snapshotFile, "snapshot", "", "JSON file holding an enemy list")
	battleStartCmd.Flags().StringVar(&language, "language", "", "Battle language (en or ru)")

	battleCmd.AddCommand(battleStartCmd)
	battleCmd.AddCommand(battleDamageCmd)
	battleCmd.AddCommand(battleShowCmd)
	battleCmd.AddCommand(battleFinishCmd)
}

func runBattleStart(cmd *cobra.Command, args []string) error {
	req := &v1alpha1.StartBattleRequest{
		Title:    battleTitle,
		Language: language,
	}
	if len(args) == 1 {
		req.EncounterID = args[0]
	}
	if snapshotFile != "" {
		data, err := os.ReadFile(snapshotFile)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		req.Snapshot = string(data)
	}

	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.StartBattle(ctx, req)
		if err != nil {
			return describe("start battle", err)
		}

		printBattle(cmd.OutOrStdout(), resp.Battle, resp.AllDefeated)
		return nil
	})
}

func runBattleDamage(cmd *cobra.Command, args []string) error {
	amount, err := battle.ParseAmount(args[2])
	if err != nil {
		return err
	}

	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.ApplyDamage(ctx, &v1alpha1.ApplyDamageRequest{
			BattleID: args[0],
			EnemyID:  args[1],
			Amount:   amount,
		})
		if err != nil {
			return describe("apply damage", err)
		}

		w := cmd.OutOrStdout()
		printDamage(w, resp.Result)
		if resp.AllDefeated {
			fmt.Fprintln(w, "🏆 All enemies defeated!")
		}
		return nil
	})
}

func runBattleShow(cmd *cobra.Command, args []string) error {
	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.GetBattle(ctx, &v1alpha1.GetBattleRequest{BattleID: args[0]})
		if err != nil {
			return describe("get battle", err)
		}

		printBattle(cmd.OutOrStdout(), resp.Battle, resp.AllDefeated)
		return nil
	})
}

func runBattleFinish(cmd *cobra.Command, args []string) error {
	return withClient(func(ctx context.Context, client v1alpha1.EncounterServiceClient) error {
		resp, err := client.FinishBattle(ctx, &v1alpha1.FinishBattleRequest{BattleID: args[0]})
		if err != nil {
			return describe("finish battle", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Battle %s finished: %d of %d enemies defeated\n",
			resp.Battle.ID, resp.Defeated, len(resp.Battle.Enemies))
		return nil
	})
}
