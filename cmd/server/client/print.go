package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/encounter-forge/internal/battle"
	"github.com/KirkDiggler/encounter-forge/internal/entities"
)

func printEncounter(w io.Writer, enc *entities.Encounter) {
	fmt.Fprintf(w, "⚔️  %s\n", enc.Title)
	fmt.Fprintf(w, "Encounter ID: %s\n", enc.ID)
	fmt.Fprintf(w, "Enemy type: %s (%s, %s)\n\n", enc.EnemyType, enc.Difficulty, enc.Language)

	for _, e := range enc.Enemies {
		fmt.Fprintf(w, "%s [%s]\n", e.Name, e.ID)
		fmt.Fprintf(w, "  AC %d  HP %d  Speed %d ft.\n", e.ArmorClass, e.HitPoints, e.Speed)
		printList(w, "Abilities", e.Abilities)
		printList(w, "Special actions", e.SpecialActions)
		fmt.Fprintln(w)
	}
}

func printList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, item := range items {
		fmt.Fprintf(w, "    - %s\n", item)
	}
}

func printBattle(w io.Writer, session *entities.BattleSession, allDefeated bool) {
	if session == nil {
		return
	}
	fmt.Fprintf(w, "🛡️  %s\n", session.Title)
	fmt.Fprintf(w, "Battle ID: %s\n\n", session.ID)

	if len(session.Enemies) == 0 {
		fmt.Fprintln(w, "No enemies in this battle.")
		return
	}

	for _, e := range session.Enemies {
		fmt.Fprintf(w, "%-24s %s %d/%d\n", e.Name, hpBar(e.CurrentHP, e.HitPoints), e.CurrentHP, e.HitPoints)
		if e.Defeated() {
			fmt.Fprintln(w, "  defeated")
			continue
		}
		if len(e.SpecialActions) > 0 {
			fmt.Fprintf(w, "  actions: %s\n", strings.Join(e.SpecialActions, "; "))
		}
	}

	if allDefeated {
		fmt.Fprintln(w, "\n🏆 All enemies defeated!")
	}
}

func printDamage(w io.Writer, result *battle.DamageResult) {
	if result == nil {
		return
	}
	if !result.Applied {
		fmt.Fprintf(w, "%s is already defeated, no damage applied\n", result.EnemyID)
		return
	}
	fmt.Fprintf(w, "%s: %d → %d HP\n", result.EnemyID, result.PreviousHP, result.CurrentHP)
	if result.JustDefeated {
		fmt.Fprintf(w, "💀 %s is defeated\n", result.EnemyID)
	}
}

const hpBarWidth = 20

// hpBar renders current/max as a fixed width bar
func hpBar(current, maxHP int) string {
	filled := 0
	if maxHP > 0 && current > 0 {
		filled = (current*hpBarWidth + maxHP - 1) / maxHP
		if filled > hpBarWidth {
			filled = hpBarWidth
		}
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", hpBarWidth-filled) + "]"
}
