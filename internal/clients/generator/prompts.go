package generator

import (
	"bytes"
	"text/template"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

const systemPrompt = `You are a Dungeon Master helping prepare D&D 5e encounters. ` +
	`Answer with a single JSON object and nothing else.`

var statsPrompt = template.Must(template.New("stats").Parse(`Generate the core stats for ONE creature.

Enemy type (may be in any language): {{.EnemyType}}
Difficulty: {{.Difficulty}}
This creature is number {{.Ordinal}} of {{.NumberOfCreatures}} in the same encounter.

Scale the numbers with difficulty:
- easy: below average for this kind of creature
- medium: typical for this kind of creature
- hard: above average for this kind of creature
- random: anything reasonable for this kind of creature
{{- if gt .NumberOfCreatures 1}}

Creatures in one encounter share a type but should not be clones: vary armor class, hit points and speed slightly for this one.
{{- end}}

Reply with JSON of exactly this shape:
{"armorClass": <integer 1-30>, "hitPoints": <integer >= 1>, "speed": <integer feet, >= 0>}`))

var abilitiesPrompt = template.Must(template.New("abilities").Parse(`Describe ONE creature for a D&D 5e encounter.

Enemy type (user input, interpret it as best you can): {{.EnemyType}}
Difficulty: {{.Difficulty}}
Target language: {{.TargetLanguage}}

Produce:
1. localizedName: the common name of this creature in the target language, as a base name without numbering. "Goblin" in "ru" is "Гоблин".
2. abilities: {{.MinAbilities}} to {{.MaxAbilities}} passive traits that fit this creature.
3. specialActions: {{.MinSpecialActions}} to {{.MaxSpecialActions}} actions it can take in combat.

Every string MUST be written in the target language ({{.TargetLanguage}}).

Reply with JSON of exactly this shape:
{"localizedName": "<string>", "abilities": ["<string>", ...], "specialActions": ["<string>", ...]}`))

type statsPromptData struct {
	EnemyType         string
	Difficulty        string
	Ordinal           int
	NumberOfCreatures int
}

type abilitiesPromptData struct {
	EnemyType         string
	Difficulty        string
	TargetLanguage    string
	MinAbilities      int
	MaxAbilities      int
	MinSpecialActions int
	MaxSpecialActions int
}

func renderStatsPrompt(input *StatsInput) (string, error) {
	return render(statsPrompt, statsPromptData{
		EnemyType:         input.EnemyType,
		Difficulty:        input.Difficulty.String(),
		Ordinal:           input.Index + 1,
		NumberOfCreatures: max(1, input.NumberOfCreatures),
	})
}

func renderAbilitiesPrompt(input *AbilitiesInput) (string, error) {
	return render(abilitiesPrompt, abilitiesPromptData{
		EnemyType:         input.EnemyType,
		Difficulty:        input.Difficulty.String(),
		TargetLanguage:    input.TargetLanguage,
		MinAbilities:      MinAbilities,
		MaxAbilities:      MaxAbilities,
		MinSpecialActions: MinSpecialActions,
		MaxSpecialActions: MaxSpecialActions,
	})
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %s prompt", tmpl.Name())
	}
	return buf.String(), nil
}
