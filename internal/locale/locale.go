// Package locale holds the locale-keyed data table (enemy types, titles,
// offline ability pools) and matches user supplied language tags against
// the supported locales.
package locale

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

//go:embed locales.yaml
var tableYAML []byte

// Smallest lists a locale may ship. The ability pools must cover the
// largest draw the offline generator makes.
const (
	MinEnemyTypes        = 7
	MinAbilityPool       = 4
	MinSpecialActionPool = 3
)

// Entry is the data for one locale
type Entry struct {
	BattleTitle    string   `yaml:"battle_title"`
	RandomTitle    string   `yaml:"random_title"`
	EnemyTypes     []string `yaml:"enemy_types"`
	Abilities      []string `yaml:"abilities"`
	SpecialActions []string `yaml:"special_actions"`
}

// Table is the parsed locale data plus a matcher over its locales
type Table struct {
	Default string           `yaml:"default"`
	Locales map[string]Entry `yaml:"locales"`

	tags    []language.Tag
	codes   []string
	matcher language.Matcher
}

// Load parses the embedded table
func Load() (*Table, error) {
	return Parse(tableYAML)
}

// MustLoad parses the embedded table and panics on failure. The table is
// compiled in, so a failure here is a build defect.
func MustLoad() *Table {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Parse reads a table from YAML and checks it is usable
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, "failed to parse locale table")
	}

	if _, ok := t.Locales[t.Default]; !ok {
		return nil, errors.Internalf("default locale %q missing from table", t.Default)
	}

	// default goes first so the matcher falls back to it
	t.codes = append(t.codes, t.Default)
	for code := range t.Locales {
		if code != t.Default {
			t.codes = append(t.codes, code)
		}
	}

	for _, code := range t.codes {
		entry := t.Locales[code]
		if len(entry.EnemyTypes) < MinEnemyTypes {
			return nil, errors.Internalf("locale %q lists %d enemy types, need at least %d",
				code, len(entry.EnemyTypes), MinEnemyTypes)
		}
		if len(entry.Abilities) < MinAbilityPool || len(entry.SpecialActions) < MinSpecialActionPool {
			return nil, errors.Internalf("locale %q ability pools too small, need %d abilities and %d special actions",
				code, MinAbilityPool, MinSpecialActionPool)
		}
		if !strings.Contains(entry.RandomTitle, "%s") {
			return nil, errors.Internalf("locale %q random title has no %%s placeholder", code)
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, errors.Wrapf(err, "locale %q is not a language tag", code)
		}
		t.tags = append(t.tags, tag)
	}

	t.matcher = language.NewMatcher(t.tags)
	return &t, nil
}

// Supported returns the locale codes, default first
func (t *Table) Supported() []string {
	return append([]string(nil), t.codes...)
}

// Match resolves a BCP-47 tag such as "ru-RU" to a supported locale code.
// Empty input means the default locale.
func (t *Table) Match(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return t.Default, nil
	}

	parsed, err := language.Parse(tag)
	if err != nil {
		return "", errors.InvalidArgumentf("language %q is not a valid language tag", tag)
	}

	_, index, confidence := t.matcher.Match(parsed)
	if confidence == language.No {
		return "", errors.InvalidArgumentf("language %q is not supported (supported: %s)",
			tag, strings.Join(t.codes, ", "))
	}

	return t.codes[index], nil
}

func (t *Table) entry(code string) Entry {
	if e, ok := t.Locales[code]; ok {
		return e
	}
	return t.Locales[t.Default]
}

// EnemyTypes returns the random-encounter candidates for a locale
func (t *Table) EnemyTypes(code string) []string {
	return append([]string(nil), t.entry(code).EnemyTypes...)
}

// Abilities returns the offline ability pool for a locale
func (t *Table) Abilities(code string) []string {
	return append([]string(nil), t.entry(code).Abilities...)
}

// SpecialActions returns the offline special action pool for a locale
func (t *Table) SpecialActions(code string) []string {
	return append([]string(nil), t.entry(code).SpecialActions...)
}

// BattleTitle is the title used when a battle starts without one
func (t *Table) BattleTitle(code string) string {
	return t.entry(code).BattleTitle
}

// RandomTitle formats the "a wild X appears" title for a random encounter
func (t *Table) RandomTitle(code, name string) string {
	return fmt.Sprintf(t.entry(code).RandomTitle, name)
}

// Translate maps an enemy type from any locale's candidate list to the same
// slot in the target locale. ok is false when the type is not in the table.
func (t *Table) Translate(enemyType, code string) (string, bool) {
	needle := strings.TrimSpace(enemyType)
	for _, src := range t.codes {
		for i, candidate := range t.Locales[src].EnemyTypes {
			if !strings.EqualFold(candidate, needle) {
				continue
			}
			target := t.entry(code).EnemyTypes
			if i < len(target) {
				return target[i], true
			}
			return candidate, true
		}
	}
	return "", false
}

// TitleCase title-cases s with the rules of the given locale
func TitleCase(code, s string) string {
	tag, err := language.Parse(code)
	if err != nil {
		tag = language.English
	}
	return cases.Title(tag).String(strings.TrimSpace(s))
}
