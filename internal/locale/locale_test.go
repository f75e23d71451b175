package locale_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/locale"
)

type LocaleTestSuite struct {
	suite.Suite
	table *locale.Table
}

func TestLocaleSuite(t *testing.T) {
	suite.Run(t, new(LocaleTestSuite))
}

func (s *LocaleTestSuite) SetupTest() {
	table, err := locale.Load()
	s.Require().NoError(err)
	s.table = table
}

func (s *LocaleTestSuite) TestSupported() {
	s.Assert().Equal([]string{"en", "ru"}, s.table.Supported())
}

func (s *LocaleTestSuite) TestMatch() {
	testCases := []struct {
		name    string
		tag     string
		want    string
		wantErr bool
	}{
		{name: "empty means default", tag: "", want: "en"},
		{name: "exact", tag: "ru", want: "ru"},
		{name: "region", tag: "ru-RU", want: "ru"},
		{name: "english region", tag: "en-GB", want: "en"},
		{name: "unsupported", tag: "fr", wantErr: true},
		{name: "garbage", tag: "not a tag!", wantErr: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := s.table.Match(tc.tag)
			if tc.wantErr {
				s.Assert().True(errors.IsInvalidArgument(err))
				return
			}
			s.Require().NoError(err)
			s.Assert().Equal(tc.want, got)
		})
	}
}

func (s *LocaleTestSuite) TestEveryLocaleHasEnoughEnemyTypes() {
	for _, code := range s.table.Supported() {
		s.Assert().GreaterOrEqual(len(s.table.EnemyTypes(code)), locale.MinEnemyTypes, code)
		s.Assert().GreaterOrEqual(len(s.table.Abilities(code)), locale.MinAbilityPool, code)
		s.Assert().GreaterOrEqual(len(s.table.SpecialActions(code)), locale.MinSpecialActionPool, code)
	}
}

func (s *LocaleTestSuite) TestTitles() {
	s.Assert().Equal("A Wild Dire Wolf Appears!", s.table.RandomTitle("en", "Dire Wolf"))
	s.Assert().Equal("Battle", s.table.BattleTitle("en"))
	s.Assert().Equal("Битва", s.table.BattleTitle("ru"))
	s.Assert().Equal("Battle", s.table.BattleTitle("xx"), "unknown code falls back to default")
}

func (s *LocaleTestSuite) TestTranslate() {
	name, ok := s.table.Translate("goblin scout", "ru")
	s.Assert().True(ok)
	s.Assert().Equal("Гоблин-разведчик", name)

	name, ok = s.table.Translate("Лютоволк", "en")
	s.Assert().True(ok)
	s.Assert().Equal("Dire Wolf", name)

	_, ok = s.table.Translate("Beholder", "en")
	s.Assert().False(ok)
}

func (s *LocaleTestSuite) TestTitleCase() {
	s.Assert().Equal("Frost Giant", locale.TitleCase("en", "  frost giant "))
	s.Assert().Equal("Ледяной Великан", locale.TitleCase("ru", "ледяной великан"))
}

func (s *LocaleTestSuite) TestParseRejectsShortLists() {
	_, err := locale.Parse([]byte(`
default: en
locales:
  en:
    battle_title: Battle
    random_title: "A Wild %s Appears!"
    enemy_types: [a, b]
`))
	s.Assert().Error(err)

	_, err = locale.Parse([]byte("default: de\nlocales: {}\n"))
	s.Assert().Error(err)

	_, err = locale.Parse([]byte(`
default: en
locales:
  en:
    battle_title: Battle
    random_title: "A Wild %s Appears!"
    enemy_types: [a, b, c, d, e, f, g]
    abilities: [Keen Senses]
    special_actions: [Bite]
`))
	s.Assert().Error(err, "one ability cannot fill an easy creature")
}
