package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

type EnemyTestSuite struct {
	suite.Suite
	enemy entities.Enemy
}

func TestEnemySuite(t *testing.T) {
	suite.Run(t, new(EnemyTestSuite))
}

func (s *EnemyTestSuite) SetupTest() {
	s.enemy = entities.Enemy{
		ID:             "goblin-easy-1-0-aa",
		Name:           "Goblin",
		ArmorClass:     15,
		HitPoints:      7,
		Speed:          30,
		Abilities:      []string{"Nimble Escape"},
		SpecialActions: []string{"Scimitar"},
	}
}

func (s *EnemyTestSuite) TestDecodesBrowserPayload() {
	raw := `{"id":"x","name":"Orc","armorClass":13,"hitPoints":15,"speed":30,"abilities":["Aggressive"],"specialActions":["Greataxe"]}`

	var e entities.Enemy
	s.Require().NoError(json.Unmarshal([]byte(raw), &e))
	s.Assert().Equal("Orc", e.Name)
	s.Assert().Equal(13, e.ArmorClass)
	s.Assert().Equal([]string{"Greataxe"}, e.SpecialActions)
}

func (s *EnemyTestSuite) TestBattleEnemyIsCoreEntity() {
	var entity core.Entity = &entities.BattleEnemy{Enemy: s.enemy, CurrentHP: 7}

	s.Assert().Equal(s.enemy.ID, entity.GetID())
	s.Assert().Equal(entities.EnemyEntityType, entity.GetType())
}

func (s *EnemyTestSuite) TestVisible() {
	s.Run("alive keeps everything", func() {
		b := entities.BattleEnemy{Enemy: s.enemy, CurrentHP: 3}
		v := b.Visible()
		s.Assert().Equal(s.enemy.Abilities, v.Abilities)
		s.Assert().Equal(s.enemy.SpecialActions, v.SpecialActions)
	})

	s.Run("defeated strips abilities but keeps the record", func() {
		b := entities.BattleEnemy{Enemy: s.enemy, CurrentHP: 0}
		v := b.Visible()
		s.Assert().Equal("Goblin", v.Name)
		s.Assert().Equal(7, v.HitPoints)
		s.Assert().Empty(v.Abilities)
		s.Assert().Empty(v.SpecialActions)
		s.Assert().Len(b.Abilities, 1, "original must not change")
	})
}

func (s *EnemyTestSuite) TestCloneIsDeep() {
	c := s.enemy.Clone()
	c.Abilities[0] = "changed"
	s.Assert().Equal("Nimble Escape", s.enemy.Abilities[0])
}

func (s *EnemyTestSuite) TestSessionAllDefeated() {
	session := &entities.BattleSession{}
	s.Assert().False(session.AllDefeated(), "empty roster is not a victory")

	session.Enemies = []entities.BattleEnemy{
		{Enemy: s.enemy, CurrentHP: 0},
		{Enemy: s.enemy, CurrentHP: 1},
	}
	s.Assert().False(session.AllDefeated())

	session.Enemies[1].CurrentHP = 0
	s.Assert().True(session.AllDefeated())
	s.Assert().Empty(session.Visible().Enemies[0].Abilities)
}

func (s *EnemyTestSuite) TestDifficulty() {
	s.Assert().True(entities.DifficultyRandom.Valid())
	s.Assert().False(entities.Difficulty("deadly").Valid())
	s.Assert().Equal([]string{"easy", "medium", "hard", "random"}, entities.DifficultyNames())
}

func (s *EnemyTestSuite) TestResolveSchemaVersion() {
	v, err := entities.ResolveSchemaVersion(0)
	s.Require().NoError(err)
	s.Assert().Equal(1, v, "unversioned records read as version 1")

	v, err = entities.ResolveSchemaVersion(entities.CurrentSchemaVersion)
	s.Require().NoError(err)
	s.Assert().Equal(entities.CurrentSchemaVersion, v)

	_, err = entities.ResolveSchemaVersion(entities.CurrentSchemaVersion + 1)
	s.Assert().True(errors.IsFailedPrecondition(err))
}
