package statblock_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/export/statblock"
	"github.com/KirkDiggler/encounter-forge/internal/testutils/builders"
)

type StatblockTestSuite struct {
	suite.Suite
}

func TestStatblockSuite(t *testing.T) {
	suite.Run(t, new(StatblockTestSuite))
}

func encounterOf(n int, name string) *entities.Encounter {
	return builders.NewEncounterBuilder().
		WithTitle(fmt.Sprintf("%s x%d", name, n)).
		WithEnemyType(name).
		WithCreatures(n).
		Build()
}

func (s *StatblockTestSuite) TestRenderProducesPDF() {
	out, err := statblock.Render(encounterOf(1, "Dire Wolf"))
	s.Require().NoError(err)
	s.Assert().True(bytes.HasPrefix(out, []byte("%PDF")))
}

func (s *StatblockTestSuite) TestRenderPaginatesLargeEncounters() {
	small, err := statblock.Render(encounterOf(1, "Goblin"))
	s.Require().NoError(err)

	large, err := statblock.Render(encounterOf(20, "Goblin"))
	s.Require().NoError(err)
	s.Assert().Greater(len(large), len(small))
}

func (s *StatblockTestSuite) TestRenderToleratesCyrillic() {
	out, err := statblock.Render(encounterOf(2, "Гоблин"))
	s.Require().NoError(err)
	s.Assert().True(bytes.HasPrefix(out, []byte("%PDF")))
}

func (s *StatblockTestSuite) TestRenderRequiresEncounter() {
	_, err := statblock.Render(nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}
