package idgen_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/encounter-forge/internal/pkg/idgen"
)

type IDGenTestSuite struct {
	suite.Suite
}

func TestIDGenSuite(t *testing.T) {
	suite.Run(t, new(IDGenTestSuite))
}

func (s *IDGenTestSuite) TestSlug() {
	testCases := []struct {
		in   string
		want string
	}{
		{"Goblin Scout", "goblin-scout"},
		{"  Dire   Wolf!! ", "dire-wolf"},
		{"Гоблин-разведчик", "гоблин-разведчик"},
		{"Orc 2", "orc-2"},
		{"???", "enemy"},
	}

	for _, tc := range testCases {
		s.Run(tc.in, func() {
			s.Assert().Equal(tc.want, idgen.Slug(tc.in))
		})
	}
}

func (s *IDGenTestSuite) TestEnemyID() {
	at := time.UnixMilli(1700000000123)

	first := idgen.EnemyID("Goblin Scout", "hard", at, 0)
	second := idgen.EnemyID("Goblin Scout", "hard", at, 1)

	s.Assert().True(strings.HasPrefix(first, "goblin-scout-hard-1700000000123-0-"))
	s.Assert().True(strings.HasPrefix(second, "goblin-scout-hard-1700000000123-1-"))
	s.Assert().NotEqual(first, second)
}

func (s *IDGenTestSuite) TestSequential() {
	gen := idgen.NewSequential("battle")
	s.Assert().Equal("battle_1", gen.Generate())
	s.Assert().Equal("battle_2", gen.Generate())

	bare := idgen.NewSequential("")
	s.Assert().Equal("1", bare.Generate())
}

func (s *IDGenTestSuite) TestUUID() {
	gen := idgen.NewUUID("enc")
	a, b := gen.Generate(), gen.Generate()

	s.Assert().True(strings.HasPrefix(a, "enc_"))
	s.Assert().Len(a, len("enc_")+36)
	s.Assert().NotEqual(a, b)
}
