package encounters_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/repositories/encounters"
	"github.com/KirkDiggler/encounter-forge/internal/testutils"
)

// RepositoryTestSuite runs the same behavior checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	newRepo func(t *testing.T) encounters.Repository
	repo    encounters.Repository
	base    time.Time
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(*testing.T) encounters.Repository { return encounters.NewInMemory() },
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) encounters.Repository {
			client, _ := testutils.CreateTestRedisClient(t)
			repo, err := encounters.NewRedisRepository(&encounters.RedisConfig{Client: client})
			if err != nil {
				t.Fatalf("redis repo: %v", err)
			}
			return repo
		},
	})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) encounters.Repository {
			repo, err := encounters.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "encounters.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.repo = s.newRepo(s.T())
}

func (s *RepositoryTestSuite) encounter(id string, offset time.Duration) *entities.Encounter {
	return &entities.Encounter{
		ID:         id,
		Title:      "Goblin ×2",
		EnemyType:  "goblin",
		Difficulty: entities.DifficultyEasy,
		Language:   "en",
		Enemies: []entities.Enemy{
			{ID: id + "-0", Name: "Goblin 1", ArmorClass: 15, HitPoints: 7, Speed: 30,
				Abilities: []string{"Nimble Escape"}, SpecialActions: []string{"Scimitar"}},
			{ID: id + "-1", Name: "Goblin 2", ArmorClass: 14, HitPoints: 8, Speed: 30,
				Abilities: []string{"Nimble Escape"}, SpecialActions: []string{"Shortbow"}},
		},
		CreatedAt:     s.base.Add(offset),
		SchemaVersion: entities.CurrentSchemaVersion,
	}
}

func (s *RepositoryTestSuite) TestSaveAndGet() {
	saved := s.encounter("enc-1", 0)
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Encounter: saved})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: "enc-1"})
	s.Require().NoError(err)
	s.Assert().Equal(saved.Title, out.Encounter.Title)
	s.Assert().Equal(saved.Enemies, out.Encounter.Enemies)
	s.Assert().True(saved.CreatedAt.Equal(out.Encounter.CreatedAt))
}

func (s *RepositoryTestSuite) TestSaveDuplicate() {
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Encounter: s.encounter("enc-1", 0)})
	s.Require().NoError(err)

	_, err = s.repo.Save(s.ctx, &encounters.SaveInput{Encounter: s.encounter("enc-1", time.Minute)})
	s.Assert().True(errors.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestInvalidInput() {
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Save(s.ctx, &encounters.SaveInput{Encounter: &entities.Encounter{}})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, &encounters.GetInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: "nope"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestUnversionedRecordReadsAsV1() {
	legacy := s.encounter("enc-legacy", 0)
	legacy.SchemaVersion = 0
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Encounter: legacy})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: "enc-legacy"})
	s.Require().NoError(err)
	s.Assert().Equal(1, out.Encounter.SchemaVersion)
}

func (s *RepositoryTestSuite) TestFutureRecordIsRefused() {
	future := s.encounter("enc-future", 0)
	future.SchemaVersion = entities.CurrentSchemaVersion + 1
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Encounter: future})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: "enc-future"})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *RepositoryTestSuite) TestListNewestFirst() {
	for i := range 5 {
		_, err := s.repo.Save(s.ctx, &encounters.SaveInput{
			Encounter: s.encounter(fmt.Sprintf("enc-%d", i), time.Duration(i)*time.Minute),
		})
		s.Require().NoError(err)
	}

	out, err := s.repo.List(s.ctx, &encounters.ListInput{Limit: 3})
	s.Require().NoError(err)
	s.Require().Len(out.Encounters, 3)
	s.Assert().Equal("enc-4", out.Encounters[0].ID)
	s.Assert().Equal("enc-3", out.Encounters[1].ID)
	s.Assert().Equal("enc-2", out.Encounters[2].ID)

	all, err := s.repo.List(s.ctx, &encounters.ListInput{})
	s.Require().NoError(err)
	s.Assert().Len(all.Encounters, 5)
}

func (s *RepositoryTestSuite) TestListEmpty() {
	out, err := s.repo.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Assert().Empty(out.Encounters)
}
