package battles_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/clock"
	"github.com/KirkDiggler/encounter-forge/internal/repositories/battles"
	"github.com/KirkDiggler/encounter-forge/internal/testutils"
)

var testNow = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

// RepositoryTestSuite runs the same behavior checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	newRepo func(t *testing.T) battles.Repository
	repo    battles.Repository
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(*testing.T) battles.Repository {
			return battles.NewInMemory(&clock.Fixed{At: testNow})
		},
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) battles.Repository {
			repo, _ := newRedisRepo(t)
			return repo
		},
	})
}

func newRedisRepo(t *testing.T) (battles.Repository, *miniredis.Miniredis) {
	client, mr := testutils.CreateTestRedisClient(t)
	repo, err := battles.NewRedisRepository(&battles.RedisConfig{
		Client: client,
		Clock:  &clock.Fixed{At: testNow},
	})
	if err != nil {
		t.Fatalf("redis repo: %v", err)
	}
	return repo, mr
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo(s.T())
}

func session(id string, hp int) *entities.BattleSession {
	return &entities.BattleSession{
		ID:       id,
		Title:    "Orc ×1",
		Language: "en",
		Enemies: []entities.BattleEnemy{{
			Enemy:     entities.Enemy{ID: "orc-1", Name: "Orc", ArmorClass: 13, HitPoints: hp, Speed: 30},
			CurrentHP: hp,
		}},
		CreatedAt:     testNow.Add(-time.Hour),
		UpdatedAt:     testNow.Add(-time.Hour),
		SchemaVersion: entities.CurrentSchemaVersion,
	}
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Session: session("b-1", 15)})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &battles.GetInput{BattleID: "b-1"})
	s.Require().NoError(err)
	s.Assert().Equal("Orc ×1", out.Session.Title)
	s.Assert().Equal(15, out.Session.Enemies[0].CurrentHP)

	_, err = s.repo.Create(s.ctx, &battles.CreateInput{Session: session("b-1", 15)})
	s.Assert().True(errors.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestApply() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Session: session("b-1", 15)})
	s.Require().NoError(err)

	out, err := s.repo.Apply(s.ctx, &battles.ApplyInput{
		BattleID: "b-1",
		Mutate: func(session *entities.BattleSession) error {
			session.Enemies[0].CurrentHP -= 5
			return nil
		},
	})
	s.Require().NoError(err)
	s.Assert().Equal(10, out.Session.Enemies[0].CurrentHP)
	s.Assert().True(testNow.Equal(out.Session.UpdatedAt))

	stored, err := s.repo.Get(s.ctx, &battles.GetInput{BattleID: "b-1"})
	s.Require().NoError(err)
	s.Assert().Equal(10, stored.Session.Enemies[0].CurrentHP)
}

func (s *RepositoryTestSuite) TestApplyErrorLeavesSessionUntouched() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Session: session("b-1", 15)})
	s.Require().NoError(err)

	_, err = s.repo.Apply(s.ctx, &battles.ApplyInput{
		BattleID: "b-1",
		Mutate: func(session *entities.BattleSession) error {
			session.Enemies[0].CurrentHP = 0
			return errors.InvalidArgument("nope")
		},
	})
	s.Assert().True(errors.IsInvalidArgument(err))

	stored, err := s.repo.Get(s.ctx, &battles.GetInput{BattleID: "b-1"})
	s.Require().NoError(err)
	s.Assert().Equal(15, stored.Session.Enemies[0].CurrentHP)
}

func (s *RepositoryTestSuite) TestConcurrentApplyLosesNothing() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Session: session("b-1", 100)})
	s.Require().NoError(err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.Apply(s.ctx, &battles.ApplyInput{
				BattleID: "b-1",
				Mutate: func(session *entities.BattleSession) error {
					session.Enemies[0].CurrentHP--
					return nil
				},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}

	stored, err := s.repo.Get(s.ctx, &battles.GetInput{BattleID: "b-1"})
	s.Require().NoError(err)
	s.Assert().Equal(100-workers, stored.Session.Enemies[0].CurrentHP)
}

func (s *RepositoryTestSuite) TestMissing() {
	_, err := s.repo.Get(s.ctx, &battles.GetInput{BattleID: "nope"})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.repo.Apply(s.ctx, &battles.ApplyInput{
		BattleID: "nope",
		Mutate:   func(*entities.BattleSession) error { return nil },
	})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, &battles.DeleteInput{BattleID: "nope"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestInvalidInput() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Apply(s.ctx, &battles.ApplyInput{BattleID: "b-1"})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, &battles.GetInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Session: session("b-1", 15)})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, &battles.DeleteInput{BattleID: "b-1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &battles.GetInput{BattleID: "b-1"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestFutureSchemaIsRefused() {
	future := session("b-future", 10)
	future.SchemaVersion = entities.CurrentSchemaVersion + 1
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Session: future})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &battles.GetInput{BattleID: "b-future"})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func TestRedisSessionsExpire(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &battles.CreateInput{Session: session("b-1", 15)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.FastForward(battles.DefaultTTL + time.Minute)

	_, err := repo.Get(ctx, &battles.GetInput{BattleID: "b-1"})
	if !errors.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND after TTL, got %v", err)
	}
}
