package client

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	internalbattle "github.com/KirkDiggler/encounter-forge/internal/battle"
	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/handlers/encounterforge/v1alpha1"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle"
	battlemock "github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle/mock"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter"
	encountermock "github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter/mock"
	"github.com/KirkDiggler/encounter-forge/internal/testutils"
)

type ClientTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockEncounter *encountermock.MockService
	mockBattle    *battlemock.MockService
	server        *grpc.Server
	out           *bytes.Buffer
	cmd           *cobra.Command
	origDial      func() (grpc.ClientConnInterface, func(), error)
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockEncounter = encountermock.NewMockService(s.ctrl)
	s.mockBattle = battlemock.NewMockService(s.ctrl)

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		EncounterService: s.mockEncounter,
		BattleService:    s.mockBattle,
	})
	s.Require().NoError(err)

	lis := bufconn.Listen(1 << 20)
	s.server = grpc.NewServer()
	v1alpha1.RegisterEncounterServiceServer(s.server, handler)
	go func() {
		_ = s.server.Serve(lis)
	}()

	s.origDial = dial
	dial = func() (grpc.ClientConnInterface, func(), error) {
		conn, err := grpc.NewClient("passthrough:///bufnet",
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() { _ = conn.Close() }, nil
	}
	timeout = 5 * time.Second

	s.out = &bytes.Buffer{}
	s.cmd = &cobra.Command{}
	s.cmd.SetOut(s.out)

	enemyType, count, difficulty, language = "", 1, "medium", ""
	battleTitle, snapshotFile, outFile = "", "", ""
}

func (s *ClientTestSuite) TearDownTest() {
	dial = s.origDial
	s.server.Stop()
	s.ctrl.Finish()
}


func (s *ClientTestSuite) TestGenerate() {
	enemyType, count, difficulty = "Dire Wolf", 2, "medium"
	s.mockEncounter.EXPECT().
		GenerateEncounter(gomock.Any(), &encounter.GenerateEncounterInput{
			EnemyType:         "Dire Wolf",
			NumberOfCreatures: 2,
			Difficulty:        entities.DifficultyMedium,
		}).
		Return(&encounter.GenerateEncounterOutput{Encounter: testutils.DireWolfPack()}, nil)

	s.Require().NoError(runGenerate(s.cmd, nil))

	out := s.out.String()
	s.Assert().Contains(out, "Dire Wolf ×2")
	s.Assert().Contains(out, "Dire Wolf 1 [enc_1-1]")
	s.Assert().Contains(out, "AC 13  HP 11  Speed 30 ft.")
	s.Assert().Contains(out, "Pack Tactics")
	s.Assert().Contains(out, "Bite")
}

func (s *ClientTestSuite) TestGenerateValidationError() {
	enemyType, count = "Goblin", 40
	vb := errors.NewValidationBuilder()
	vb.Field("numberOfCreatures", "must be between 1 and 20")
	s.mockEncounter.EXPECT().GenerateEncounter(gomock.Any(), gomock.Any()).Return(nil, vb.Build())

	err := runGenerate(s.cmd, nil)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "failed to generate encounter")
	s.Assert().Contains(err.Error(), "field.numberOfCreatures")
}

func (s *ClientTestSuite) TestList() {
	s.Run("empty", func() {
		s.out.Reset()
		s.mockEncounter.EXPECT().ListEncounters(gomock.Any(), gomock.Any()).
			Return(&encounter.ListEncountersOutput{}, nil)

		s.Require().NoError(runList(s.cmd, nil))
		s.Assert().Contains(s.out.String(), "No encounters yet.")
	})

	s.Run("rows", func() {
		s.out.Reset()
		s.mockEncounter.EXPECT().ListEncounters(gomock.Any(), gomock.Any()).
			Return(&encounter.ListEncountersOutput{Encounters: []*entities.Encounter{testutils.DireWolfPack()}}, nil)

		s.Require().NoError(runList(s.cmd, nil))
		s.Assert().Contains(s.out.String(), "enc_1")
	})
}

func (s *ClientTestSuite) TestBattleStartFromSnapshotFile() {
	path := filepath.Join(s.T().TempDir(), "snapshot.json")
	s.Require().NoError(os.WriteFile(path, []byte(`[{"id":"g-1","name":"Goblin","hitPoints":7}]`), 0o600))
	snapshotFile = path

	s.mockBattle.EXPECT().
		StartBattle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *battle.StartBattleInput) (*battle.StartBattleOutput, error) {
			s.Assert().JSONEq(`[{"id":"g-1","name":"Goblin","hitPoints":7}]`, string(input.Snapshot))
			return &battle.StartBattleOutput{
				Battle: &entities.BattleSession{
					ID:    "battle_1",
					Title: "Battle",
					Enemies: []entities.BattleEnemy{
						{Enemy: entities.Enemy{ID: "g-1", Name: "Goblin", HitPoints: 7}, CurrentHP: 7},
					},
				},
				Alive: 1,
			}, nil
		})

	s.Require().NoError(runBattleStart(s.cmd, nil))
	s.Assert().Contains(s.out.String(), "Battle ID: battle_1")
	s.Assert().Contains(s.out.String(), "7/7")
}

func (s *ClientTestSuite) TestBattleDamage() {
	s.Run("applies parsed amount", func() {
		s.out.Reset()
		s.mockBattle.EXPECT().
			ApplyDamage(gomock.Any(), &battle.ApplyDamageInput{BattleID: "battle_1", EnemyID: "g-1", Amount: 9}).
			Return(&battle.ApplyDamageOutput{
				Result:      &internalbattle.DamageResult{EnemyID: "g-1", PreviousHP: 7, CurrentHP: 0, Applied: true, Defeated: true, JustDefeated: true},
				Battle:      &entities.BattleSession{ID: "battle_1"},
				AllDefeated: true,
			}, nil)

		s.Require().NoError(runBattleDamage(s.cmd, []string{"battle_1", "g-1", "9"}))
		out := s.out.String()
		s.Assert().Contains(out, "g-1: 7 → 0 HP")
		s.Assert().Contains(out, "g-1 is defeated")
		s.Assert().Contains(out, "All enemies defeated!")
	})

	s.Run("rejects non-numeric amount before calling the server", func() {
		s.Assert().Error(runBattleDamage(s.cmd, []string{"battle_1", "g-1", "lots"}))
	})

	s.Run("zero reaches the server so a defeated enemy stays a no-op", func() {
		s.out.Reset()
		s.mockBattle.EXPECT().
			ApplyDamage(gomock.Any(), &battle.ApplyDamageInput{BattleID: "battle_1", EnemyID: "g-1", Amount: 0}).
			Return(&battle.ApplyDamageOutput{
				Result: &internalbattle.DamageResult{EnemyID: "g-1", Defeated: true},
				Battle: &entities.BattleSession{ID: "battle_1"},
			}, nil)

		s.Require().NoError(runBattleDamage(s.cmd, []string{"battle_1", "g-1", "0"}))
		s.Assert().Contains(s.out.String(), "g-1 is already defeated")
	})
}

func (s *ClientTestSuite) TestBattleFinish() {
	s.mockBattle.EXPECT().
		FinishBattle(gomock.Any(), &battle.FinishBattleInput{BattleID: "battle_1"}).
		Return(&battle.FinishBattleOutput{
			Battle:   &entities.BattleSession{ID: "battle_1", Enemies: make([]entities.BattleEnemy, 3)},
			Defeated: 2,
		}, nil)

	s.Require().NoError(runBattleFinish(s.cmd, []string{"battle_1"}))
	s.Assert().Contains(s.out.String(), "2 of 3 enemies defeated")
}

func (s *ClientTestSuite) TestExportPDF() {
	outFile = filepath.Join(s.T().TempDir(), "wolves.pdf")
	s.mockEncounter.EXPECT().
		GetEncounter(gomock.Any(), &encounter.GetEncounterInput{EncounterID: "enc_1"}).
		Return(&encounter.GetEncounterOutput{Encounter: testutils.DireWolfPack()}, nil)

	s.Require().NoError(runExportPDF(s.cmd, []string{"enc_1"}))

	data, err := os.ReadFile(outFile)
	s.Require().NoError(err)
	s.Assert().True(bytes.HasPrefix(data, []byte("%PDF")))
}

func (s *ClientTestSuite) TestHPBar() {
	s.Assert().Equal("["+strings.Repeat("█", 20)+"]", hpBar(10, 10))
	s.Assert().Equal("["+strings.Repeat("·", 20)+"]", hpBar(0, 10))
	s.Assert().Equal("[█"+strings.Repeat("·", 19)+"]", hpBar(1, 100))
}
