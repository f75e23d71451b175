package web_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	internalbattle "github.com/KirkDiggler/encounter-forge/internal/battle"
	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/handlers/web"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle"
	battlemock "github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle/mock"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter"
	encountermock "github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter/mock"
)

type ServerTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockEncounter *encountermock.MockService
	mockBattle    *battlemock.MockService
	handler       http.Handler
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockEncounter = encountermock.NewMockService(s.ctrl)
	s.mockBattle = battlemock.NewMockService(s.ctrl)

	srv, err := web.NewServer(&web.Config{
		EncounterService: s.mockEncounter,
		BattleService:    s.mockBattle,
		Render: func(enc *entities.Encounter) ([]byte, error) {
			return []byte("%PDF-fake " + enc.ID), nil
		},
	})
	s.Require().NoError(err)
	s.handler = srv.Routes()
}

func (s *ServerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *ServerTestSuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz", "")
	s.Assert().Equal(http.StatusOK, rec.Code)
	s.Assert().Equal("ok", s.decode(rec)["status"])
}

func (s *ServerTestSuite) TestGenerateEncounter() {
	s.Run("created", func() {
		s.mockEncounter.EXPECT().
			GenerateEncounter(gomock.Any(), &encounter.GenerateEncounterInput{
				EnemyType:         "Goblin",
				NumberOfCreatures: 2,
				Difficulty:        entities.DifficultyHard,
			}).
			Return(&encounter.GenerateEncounterOutput{Encounter: &entities.Encounter{ID: "enc_1", Title: "Goblin ×2"}}, nil)

		rec := s.do(http.MethodPost, "/api/encounters",
			`{"enemyType":"Goblin","numberOfCreatures":2,"difficulty":"hard"}`)
		s.Assert().Equal(http.StatusCreated, rec.Code)

		body := s.decode(rec)
		enc, ok := body["encounter"].(map[string]any)
		s.Require().True(ok)
		s.Assert().Equal("Goblin ×2", enc["title"])
	})

	s.Run("validation error body", func() {
		vb := errors.NewValidationBuilder()
		vb.RequiredField("enemyType")
		s.mockEncounter.EXPECT().GenerateEncounter(gomock.Any(), gomock.Any()).Return(nil, vb.Build())

		rec := s.do(http.MethodPost, "/api/encounters", `{"numberOfCreatures":2,"difficulty":"hard"}`)
		s.Assert().Equal(http.StatusBadRequest, rec.Code)

		body := s.decode(rec)
		s.Assert().Equal("INVALID_ARGUMENT", body["code"])
		meta, ok := body["meta"].(map[string]any)
		s.Require().True(ok)
		fields, ok := meta[errors.MetaValidationErrors].(map[string]any)
		s.Require().True(ok)
		s.Assert().Contains(fields, "enemyType")
	})

	s.Run("generation failure is a bad gateway", func() {
		s.mockEncounter.EXPECT().GenerateEncounter(gomock.Any(), gomock.Any()).
			Return(nil, errors.Unavailable("generator unavailable"))

		rec := s.do(http.MethodPost, "/api/encounters", `{"enemyType":"Goblin","numberOfCreatures":1,"difficulty":"easy"}`)
		s.Assert().Equal(http.StatusBadGateway, rec.Code)
		s.Assert().Equal("UNAVAILABLE", s.decode(rec)["code"])
	})

	s.Run("malformed json", func() {
		rec := s.do(http.MethodPost, "/api/encounters", `{"enemyType":`)
		s.Assert().Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ServerTestSuite) TestRandomEncounterWithoutBody() {
	s.mockEncounter.EXPECT().
		GenerateRandomEncounter(gomock.Any(), &encounter.GenerateRandomEncounterInput{}).
		Return(&encounter.GenerateRandomEncounterOutput{Encounter: &entities.Encounter{ID: "enc_r"}}, nil)

	rec := s.do(http.MethodPost, "/api/encounters/random", "")
	s.Assert().Equal(http.StatusCreated, rec.Code)
}

func (s *ServerTestSuite) TestEncounterQueries() {
	s.Run("list with limit", func() {
		s.mockEncounter.EXPECT().ListEncounters(gomock.Any(), &encounter.ListEncountersInput{Limit: 3}).
			Return(&encounter.ListEncountersOutput{Encounters: []*entities.Encounter{{ID: "a"}}}, nil)

		rec := s.do(http.MethodGet, "/api/encounters?limit=3", "")
		s.Assert().Equal(http.StatusOK, rec.Code)
	})

	s.Run("bad limit", func() {
		rec := s.do(http.MethodGet, "/api/encounters?limit=lots", "")
		s.Assert().Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("get by id", func() {
		s.mockEncounter.EXPECT().GetEncounter(gomock.Any(), &encounter.GetEncounterInput{EncounterID: "enc_9"}).
			Return(nil, errors.NotFound("encounter not found"))

		rec := s.do(http.MethodGet, "/api/encounters/enc_9", "")
		s.Assert().Equal(http.StatusNotFound, rec.Code)
		s.Assert().Equal("NOT_FOUND", s.decode(rec)["code"])
	})

	s.Run("stat blocks", func() {
		s.mockEncounter.EXPECT().GetEncounter(gomock.Any(), &encounter.GetEncounterInput{EncounterID: "enc_1"}).
			Return(&encounter.GetEncounterOutput{Encounter: &entities.Encounter{ID: "enc_1", Title: "Dire Wolf ×2"}}, nil)

		rec := s.do(http.MethodGet, "/api/encounters/enc_1/statblocks.pdf", "")
		s.Assert().Equal(http.StatusOK, rec.Code)
		s.Assert().Equal("application/pdf", rec.Header().Get("Content-Type"))
		s.Assert().Contains(rec.Header().Get("Content-Disposition"), `filename="dire-wolf-2.pdf"`)
		s.Assert().True(bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	s.Run("enemy types", func() {
		s.mockEncounter.EXPECT().
			ListEnemyTypes(gomock.Any(), &encounter.ListEnemyTypesInput{Language: "en", IncludeSRD: true}).
			Return(&encounter.ListEnemyTypesOutput{Language: "en", EnemyTypes: []string{"Goblin Scout", "Aboleth"}, SRDIncluded: true}, nil)

		rec := s.do(http.MethodGet, "/api/enemy-types?lang=en&srd=true", "")
		s.Assert().Equal(http.StatusOK, rec.Code)
		s.Assert().Equal(true, s.decode(rec)["srdIncluded"])
	})
}

func (s *ServerTestSuite) TestBattleRoutes() {
	session := &entities.BattleSession{ID: "battle_1", Title: "Battle"}

	s.Run("start from an encounter", func() {
		s.mockBattle.EXPECT().
			StartBattle(gomock.Any(), &battle.StartBattleInput{EncounterID: "enc_1"}).
			Return(&battle.StartBattleOutput{Battle: session, Empty: true}, nil)

		rec := s.do(http.MethodPost, "/api/battles", `{"encounterId":"enc_1"}`)
		s.Assert().Equal(http.StatusCreated, rec.Code)
		s.Assert().Equal(true, s.decode(rec)["empty"])
	})

	s.Run("damage accepts a number or a string", func() {
		for _, body := range []string{`{"enemyId":"g-1","amount":4}`, `{"enemyId":"g-1","amount":" 4 "}`} {
			s.mockBattle.EXPECT().
				ApplyDamage(gomock.Any(), &battle.ApplyDamageInput{BattleID: "battle_1", EnemyID: "g-1", Amount: 4}).
				Return(&battle.ApplyDamageOutput{
					Result: &internalbattle.DamageResult{EnemyID: "g-1", PreviousHP: 7, CurrentHP: 3, Applied: true},
					Battle: session,
				}, nil)

			rec := s.do(http.MethodPost, "/api/battles/battle_1/damage", body)
			s.Assert().Equal(http.StatusOK, rec.Code)
		}
	})

	s.Run("damage rejects non-numeric amounts without calling the service", func() {
		for _, body := range []string{
			`{"enemyId":"g-1","amount":"abc"}`,
			`{"enemyId":"g-1","amount":2.5}`,
			`{"enemyId":"g-1"}`,
		} {
			rec := s.do(http.MethodPost, "/api/battles/battle_1/damage", body)
			s.Assert().Equal(http.StatusBadRequest, rec.Code, body)
		}
	})

	s.Run("zero damage on a defeated enemy is a no-op", func() {
		s.mockBattle.EXPECT().
			ApplyDamage(gomock.Any(), &battle.ApplyDamageInput{BattleID: "battle_1", EnemyID: "g-1", Amount: 0}).
			Return(&battle.ApplyDamageOutput{
				Result: &internalbattle.DamageResult{EnemyID: "g-1", Defeated: true},
				Battle: session,
			}, nil)

		rec := s.do(http.MethodPost, "/api/battles/battle_1/damage", `{"enemyId":"g-1","amount":0}`)
		s.Require().Equal(http.StatusOK, rec.Code)
		result := s.decode(rec)["result"].(map[string]any)
		s.Assert().Equal(false, result["applied"])
	})

	s.Run("non-positive damage on a live enemy is rejected by the service", func() {
		s.mockBattle.EXPECT().
			ApplyDamage(gomock.Any(), &battle.ApplyDamageInput{BattleID: "battle_1", EnemyID: "g-2", Amount: -2}).
			Return(nil, errors.InvalidArgumentf("damage must be a positive number, got %d", -2))

		rec := s.do(http.MethodPost, "/api/battles/battle_1/damage", `{"enemyId":"g-2","amount":-2}`)
		s.Assert().Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("get and finish", func() {
		s.mockBattle.EXPECT().GetBattle(gomock.Any(), &battle.GetBattleInput{BattleID: "battle_1"}).
			Return(&battle.GetBattleOutput{Battle: session}, nil)
		s.mockBattle.EXPECT().FinishBattle(gomock.Any(), &battle.FinishBattleInput{BattleID: "battle_1"}).
			Return(&battle.FinishBattleOutput{Battle: session, Defeated: 0}, nil)

		s.Assert().Equal(http.StatusOK, s.do(http.MethodGet, "/api/battles/battle_1", "").Code)
		s.Assert().Equal(http.StatusOK, s.do(http.MethodDelete, "/api/battles/battle_1", "").Code)
	})

	s.Run("wrong method", func() {
		rec := s.do(http.MethodPut, "/api/battles/battle_1", "")
		s.Assert().Equal(http.StatusMethodNotAllowed, rec.Code)
	})
}
