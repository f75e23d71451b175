package config_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/encounter-forge/internal/config"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load()
	s.Require().NoError(err)

	s.Assert().Equal(":50051", cfg.GRPCAddr)
	s.Assert().Equal(":8080", cfg.HTTPAddr)
	s.Assert().Equal(12*time.Hour, cfg.BattleTTL)
	s.Assert().Equal(config.GeneratorAuto, cfg.Generator)
	s.Assert().Equal("gpt-4o-mini", cfg.OpenAIModel)
	s.Assert().InDelta(0.8, cfg.Temperature, 1e-9)
	s.Assert().True(cfg.SRDEnabled)
}

func (s *ConfigTestSuite) TestOverrides() {
	s.T().Setenv("ENCOUNTER_FORGE_GENERATOR", "offline")
	s.T().Setenv("ENCOUNTER_FORGE_BATTLE_TTL", "30m")
	s.T().Setenv("ENCOUNTER_FORGE_SRD_ENABLED", "false")

	cfg, err := config.Load()
	s.Require().NoError(err)
	s.Assert().Equal(30*time.Minute, cfg.BattleTTL)
	s.Assert().False(cfg.SRDEnabled)
	s.Assert().False(cfg.UseLLM())
}

func (s *ConfigTestSuite) TestUnparsableValue() {
	s.T().Setenv("ENCOUNTER_FORGE_BATTLE_TTL", "soon")

	_, err := config.Load()
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestValidate() {
	testCases := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "unknown generator", mutate: func(c *config.Config) { c.Generator = "magic" }, field: "Generator"},
		{name: "llm without key", mutate: func(c *config.Config) { c.Generator = config.GeneratorLLM }, field: "OpenAIAPIKey"},
		{name: "temperature", mutate: func(c *config.Config) { c.Temperature = 3 }, field: "Temperature"},
		{name: "retries", mutate: func(c *config.Config) { c.GeneratorRetries = -1 }, field: "GeneratorRetries"},
		{name: "ttl", mutate: func(c *config.Config) { c.BattleTTL = 0 }, field: "BattleTTL"},
		{name: "log format", mutate: func(c *config.Config) { c.LogFormat = "xml" }, field: "LogFormat"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg, err := config.Load()
			s.Require().NoError(err)
			tc.mutate(cfg)

			err = cfg.Validate()
			s.Require().Error(err)
			s.Assert().Contains(err.Error(), tc.field)
		})
	}
}

func (s *ConfigTestSuite) TestUseLLM() {
	cfg := &config.Config{Generator: config.GeneratorAuto}
	s.Assert().False(cfg.UseLLM())

	cfg.OpenAIAPIKey = "sk-test"
	s.Assert().True(cfg.UseLLM())

	cfg.Generator = config.GeneratorOffline
	s.Assert().False(cfg.UseLLM())
}

func (s *ConfigTestSuite) TestLogger() {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "warn", LogFormat: "text"}
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "battle_id", "b-1")

	out := buf.String()
	s.Assert().NotContains(out, "hidden")
	s.Assert().True(strings.Contains(out, "battle_id=b-1"))
}
