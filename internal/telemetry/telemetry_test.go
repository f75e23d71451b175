package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/encounter-forge/internal/telemetry"
)

type TelemetryTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestTelemetrySuite(t *testing.T) {
	suite.Run(t, new(TelemetryTestSuite))
}

func (s *TelemetryTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *TelemetryTestSuite) TestNoopWhenEndpointEmpty() {
	shutdown, err := telemetry.Setup(s.ctx, &telemetry.Config{ServiceName: "test", Enabled: true})
	s.Require().NoError(err)
	s.Assert().NoError(shutdown(s.ctx))
}

func (s *TelemetryTestSuite) TestNoopWhenDisabled() {
	shutdown, err := telemetry.Setup(s.ctx, &telemetry.Config{
		ServiceName: "test",
		Endpoint:    "http://localhost:4318",
	})
	s.Require().NoError(err)
	s.Assert().NoError(shutdown(s.ctx))
}

func (s *TelemetryTestSuite) TestProviderWithEndpoint() {
	// non-routable address so nothing is exported
	shutdown, err := telemetry.Setup(s.ctx, &telemetry.Config{
		ServiceName: "test",
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
	})
	s.Require().NoError(err)
	s.Assert().NoError(shutdown(s.ctx))
}
