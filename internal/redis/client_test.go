package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/encounter-forge/internal/redis"
)

type ClientTestSuite struct {
	suite.Suite
	mr *miniredis.Miniredis
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
}

func (s *ClientTestSuite) TestEndpointRequired() {
	_, err := redis.NewClient("", nil)
	s.Assert().Error(err)
}

func (s *ClientTestSuite) TestHostPort() {
	client, err := redis.NewClient(s.mr.Addr(), nil)
	s.Require().NoError(err)
	defer func() { _ = client.Close() }()

	s.Require().NoError(client.Set(context.Background(), "k", "v", 0).Err())
	s.mr.CheckGet(s.T(), "k", "v")
}

func (s *ClientTestSuite) TestURL() {
	client, err := redis.NewClient("redis://"+s.mr.Addr()+"/0", &redis.Options{PoolSize: 4})
	s.Require().NoError(err)
	defer func() { _ = client.Close() }()

	s.Assert().NoError(client.Ping(context.Background()).Err())
}

func (s *ClientTestSuite) TestBadURL() {
	_, err := redis.NewClient("redis://%zz", nil)
	s.Assert().Error(err)
}
