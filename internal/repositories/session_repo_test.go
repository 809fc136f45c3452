package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type SessionRepositorySuite struct {
	suite.Suite
	mini *miniredis.Miniredis
	repo *SessionRepository
	ctx  context.Context
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}

func (s *SessionRepositorySuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.repo = NewSessionRepository(client)
	s.ctx = context.Background()
}

func (s *SessionRepositorySuite) TestRevokeAndCheck() {
	revoked, err := s.repo.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(s.repo.Revoke(s.ctx, "jti-1", 42, time.Now().Add(time.Hour)))

	revoked, err = s.repo.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	other, err := s.repo.IsRevoked(s.ctx, "jti-2")
	s.Require().NoError(err)
	s.False(other)
}

func (s *SessionRepositorySuite) TestRevocationExpiresWithToken() {
	s.Require().NoError(s.repo.Revoke(s.ctx, "jti-ttl", 1, time.Now().Add(30*time.Minute)))
	s.True(s.mini.Exists(revokedSessionKey("jti-ttl")))

	s.mini.FastForward(31 * time.Minute)

	revoked, err := s.repo.IsRevoked(s.ctx, "jti-ttl")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *SessionRepositorySuite) TestRevokeExpiredTokenIsNoop() {
	s.Require().NoError(s.repo.Revoke(s.ctx, "old", 1, time.Now().Add(-time.Minute)))
	s.False(s.mini.Exists(revokedSessionKey("old")))
}

func (s *SessionRepositorySuite) TestRedisDown() {
	s.mini.Close()

	_, err := s.repo.IsRevoked(s.ctx, "jti-1")
	s.Error(err)
	s.Error(s.repo.Ping(s.ctx))
}
