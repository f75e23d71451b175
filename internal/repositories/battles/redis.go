package battles

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/encounter-forge/internal/redis"
)

const (
	// Key pattern: battle:{id}
	battleKeyPrefix = "battle:"

	// optimistic lock retries before giving up on a hot session
	maxApplyAttempts = 10
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	// TTL of an idle session (optional, defaults to DefaultTTL)
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	if c.TTL < 0 {
		return errors.InvalidArgument("ttl must not be negative")
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis repository for battle sessions
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    cfg.TTL,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	data, err := encodeSession(input.Session)
	if err != nil {
		return nil, err
	}

	created, err := r.client.SetNX(ctx, battleKeyPrefix+input.Session.ID, data, r.ttl).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to store battle session in Redis")
	}
	if !created {
		return nil, errors.AlreadyExists("battle already exists").WithMeta("battle_id", input.Session.ID)
	}

	return &CreateOutput{Session: input.Session}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	data, err := r.client.Get(ctx, battleKeyPrefix+input.BattleID).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, notFound(input.BattleID)
		}
		return nil, errors.Wrap(err, "failed to get battle session from Redis")
	}

	session, err := decodeSession(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Session: session}, nil
}

// Apply uses WATCH/MULTI so a concurrent write to the same session makes
// this transaction fail and retry against the fresh value
func (r *redisRepository) Apply(ctx context.Context, input *ApplyInput) (*ApplyOutput, error) {
	if err := validateApply(input); err != nil {
		return nil, err
	}

	key := battleKeyPrefix + input.BattleID

	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		var result *ApplyOutput

		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if stderrors.Is(err, redis.Nil) {
					return notFound(input.BattleID)
				}
				return errors.Wrap(err, "failed to get battle session from Redis")
			}

			session, err := decodeSession(data)
			if err != nil {
				return err
			}
			if err := input.Mutate(session); err != nil {
				return err
			}
			session.UpdatedAt = r.clock.Now()

			updated, err := encodeSession(session)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, updated, r.ttl)
				return nil
			})
			if err != nil {
				return err
			}

			result = &ApplyOutput{Session: session}
			return nil
		}, key)

		switch {
		case err == nil:
			return result, nil
		case stderrors.Is(err, redis.TxFailedErr):
			slog.Debug("battle session changed during update, retrying",
				"battle_id", input.BattleID,
				"attempt", attempt)
			continue
		default:
			var coded *errors.Error
			if errors.As(err, &coded) {
				return nil, err
			}
			return nil, errors.Wrap(err, "failed to update battle session in Redis")
		}
	}

	return nil, errors.Unavailable("battle session is too busy, try again").WithMeta("battle_id", input.BattleID)
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	removed, err := r.client.Del(ctx, battleKeyPrefix+input.BattleID).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete battle session from Redis")
	}
	if removed == 0 {
		return nil, notFound(input.BattleID)
	}

	return &DeleteOutput{}, nil
}
