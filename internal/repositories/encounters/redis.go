package encounters

import (
	"context"
	"encoding/json"
	stderrors "errors"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	redisclient "github.com/KirkDiggler/encounter-forge/internal/redis"
)

const (
	// Key pattern: encounter:{id}
	encounterKeyPrefix = "encounter:"
	// Sorted set of encounter ids scored by creation time in unix millis
	recentIndexKey = "encounters:recent"
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis repository for encounters
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Encounter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal encounter")
	}

	key := encounterKeyPrefix + input.Encounter.ID
	created, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to store encounter in Redis")
	}
	if !created {
		return nil, errors.AlreadyExists("encounter already exists").WithMeta("encounter_id", input.Encounter.ID)
	}

	err = r.client.ZAdd(ctx, recentIndexKey, redis.Z{
		Score:  float64(input.Encounter.CreatedAt.UnixMilli()),
		Member: input.Encounter.ID,
	}).Err()
	if err != nil {
		// without the index entry the encounter would be unlisted forever
		_ = r.client.Del(ctx, key).Err()
		return nil, errors.Wrap(err, "failed to index encounter in Redis")
	}

	return &SaveOutput{Encounter: input.Encounter}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	data, err := r.client.Get(ctx, encounterKeyPrefix+input.EncounterID).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NotFound("encounter not found").WithMeta("encounter_id", input.EncounterID)
		}
		return nil, errors.Wrap(err, "failed to get encounter from Redis")
	}

	encounter, err := decodeEncounter(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Encounter: encounter}, nil
}

func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	limit := DefaultListLimit
	if input != nil {
		limit = clampLimit(input.Limit)
	}

	ids, err := r.client.ZRevRange(ctx, recentIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read encounter index")
	}
	if len(ids) == 0 {
		return &ListOutput{Encounters: []*entities.Encounter{}}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, encounterKeyPrefix+id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load encounters from Redis")
	}

	out := make([]*entities.Encounter, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// index points at a key that is gone
			_ = r.client.ZRem(ctx, recentIndexKey, ids[i]).Err()
			continue
		}
		encounter, err := decodeEncounter([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, encounter)
	}

	return &ListOutput{Encounters: out}, nil
}
