package characters

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-mud/internal/redis"
)

const (
	playerKeyPrefix     = "player:"
	playerIndexKey      = "players"
	accountIndexPrefix  = "player:account:"
	errPlayerNameEmpty  = "player name cannot be empty"
	errAccountNameEmpty = "account cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis player repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed player repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *redisRepository) HasData(ctx context.Context) (bool, error) {
	count, err := r.client.SCard(ctx, playerIndexKey).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to count players")
	}
	return count > 0, nil
}

func (r *redisRepository) Fetch(ctx context.Context, name string) (entities.PlayerData, error) {
	id := normalize(name)
	if id == "" {
		return entities.PlayerData{}, errors.InvalidArgument(errPlayerNameEmpty)
	}

	result, err := r.client.Get(ctx, playerKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return entities.PlayerData{}, errors.NotFoundf("player %s not found", name).WithMeta("player", name)
		}
		return entities.PlayerData{}, errors.Wrapf(err, "failed to get player %s", name)
	}

	var data entities.PlayerData
	if err := json.Unmarshal([]byte(result), &data); err != nil {
		return entities.PlayerData{}, errors.Wrapf(err, "failed to unmarshal player %s", name)
	}
	return data, nil
}

func (r *redisRepository) FetchAll(ctx context.Context) (map[string]entities.PlayerData, error) {
	return r.listByIndex(ctx, playerIndexKey)
}

func (r *redisRepository) Update(ctx context.Context, name string, data entities.PlayerData) error {
	id := normalize(name)
	if id == "" {
		return errors.InvalidArgument(errPlayerNameEmpty)
	}

	existing, err := r.Fetch(ctx, id)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal player %s", name)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, playerKeyPrefix+id, encoded, 0)
	pipe.SAdd(ctx, playerIndexKey, id)
	if existing.Account != "" && existing.Account != data.Account {
		pipe.SRem(ctx, accountIndexPrefix+existing.Account, id)
	}
	if data.Account != "" {
		pipe.SAdd(ctx, accountIndexPrefix+data.Account, id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to save player",
			"player", name,
			"error", err.Error())
		return errors.Wrapf(err, "failed to save player %s", name)
	}

	slog.DebugContext(ctx, "saved player",
		"player", name,
		"room", data.Room)
	return nil
}

func (r *redisRepository) Replace(ctx context.Context, records map[string]entities.PlayerData) error {
	current, err := r.client.SMembers(ctx, playerIndexKey).Result()
	if err != nil {
		return errors.Wrap(err, "failed to list players")
	}
	for _, id := range current {
		if _, keep := records[id]; keep {
			continue
		}
		if err := r.Delete(ctx, id); err != nil && !errors.IsNotFound(err) {
			return err
		}
	}

	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.Update(ctx, name, records[name]); err != nil {
			return err
		}
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, name string) error {
	id := normalize(name)
	if id == "" {
		return errors.InvalidArgument(errPlayerNameEmpty)
	}

	existing, err := r.Fetch(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, playerKeyPrefix+id)
	pipe.SRem(ctx, playerIndexKey, id)
	if existing.Account != "" {
		pipe.SRem(ctx, accountIndexPrefix+existing.Account, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to delete player %s", name)
	}
	return nil
}

func (r *redisRepository) ListByAccount(ctx context.Context, account string) ([]entities.PlayerData, error) {
	if account == "" {
		return nil, errors.InvalidArgument(errAccountNameEmpty)
	}

	indexKey := accountIndexPrefix + account
	byName, err := r.listByIndex(ctx, indexKey)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list players by account",
			"account", account,
			"index_key", indexKey,
			"error", err.Error())
		return nil, err
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]entities.PlayerData, 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out, nil
}

// listByIndex loads every save named in a set, dropping stale members.
func (r *redisRepository) listByIndex(ctx context.Context, indexKey string) (map[string]entities.PlayerData, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get players from index %s", indexKey)
	}

	slog.DebugContext(ctx, "found players in index",
		"index_key", indexKey,
		"count", len(ids))

	out := make(map[string]entities.PlayerData, len(ids))
	for _, id := range ids {
		data, err := r.Fetch(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "player not found, cleaning up index",
					"player", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, err
		}
		out[id] = data
	}
	return out, nil
}
