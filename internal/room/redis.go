// internal/room/redis.go
package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	roomKeyPrefix   = "room:"
	playerKeyPrefix = "player_room:"
	publicSetKey    = "rooms:public"

	redisOpTimeout = 5 * time.Second
)

// RedisRepository stores rooms as JSON records with a per-key TTL, so idle
// eviction is handled by redis itself. A set index tracks public rooms still
// in the lobby, avoiding a full scan for discovery.
type RedisRepository struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

// NewRedisRepository connects to addr and verifies the connection. ttl <= 0
// selects DefaultIdleWindow.
func NewRedisRepository(addr string, db int, ttl time.Duration, logger *logrus.Logger) (*RedisRepository, error) {
	if ttl <= 0 {
		ttl = DefaultIdleWindow
	}
	if logger == nil {
		logger = logrus.New()
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisRepository{rdb: rdb, ttl: ttl, log: logger}, nil
}

// Close releases the underlying client.
func (s *RedisRepository) Close() error {
	return s.rdb.Close()
}

func roomKey(code string) string {
	return roomKeyPrefix + strings.ToUpper(code)
}

func playerKey(playerID string) string {
	return playerKeyPrefix + playerID
}

// inLobbyAndPublic decides membership in the discovery index.
func inLobbyAndPublic(rm *Room) bool {
	return rm.IsPublic && rm.CurrentRound == nil
}

func (s *RedisRepository) wrap(op string, err error) error {
	s.log.WithError(err).WithField("op", op).Warn("redis operation failed")
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

func (s *RedisRepository) Create(ctx context.Context, rm *Room) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	rm.Version = 1
	data, err := json.Marshal(rm)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", rm.Code, err)
	}
	ok, err := s.rdb.SetNX(ctx, roomKey(rm.Code), data, s.ttl).Result()
	if err != nil {
		return s.wrap("create", err)
	}
	if !ok {
		return ErrDuplicateCode
	}
	if inLobbyAndPublic(rm) {
		if err := s.rdb.SAdd(ctx, publicSetKey, strings.ToUpper(rm.Code)).Err(); err != nil {
			s.log.WithError(err).Warn("failed to index public room")
		}
	}
	return nil
}

func (s *RedisRepository) Get(ctx context.Context, code string) (*Room, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	key := roomKey(code)
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.wrap("get", err)
	}
	var rm Room
	if err := json.Unmarshal(data, &rm); err != nil {
		return nil, fmt.Errorf("unmarshal room %s: %w", code, err)
	}
	// Any read counts as activity.
	if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		s.log.WithError(err).Warn("failed to refresh room ttl")
	}
	return &rm, nil
}

// Put is a WATCH-guarded compare-and-swap on the room's version stamp, so two
// interleaved read-mutate-write cycles cannot silently drop each other's
// changes.
func (s *RedisRepository) Put(ctx context.Context, rm *Room) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	key := roomKey(rm.Code)
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var stored Room
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("unmarshal room %s: %w", rm.Code, err)
		}
		if stored.Version != rm.Version {
			return ErrConflict
		}
		rm.Version++
		buf, err := json.Marshal(rm)
		if err != nil {
			return fmt.Errorf("marshal room %s: %w", rm.Code, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, buf, s.ttl)
			if inLobbyAndPublic(rm) {
				pipe.SAdd(ctx, publicSetKey, strings.ToUpper(rm.Code))
			} else {
				pipe.SRem(ctx, publicSetKey, strings.ToUpper(rm.Code))
			}
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, redis.TxFailedErr):
		rm.Version-- // undo the optimistic bump; the write did not land
		return ErrConflict
	default:
		return s.wrap("put", err)
	}
}

func (s *RedisRepository) Delete(ctx context.Context, code string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	code = strings.ToUpper(code)
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, roomKeyPrefix+code)
	pipe.SRem(ctx, publicSetKey, code)
	if _, err := pipe.Exec(ctx); err != nil {
		return s.wrap("delete", err)
	}
	return nil
}

func (s *RedisRepository) ListPublicCodes(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	codes, err := s.rdb.SMembers(ctx, publicSetKey).Result()
	if err != nil {
		return nil, s.wrap("list public", err)
	}
	return codes, nil
}

func (s *RedisRepository) BindPlayer(ctx context.Context, playerID, code string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, playerKey(playerID), strings.ToUpper(code), s.ttl).Err(); err != nil {
		return s.wrap("bind player", err)
	}
	return nil
}

func (s *RedisRepository) PlayerRoom(ctx context.Context, playerID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	code, err := s.rdb.Get(ctx, playerKey(playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", s.wrap("player room", err)
	}
	return code, nil
}

func (s *RedisRepository) UnbindPlayer(ctx context.Context, playerID string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, playerKey(playerID)).Err(); err != nil {
		return s.wrap("unbind player", err)
	}
	return nil
}
