package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"casino-minigames/internal/config"
	"casino-minigames/internal/models"
)

type RedisService struct {
	client *redis.Client
}

func NewRedisService(ctx context.Context, cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisService{client: client}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// CheckRateLimit counts one call of action by subject inside a fixed window.
func (s *RedisService) CheckRateLimit(ctx context.Context, subject, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, subject, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) ClearRateLimit(ctx context.Context, subject, action string) error {
	return s.client.Del(ctx, fmt.Sprintf(KeyRateLimit, subject, action)).Err()
}

// RecordRound stores the record and indexes it in the user's history,
// keeping only the newest MaxHistory entries.
func (s *RedisService) RecordRound(ctx context.Context, rec *models.RoundRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	roundKey := fmt.Sprintf(KeyRound, rec.ID)
	userKey := fmt.Sprintf(KeyUserRounds, rec.UserID)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, roundKey, data, TTLRound)
	pipe.ZAdd(ctx, userKey, redis.Z{
		Score:  float64(rec.CreatedAt.UnixNano()),
		Member: rec.ID,
	})
	pipe.ZRemRangeByRank(ctx, userKey, 0, -(MaxHistory + 1))
	pipe.Expire(ctx, userKey, TTLUserRounds)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record round: %w", err)
	}
	return nil
}

func (s *RedisService) GetRoundHistory(ctx context.Context, userID string, limit int64) ([]*models.RoundRecord, error) {
	if limit <= 0 || limit > MaxHistory {
		limit = 50
	}

	ids, err := s.client.ZRevRange(ctx, fmt.Sprintf(KeyUserRounds, userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round ids: %w", err)
	}
	if len(ids) == 0 {
		return []*models.RoundRecord{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(KeyRound, id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pipeline execution failed: %w", err)
	}

	records := make([]*models.RoundRecord, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}

		var rec models.RoundRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}

	return records, nil
}

func (s *RedisService) DeleteRoundHistory(ctx context.Context, userID string) error {
	userKey := fmt.Sprintf(KeyUserRounds, userID)

	ids, err := s.client.ZRange(ctx, userKey, 0, -1).Result()
	if err != nil {
		return err
	}
	keys := []string{userKey}
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf(KeyRound, id))
	}
	return s.client.Del(ctx, keys...).Err()
}
