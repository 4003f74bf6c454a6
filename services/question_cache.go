package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// QuestionCache 記錄每位用戶最近被問到、尚未回答的問題
type QuestionCache interface {
	GetPending(ctx context.Context, userID string) (string, error)
	SetPending(ctx context.Context, userID, question string) error
}

// 待答問題保留半天，逾期的回答退回以日誌末筆關聯
const pendingQuestionTTL = 12 * time.Hour

// RedisQuestionCache 基於 Redis 的待答問題緩存
type RedisQuestionCache struct {
	client *redis.Client
}

func NewRedisQuestionCache(client *redis.Client) *RedisQuestionCache {
	return &RedisQuestionCache{client: client}
}

func pendingKey(userID string) string {
	return fmt.Sprintf("pending_question:%s", userID)
}

func (c *RedisQuestionCache) GetPending(ctx context.Context, userID string) (string, error) {
	question, err := c.client.Get(ctx, pendingKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return question, nil
}

func (c *RedisQuestionCache) SetPending(ctx context.Context, userID, question string) error {
	return c.client.Set(ctx, pendingKey(userID), question, pendingQuestionTTL).Err()
}
