package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hexaboard_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const chatHistoryTTL = 5 * time.Minute

type ChatRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewChatRepository(db *gorm.DB, rdb *redis.Client) *ChatRepository {
	return &ChatRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *ChatRepository) historyKey(fresherID string, limit int) string {
	return fmt.Sprintf("chat:history:%s:%d", fresherID, limit)
}

func (r *ChatRepository) Save(msg *model.ChatMessage) error {
	if err := r.DB.Create(msg).Error; err != nil {
		return err
	}
	if r.Redis != nil {
		// Drop any cached history for this fresher; the next read repopulates.
		iter := r.Redis.Scan(r.ctx, 0, fmt.Sprintf("chat:history:%s:*", msg.FresherID), 0).Iterator()
		for iter.Next(r.ctx) {
			r.Redis.Del(r.ctx, iter.Val())
		}
	}
	return nil
}

// History returns the last limit messages in chronological order.
func (r *ChatRepository) History(fresherID string, limit int) ([]model.ChatMessage, error) {
	if r.Redis != nil {
		if cached, err := r.Redis.Get(r.ctx, r.historyKey(fresherID, limit)).Result(); err == nil {
			var msgs []model.ChatMessage
			if json.Unmarshal([]byte(cached), &msgs) == nil {
				return msgs, nil
			}
		}
	}

	var msgs []model.ChatMessage
	err := r.DB.Where("fresher_id = ?", fresherID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	if r.Redis != nil {
		if data, err := json.Marshal(msgs); err == nil {
			r.Redis.Set(r.ctx, r.historyKey(fresherID, limit), data, chatHistoryTTL)
		}
	}

	return msgs, nil
}
