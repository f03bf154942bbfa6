package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"Yatra-App/internal/domain/model"
	domainRepo "Yatra-App/internal/domain/repository"
)

const (
	sessionPlanPrefix = "session:plan:"
	sessionLockPrefix = "session:plan:lock:"

	// SessionPlanTTL セッションの現在プランの保持期間
	SessionPlanTTL = 24 * time.Hour
)

// RedisPlanSessionRepository Redisを使用したセッション状態コンテナ。
// セッションごとの「現在の旅程」と変更ロックを保持する
type RedisPlanSessionRepository struct {
	client *redis.Client
}

// NewRedisPlanSessionRepository 新しいRedisPlanSessionRepositoryインスタンスを作成
func NewRedisPlanSessionRepository(client *redis.Client) domainRepo.PlanSessionRepository {
	return &RedisPlanSessionRepository{
		client: client,
	}
}

// SetCurrent セッションの現在の旅程を置き換える
func (r *RedisPlanSessionRepository) SetCurrent(ctx context.Context, sessionID string, itinerary *model.Itinerary) error {
	planJSON, err := itinerary.ToJSON()
	if err != nil {
		return fmt.Errorf("旅程のシリアライズに失敗: %w", err)
	}

	key := sessionPlanPrefix + sessionID
	if err := r.client.Set(ctx, key, planJSON, SessionPlanTTL).Err(); err != nil {
		return fmt.Errorf("セッションの旅程の保存に失敗: %w", err)
	}
	return nil
}

// GetCurrent セッションの現在の旅程を取得する
func (r *RedisPlanSessionRepository) GetCurrent(ctx context.Context, sessionID string) (*model.Itinerary, error) {
	key := sessionPlanPrefix + sessionID
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: session %s", model.ErrPlanNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("セッションの旅程の取得に失敗: %w", err)
	}

	itinerary, err := model.ItineraryFromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("旅程の復元に失敗: %w", err)
	}
	return itinerary, nil
}

// Clear セッションの現在の旅程を破棄する
func (r *RedisPlanSessionRepository) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionPlanPrefix+sessionID).Err()
}

// AcquireMutationLock 変更ロックの取得を試みる（SETNX）。
// trueが返った場合のみロックを保持している
func (r *RedisPlanSessionRepository) AcquireMutationLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	key := sessionLockPrefix + sessionID

	ok, err := r.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("変更ロックの取得に失敗: %w", err)
	}
	return ok, nil
}

// ReleaseMutationLock 変更ロックを解放する
func (r *RedisPlanSessionRepository) ReleaseMutationLock(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionLockPrefix+sessionID).Err()
}
