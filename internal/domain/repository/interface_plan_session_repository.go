package repository

import (
	"context"
	"time"

	"Yatra-App/internal/domain/model"
)

// PlanSessionRepository セッションごとの「現在の旅程」を保持する状態コンテナ。
// UI側のグローバル状態の代わりに、生成・調整の呼び出しへ明示的に渡される。
// 1プランにつき同時に実行できる変更は1つまで（ロックで強制する）
type PlanSessionRepository interface {
	// SetCurrent セッションの現在の旅程を置き換える
	SetCurrent(ctx context.Context, sessionID string, itinerary *model.Itinerary) error

	// GetCurrent セッションの現在の旅程を取得する。存在しない場合はErrPlanNotFound
	GetCurrent(ctx context.Context, sessionID string) (*model.Itinerary, error)

	// Clear セッションの現在の旅程を破棄する
	Clear(ctx context.Context, sessionID string) error

	// AcquireMutationLock 変更ロックの取得を試みる。既に保持されている場合はfalse
	AcquireMutationLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)

	// ReleaseMutationLock 変更ロックを解放する
	ReleaseMutationLock(ctx context.Context, sessionID string) error
}
