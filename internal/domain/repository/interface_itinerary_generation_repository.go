package repository

import (
	"context"
	"time"

	"Yatra-App/internal/domain/model"
)

// ItineraryGenerationRepository 外部の自然言語生成オラクルとの境界。
// 実装は1回の呼び出しにつき必ず1回だけオラクルを起動し、状態を持たない。
// オラクルの出力は信頼せず、スキーマバリデーションを通過したものだけを返す
type ItineraryGenerationRepository interface {
	// GenerateItinerary バリデーション済みリクエストから完全な旅程を生成する。
	// スキーマに適合しない出力はErrGenerationFailedとして失敗する（部分結果なし）
	GenerateItinerary(ctx context.Context, req *model.TripRequest) (*model.Itinerary, error)

	// AdjustItinerary 現在の旅程（シリアライズ形式）と自由記述の変更要望から
	// 完全な置き換え旅程を生成する。失敗時はErrAdjustmentFailed
	AdjustItinerary(ctx context.Context, currentPlanJSON string, modificationPrompt string) (*model.Itinerary, error)

	// ExtractTripDetails 自由記述から部分リクエストをベストエフォートで抽出する。
	// todayを基準に相対日付（「来週末」など）を絶対日付に解決する。
	// 失敗時はErrExtractionFailed（呼び出し側は手入力にフォールバックする）
	ExtractTripDetails(ctx context.Context, nl string, today time.Time) (*model.PartialTripRequest, error)
}
