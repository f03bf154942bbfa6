package model

import "errors"

// オラクル境界の失敗種別。生成・調整はall-or-nothingで、
// 失敗時に部分的な旅程が返ることはない
var (
	// ErrExtractionFailed 自由記述からの抽出に失敗（致命的ではなく手入力にフォールバック）
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrGenerationFailed オラクルがスキーマに適合する旅程を返さなかった
	ErrGenerationFailed = errors.New("generation failed")

	// ErrAdjustmentFailed 調整結果がスキーマに適合せず、既存の旅程は変更されない
	ErrAdjustmentFailed = errors.New("adjustment failed")

	// ErrMutationInFlight 同一プランに対する変更が既に実行中
	ErrMutationInFlight = errors.New("mutation already in flight")

	// ErrPlanNotFound 対象の旅程が存在しない
	ErrPlanNotFound = errors.New("plan not found")
)
