package repository

import (
	"context"

	"Yatra-App/internal/domain/model"
)

// ItineraryRepository 保存済み旅程のストア。trip.titleをキーとし、
// 同じタイトルの保存は後勝ちで上書きされる
type ItineraryRepository interface {
	// Save 旅程を保存する。同タイトルの既存旅程は置き換えられる
	Save(ctx context.Context, itinerary *model.Itinerary) error

	// GetByTitle タイトルで旅程を取得する。存在しない場合はErrPlanNotFound
	GetByTitle(ctx context.Context, title string) (*model.Itinerary, error)

	// List 保存済みの全旅程を返す
	List(ctx context.Context) ([]*model.Itinerary, error)

	// Delete タイトルで旅程を削除する
	Delete(ctx context.Context, title string) error
}
