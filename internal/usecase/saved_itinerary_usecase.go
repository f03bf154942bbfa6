package usecase

import (
	"context"

	"Yatra-App/internal/domain/model"
	"Yatra-App/internal/domain/repository"
)

// SavedItineraryUseCase 保存済み旅程（ダッシュボード）の操作を提供する。
// キーはtrip.titleで、同タイトルの保存は後勝ちで上書きされる
type SavedItineraryUseCase interface {
	Save(ctx context.Context, itinerary *model.Itinerary) error
	Get(ctx context.Context, title string) (*model.Itinerary, error)
	List(ctx context.Context) ([]*model.Itinerary, error)
	Delete(ctx context.Context, title string) error
}

type savedItineraryUseCaseImpl struct {
	repo repository.ItineraryRepository
}

// NewSavedItineraryUseCase は新しいSavedItineraryUseCaseインスタンスを作成
func NewSavedItineraryUseCase(repo repository.ItineraryRepository) SavedItineraryUseCase {
	return &savedItineraryUseCaseImpl{
		repo: repo,
	}
}

// Save バリデーションを通過した旅程だけを保存する
func (u *savedItineraryUseCaseImpl) Save(ctx context.Context, itinerary *model.Itinerary) error {
	if err := model.ValidatePlan(itinerary); err != nil {
		return err
	}
	return u.repo.Save(ctx, itinerary)
}

func (u *savedItineraryUseCaseImpl) Get(ctx context.Context, title string) (*model.Itinerary, error) {
	if title == "" {
		return nil, &model.ValidationError{Field: "title", Message: "タイトルは必須です"}
	}
	return u.repo.GetByTitle(ctx, title)
}

func (u *savedItineraryUseCaseImpl) List(ctx context.Context) ([]*model.Itinerary, error) {
	return u.repo.List(ctx)
}

func (u *savedItineraryUseCaseImpl) Delete(ctx context.Context, title string) error {
	if title == "" {
		return &model.ValidationError{Field: "title", Message: "タイトルは必須です"}
	}
	return u.repo.Delete(ctx, title)
}
