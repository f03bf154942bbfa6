package usecase

import (
	"context"

	"Yatra-App/internal/domain/model"
	"Yatra-App/internal/domain/repository"
	"Yatra-App/internal/domain/service"
)

// ItinerarySummary 予算消化率とリスクのサマリー
type ItinerarySummary struct {
	Title             string            `json:"title"`
	Budget            float64           `json:"budget"`
	EstTotal          float64           `json:"estTotal"`
	BudgetUtilization float64           `json:"budgetUtilization"` // 1超過は予算オーバー（エラーではない）
	Risks             []model.RiskEntry `json:"risks"`
}

// ItineraryExportUseCase 保存済み旅程のエクスポート投影を提供する。
// 投影は全て純粋で、旅程を変更しない
type ItineraryExportUseCase interface {
	// ExportJSON 旅程そのままのJSONシリアライズを返す
	ExportJSON(ctx context.Context, title string) (string, error)

	// ExportICS iCalendar形式のテキストを返す（セグメント1つにつき1イベント）
	ExportICS(ctx context.Context, title string) (string, error)

	// ExportDocument ドキュメント形式の行データを返す（1日1セクション）
	ExportDocument(ctx context.Context, title string) (*service.DocumentOutline, error)

	// Summary 予算消化率と種別で絞り込んだリスクを返す
	Summary(ctx context.Context, title string, riskKinds []string) (*ItinerarySummary, error)
}

type itineraryExportUseCaseImpl struct {
	repo repository.ItineraryRepository
}

// NewItineraryExportUseCase は新しいItineraryExportUseCaseインスタンスを作成
func NewItineraryExportUseCase(repo repository.ItineraryRepository) ItineraryExportUseCase {
	return &itineraryExportUseCaseImpl{
		repo: repo,
	}
}

func (u *itineraryExportUseCaseImpl) ExportJSON(ctx context.Context, title string) (string, error) {
	plan, err := u.repo.GetByTitle(ctx, title)
	if err != nil {
		return "", err
	}
	return plan.ToJSON()
}

func (u *itineraryExportUseCaseImpl) ExportICS(ctx context.Context, title string) (string, error) {
	plan, err := u.repo.GetByTitle(ctx, title)
	if err != nil {
		return "", err
	}
	return service.BuildICS(plan), nil
}

func (u *itineraryExportUseCaseImpl) ExportDocument(ctx context.Context, title string) (*service.DocumentOutline, error) {
	plan, err := u.repo.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	return service.BuildDocumentOutline(plan), nil
}

func (u *itineraryExportUseCaseImpl) Summary(ctx context.Context, title string, riskKinds []string) (*ItinerarySummary, error) {
	plan, err := u.repo.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	summary := &ItinerarySummary{
		Title:             plan.Trip.Title,
		Budget:            plan.Trip.Budget,
		BudgetUtilization: service.BudgetUtilization(plan),
		Risks:             service.ActiveRisks(plan, riskKinds),
	}
	if plan.Totals != nil {
		summary.EstTotal = plan.Totals.Est
	}
	return summary, nil
}
