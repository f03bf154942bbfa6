package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"Yatra-App/internal/domain/model"
	"Yatra-App/internal/domain/repository"
	"Yatra-App/internal/domain/service"
)

// mutationLockTTL 調整呼び出し中にロックを保持する時間。
// 呼び出しを放棄したクライアントがいてもこの時間で必ず解放される
const mutationLockTTL = 2 * time.Minute

// ItineraryUseCase 旅程の抽出・生成・調整を提供する
type ItineraryUseCase interface {
	// Extract 自由記述から部分リクエストを抽出する（失敗は致命的ではない）
	Extract(ctx context.Context, nl string) (*model.PartialTripRequest, error)

	// Generate リクエストから旅程を生成し、セッションの現在プランとして保持する
	Generate(ctx context.Context, sessionID string, req *model.TripRequest) (*model.Itinerary, error)

	// Adjust セッションの現在プランを変更要望に従って置き換える。
	// 失敗した場合は現在プランを一切変更しない
	Adjust(ctx context.Context, sessionID string, modificationPrompt string) (*model.Itinerary, error)

	// GetCurrent セッションの現在プランを取得する
	GetCurrent(ctx context.Context, sessionID string) (*model.Itinerary, error)

	// ClearCurrent セッションの現在プランを破棄する
	ClearCurrent(ctx context.Context, sessionID string) error
}

// itineraryUseCaseImpl はItineraryUseCaseの実装
type itineraryUseCaseImpl struct {
	oracle   repository.ItineraryGenerationRepository
	sessions repository.PlanSessionRepository
}

// NewItineraryUseCase は新しいItineraryUseCaseインスタンスを作成
func NewItineraryUseCase(
	oracle repository.ItineraryGenerationRepository,
	sessions repository.PlanSessionRepository,
) ItineraryUseCase {
	return &itineraryUseCaseImpl{
		oracle:   oracle,
		sessions: sessions,
	}
}

// Extract は自由記述から部分リクエストを抽出する
func (u *itineraryUseCaseImpl) Extract(ctx context.Context, nl string) (*model.PartialTripRequest, error) {
	if utf8.RuneCountInString(strings.TrimSpace(nl)) < 10 {
		return nil, &model.ValidationError{Field: "nl", Message: "自由記述は10文字以上で入力してください"}
	}

	partial, err := u.oracle.ExtractTripDetails(ctx, nl, time.Now())
	if err != nil {
		return nil, err
	}
	if partial.IsEmpty() {
		return nil, fmt.Errorf("%w: 自由記述から旅行条件を1つも抽出できませんでした", model.ErrExtractionFailed)
	}
	return partial, nil
}

// Generate はリクエストから旅程を生成する。all-or-nothingで、
// 失敗時に部分的な旅程は返らない（リトライは呼び出し側の責任）
func (u *itineraryUseCaseImpl) Generate(ctx context.Context, sessionID string, req *model.TripRequest) (*model.Itinerary, error) {
	if err := model.ValidateRequest(req); err != nil {
		return nil, err
	}

	log.Printf("🚀 旅程生成開始 (session: %s)", sessionID)

	plan, err := u.oracle.GenerateItinerary(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := u.sessions.SetCurrent(ctx, sessionID, plan); err != nil {
		return nil, fmt.Errorf("生成した旅程の保持に失敗: %w", err)
	}
	return plan, nil
}

// Adjust はセッションの現在プランを変更要望に従って置き換える。
// 新しい有効なプランが古いプランを置き換えるか、何も変わらないかのどちらか
func (u *itineraryUseCaseImpl) Adjust(ctx context.Context, sessionID string, modificationPrompt string) (*model.Itinerary, error) {
	if strings.TrimSpace(modificationPrompt) == "" {
		return nil, &model.ValidationError{Field: "modification_prompt", Message: "変更要望を入力してください"}
	}

	// 1プランにつき同時に実行できる変更は1つまで。
	// 現在プランの読み取りもロック内で行う。ロックの外で読むと、
	// 先に完了した別の調整結果を古い読み取りベースの結果で上書きしてしまう
	acquired, err := u.sessions.AcquireMutationLock(ctx, sessionID, mutationLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, fmt.Errorf("%w: session %s", model.ErrMutationInFlight, sessionID)
	}
	defer func() {
		if err := u.sessions.ReleaseMutationLock(ctx, sessionID); err != nil {
			log.Printf("⚠️ 変更ロックの解放に失敗: %v", err)
		}
	}()

	current, err := u.sessions.GetCurrent(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	currentJSON, err := current.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("現在の旅程のシリアライズに失敗: %w", err)
	}

	adjusted, err := u.oracle.AdjustItinerary(ctx, currentJSON, modificationPrompt)
	if err != nil {
		return nil, err
	}

	// プロンプト契約だけに頼らず、中核内容が変わっていない
	// セグメントの場所参照を機械的に復元する
	adjusted = service.PreservePlaceRefs(current, adjusted)

	if err := u.sessions.SetCurrent(ctx, sessionID, adjusted); err != nil {
		return nil, fmt.Errorf("調整した旅程の保持に失敗: %w", err)
	}
	return adjusted, nil
}

// GetCurrent はセッションの現在プランを取得する
func (u *itineraryUseCaseImpl) GetCurrent(ctx context.Context, sessionID string) (*model.Itinerary, error) {
	return u.sessions.GetCurrent(ctx, sessionID)
}

// ClearCurrent はセッションの現在プランを破棄する
func (u *itineraryUseCaseImpl) ClearCurrent(ctx context.Context, sessionID string) error {
	return u.sessions.Clear(ctx, sessionID)
}
