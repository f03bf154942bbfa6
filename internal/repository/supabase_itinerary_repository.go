package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"Yatra-App/internal/database"
	"Yatra-App/internal/domain/model"
	domainRepo "Yatra-App/internal/domain/repository"
)

// SupabaseItineraryRepository Supabase（PostgREST）経由の保存済み旅程リポジトリ
type SupabaseItineraryRepository struct {
	client *database.SupabaseClient
}

// NewSupabaseItineraryRepository 新しいSupabaseItineraryRepositoryインスタンスを作成
func NewSupabaseItineraryRepository(client *database.SupabaseClient) domainRepo.ItineraryRepository {
	return &SupabaseItineraryRepository{
		client: client,
	}
}

// itineraryRow itinerariesテーブルの1行
type itineraryRow struct {
	Title    string    `json:"title"`
	PlanID   string    `json:"plan_id"`
	PlanJSON string    `json:"plan_json"`
	SavedAt  time.Time `json:"saved_at"`
}

// Save 旅程を保存する（同タイトルはupsertで上書き）
func (r *SupabaseItineraryRepository) Save(ctx context.Context, itinerary *model.Itinerary) error {
	planJSON, err := itinerary.ToJSON()
	if err != nil {
		return fmt.Errorf("旅程のシリアライズに失敗: %w", err)
	}

	row := itineraryRow{
		Title:    itinerary.Trip.Title,
		PlanID:   uuid.New().String(),
		PlanJSON: planJSON,
		SavedAt:  time.Now(),
	}

	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("旅程データのJSONマーシャル失敗: %w", err)
	}

	_, _, err = r.client.GetClient().From("itineraries").Insert(string(data), true, "title", "", "").Execute()
	if err != nil {
		return fmt.Errorf("旅程の保存に失敗しました: %w", err)
	}

	log.Printf("✅ Itinerary saved to Supabase: %s", itinerary.Trip.Title)
	return nil
}

// GetByTitle タイトルで旅程を取得する
func (r *SupabaseItineraryRepository) GetByTitle(ctx context.Context, title string) (*model.Itinerary, error) {
	data, _, err := r.client.GetClient().From("itineraries").
		Select("*", "exact", false).Eq("title", title).Execute()
	if err != nil {
		return nil, fmt.Errorf("旅程の取得に失敗しました: %w", err)
	}

	var rows []itineraryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("旅程データのJSONアンマーシャル失敗: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrPlanNotFound, title)
	}

	itinerary, err := model.ItineraryFromJSON(rows[0].PlanJSON)
	if err != nil {
		return nil, fmt.Errorf("旅程の復元に失敗しました: %w", err)
	}
	return itinerary, nil
}

// List 保存済みの全旅程を返す
func (r *SupabaseItineraryRepository) List(ctx context.Context) ([]*model.Itinerary, error) {
	data, _, err := r.client.GetClient().From("itineraries").
		Select("*", "exact", false).Order("saved_at", nil).Execute()
	if err != nil {
		return nil, fmt.Errorf("旅程一覧の取得に失敗しました: %w", err)
	}

	var rows []itineraryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("旅程データのJSONアンマーシャル失敗: %w", err)
	}

	var itineraries []*model.Itinerary
	for _, row := range rows {
		itinerary, err := model.ItineraryFromJSON(row.PlanJSON)
		if err != nil {
			return nil, fmt.Errorf("旅程の復元に失敗しました: %w", err)
		}
		itineraries = append(itineraries, itinerary)
	}
	return itineraries, nil
}

// Delete タイトルで旅程を削除する
func (r *SupabaseItineraryRepository) Delete(ctx context.Context, title string) error {
	_, _, err := r.client.GetClient().From("itineraries").
		Delete("", "").Eq("title", title).Execute()
	if err != nil {
		return fmt.Errorf("旅程の削除に失敗しました: %w", err)
	}
	log.Printf("✅ Itinerary deleted from Supabase: %s", title)
	return nil
}
