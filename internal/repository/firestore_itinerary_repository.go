package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"Yatra-App/internal/domain/model"
	domainRepo "Yatra-App/internal/domain/repository"
)

const itineraryCollection = "itineraries"

// FirestoreItineraryRepository Firestoreを使用した保存済み旅程リポジトリ。
// ドキュメントIDはtrip.title（同タイトルは後勝ちで上書き）
type FirestoreItineraryRepository struct {
	client *firestore.Client
}

// NewFirestoreItineraryRepository 新しいFirestoreItineraryRepositoryインスタンスを作成
func NewFirestoreItineraryRepository(client *firestore.Client) domainRepo.ItineraryRepository {
	return &FirestoreItineraryRepository{
		client: client,
	}
}

// FirestoreItinerary Firestore保存用の構造体。旅程本体はJSON文字列のまま保持する
type FirestoreItinerary struct {
	Title    string    `firestore:"title"`
	PlanID   string    `firestore:"plan_id"`
	PlanJSON string    `firestore:"plan_json"`
	SavedAt  time.Time `firestore:"saved_at"`
}

// Save 旅程をFirestoreに保存する
func (r *FirestoreItineraryRepository) Save(ctx context.Context, itinerary *model.Itinerary) error {
	planJSON, err := itinerary.ToJSON()
	if err != nil {
		return fmt.Errorf("旅程のシリアライズに失敗: %w", err)
	}

	doc := &FirestoreItinerary{
		Title:    itinerary.Trip.Title,
		PlanID:   uuid.New().String(),
		PlanJSON: planJSON,
		SavedAt:  time.Now(),
	}

	docID := titleToDocID(itinerary.Trip.Title)
	_, err = r.client.Collection(itineraryCollection).Doc(docID).Set(ctx, doc)
	if err != nil {
		log.Printf("❌ Failed to save itinerary %s: %v", docID, err)
		return fmt.Errorf("旅程の保存に失敗しました: %w", err)
	}

	log.Printf("✅ Itinerary saved: %s (plan_id: %s)", itinerary.Trip.Title, doc.PlanID)
	return nil
}

// GetByTitle タイトルで旅程を取得する
func (r *FirestoreItineraryRepository) GetByTitle(ctx context.Context, title string) (*model.Itinerary, error) {
	doc, err := r.client.Collection(itineraryCollection).Doc(titleToDocID(title)).Get(ctx)
	if err != nil {
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, fmt.Errorf("%w: %s", model.ErrPlanNotFound, title)
		}
		return nil, fmt.Errorf("旅程の取得に失敗しました: %w", err)
	}

	var data FirestoreItinerary
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	itinerary, err := model.ItineraryFromJSON(data.PlanJSON)
	if err != nil {
		return nil, fmt.Errorf("旅程の復元に失敗しました: %w", err)
	}
	return itinerary, nil
}

// List 保存済みの全旅程を返す
func (r *FirestoreItineraryRepository) List(ctx context.Context) ([]*model.Itinerary, error) {
	iter := r.client.Collection(itineraryCollection).OrderBy("saved_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var itineraries []*model.Itinerary
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("旅程一覧の取得に失敗しました: %w", err)
		}

		var data FirestoreItinerary
		if err := doc.DataTo(&data); err != nil {
			return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
		}
		itinerary, err := model.ItineraryFromJSON(data.PlanJSON)
		if err != nil {
			return nil, fmt.Errorf("旅程の復元に失敗しました: %w", err)
		}
		itineraries = append(itineraries, itinerary)
	}
	return itineraries, nil
}

// Delete タイトルで旅程を削除する
func (r *FirestoreItineraryRepository) Delete(ctx context.Context, title string) error {
	_, err := r.client.Collection(itineraryCollection).Doc(titleToDocID(title)).Delete(ctx)
	if err != nil {
		return fmt.Errorf("旅程の削除に失敗しました: %w", err)
	}
	log.Printf("✅ Itinerary deleted: %s", title)
	return nil
}

// titleToDocID FirestoreのドキュメントIDに使えない文字を置き換える
func titleToDocID(title string) string {
	return strings.ReplaceAll(title, "/", "_")
}
