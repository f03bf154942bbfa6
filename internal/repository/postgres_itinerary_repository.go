package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"Yatra-App/internal/domain/model"
	domainRepo "Yatra-App/internal/domain/repository"
	"Yatra-App/internal/infrastructure/database"
)

// PostgresItineraryRepository PostgreSQLを使用した保存済み旅程リポジトリ。
// 旅程本体はJSONBカラムに保持し、座標付きセグメントは場所テーブルにも展開する
type PostgresItineraryRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresItineraryRepository 新しいPostgresItineraryRepositoryインスタンスを作成し、
// 必要なテーブルを用意する
func NewPostgresItineraryRepository(client *database.PostgreSQLClient) (domainRepo.ItineraryRepository, error) {
	repo := &PostgresItineraryRepository{client: client}
	if err := repo.ensureSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *PostgresItineraryRepository) ensureSchema() error {
	_, err := r.client.DB.Exec(`
		CREATE TABLE IF NOT EXISTS itineraries (
			title      TEXT PRIMARY KEY,
			plan_id    TEXT NOT NULL,
			plan_json  JSONB NOT NULL,
			saved_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("itinerariesテーブルの作成に失敗: %w", err)
	}

	_, err = r.client.DB.Exec(`
		CREATE TABLE IF NOT EXISTS itinerary_places (
			title     TEXT NOT NULL REFERENCES itineraries(title) ON DELETE CASCADE,
			name      TEXT NOT NULL,
			place_id  TEXT,
			geom      JSONB
		)`)
	if err != nil {
		return fmt.Errorf("itinerary_placesテーブルの作成に失敗: %w", err)
	}
	return nil
}

// Save 旅程を保存する。同タイトルは上書きし、場所テーブルも入れ替える
func (r *PostgresItineraryRepository) Save(ctx context.Context, itinerary *model.Itinerary) error {
	planJSON, err := itinerary.ToJSON()
	if err != nil {
		return fmt.Errorf("旅程のシリアライズに失敗: %w", err)
	}

	tx, err := r.client.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO itineraries (title, plan_id, plan_json, saved_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (title) DO UPDATE SET plan_id = $2, plan_json = $3, saved_at = now()`,
		itinerary.Trip.Title, uuid.New().String(), planJSON)
	if err != nil {
		return fmt.Errorf("旅程の保存に失敗しました: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM itinerary_places WHERE title = $1`, itinerary.Trip.Title); err != nil {
		return fmt.Errorf("場所データの入れ替えに失敗しました: %w", err)
	}

	for _, day := range itinerary.Days {
		for _, seg := range day.Segments {
			geoPoint := SegmentToGeoPoint(&seg)
			if geoPoint == nil && seg.PlaceID == "" {
				continue
			}

			var geomJSON interface{}
			if geoPoint != nil {
				data, err := json.Marshal(geoPoint)
				if err != nil {
					return fmt.Errorf("座標のシリアライズに失敗: %w", err)
				}
				geomJSON = string(data)
			}

			_, err = tx.ExecContext(ctx, `
				INSERT INTO itinerary_places (title, name, place_id, geom)
				VALUES ($1, $2, NULLIF($3, ''), $4)`,
				itinerary.Trip.Title, seg.Name, seg.PlaceID, geomJSON)
			if err != nil {
				return fmt.Errorf("場所データの保存に失敗しました: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗: %w", err)
	}

	log.Printf("✅ Itinerary saved to PostgreSQL: %s", itinerary.Trip.Title)
	return nil
}

// GetByTitle タイトルで旅程を取得する
func (r *PostgresItineraryRepository) GetByTitle(ctx context.Context, title string) (*model.Itinerary, error) {
	var planJSON string
	err := r.client.DB.QueryRowContext(ctx,
		`SELECT plan_json FROM itineraries WHERE title = $1`, title).Scan(&planJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", model.ErrPlanNotFound, title)
	}
	if err != nil {
		return nil, fmt.Errorf("旅程の取得に失敗しました: %w", err)
	}

	itinerary, err := model.ItineraryFromJSON(planJSON)
	if err != nil {
		return nil, fmt.Errorf("旅程の復元に失敗しました: %w", err)
	}
	return itinerary, nil
}

// List 保存済みの全旅程を返す
func (r *PostgresItineraryRepository) List(ctx context.Context) ([]*model.Itinerary, error) {
	rows, err := r.client.DB.QueryContext(ctx,
		`SELECT plan_json FROM itineraries ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("旅程一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var itineraries []*model.Itinerary
	for rows.Next() {
		var planJSON string
		if err := rows.Scan(&planJSON); err != nil {
			return nil, fmt.Errorf("旅程一覧の読み取りに失敗しました: %w", err)
		}
		itinerary, err := model.ItineraryFromJSON(planJSON)
		if err != nil {
			return nil, fmt.Errorf("旅程の復元に失敗しました: %w", err)
		}
		itineraries = append(itineraries, itinerary)
	}
	return itineraries, rows.Err()
}

// Delete タイトルで旅程を削除する（場所データはCASCADEで消える）
func (r *PostgresItineraryRepository) Delete(ctx context.Context, title string) error {
	_, err := r.client.DB.ExecContext(ctx, `DELETE FROM itineraries WHERE title = $1`, title)
	if err != nil {
		return fmt.Errorf("旅程の削除に失敗しました: %w", err)
	}
	log.Printf("✅ Itinerary deleted from PostgreSQL: %s", title)
	return nil
}
