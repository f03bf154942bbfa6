package service

import (
	"log"

	"github.com/r3labs/diff/v3"

	"Yatra-App/internal/domain/model"
)

// 調整オラクルは「関係ないフィールドは維持する」よう指示されるが、それは
// プロンプトレベルの契約でしかない。ここでは調整前後の旅程を突き合わせ、
// 中核内容（日付・種別・名前）が変わっていないセグメントについて
// 場所参照（placeId・緯度経度）を機械的に元へ再設定する

// segmentKey 調整前後でセグメントを対応付けるキー
type segmentKey struct {
	Date string
	Type string
	Name string
}

// placeRefs 場所参照のみを切り出した比較用の構造体
type placeRefs struct {
	PlaceID     string
	Lat         *float64
	Lon         *float64
	FromPlaceID string
	ToPlaceID   string
}

func refsOf(seg *model.Segment) placeRefs {
	return placeRefs{
		PlaceID:     seg.PlaceID,
		Lat:         seg.Lat,
		Lon:         seg.Lon,
		FromPlaceID: seg.FromPlaceID,
		ToPlaceID:   seg.ToPlaceID,
	}
}

// PreservePlaceRefs 調整後の旅程に対して場所参照の保全パスを適用する。
// prevは変更せず、nextのセグメントを書き換えて返す。
// 移動を伴う変更（キーが一致しないセグメント）には手を付けない
func PreservePlaceRefs(prev, next *model.Itinerary) *model.Itinerary {
	if prev == nil || next == nil {
		return next
	}

	prevSegments := make(map[segmentKey]*model.Segment)
	for d := range prev.Days {
		day := &prev.Days[d]
		for s := range day.Segments {
			seg := &day.Segments[s]
			key := segmentKey{Date: day.Date, Type: seg.Type, Name: seg.Name}
			prevSegments[key] = seg
		}
	}

	restored := 0
	for d := range next.Days {
		day := &next.Days[d]
		for s := range day.Segments {
			seg := &day.Segments[s]
			prevSeg, ok := prevSegments[segmentKey{Date: day.Date, Type: seg.Type, Name: seg.Name}]
			if !ok {
				continue
			}
			if prevSeg.PlaceID == "" && prevSeg.Lat == nil && prevSeg.FromPlaceID == "" && prevSeg.ToPlaceID == "" {
				continue
			}

			changes, err := diff.Diff(refsOf(prevSeg), refsOf(seg))
			if err != nil || len(changes) == 0 {
				continue
			}

			// 中核内容は同一なのに参照がずれている → オラクルのドリフトとして復元する
			seg.PlaceID = prevSeg.PlaceID
			seg.Lat = prevSeg.Lat
			seg.Lon = prevSeg.Lon
			seg.FromPlaceID = prevSeg.FromPlaceID
			seg.ToPlaceID = prevSeg.ToPlaceID
			restored++
		}
	}

	if restored > 0 {
		log.Printf("🔧 場所参照を%d件のセグメントで復元", restored)
	}
	return next
}
