package model

import (
	"encoding/json"
	"time"
)

// Itinerary 生成された旅程。GenerationまたはAdjustmentが丸ごと生成し、
// それ以外のコンポーネントからは読み取り専用として扱う
type Itinerary struct {
	Trip        TripInfo      `json:"trip"`
	Party       []PartyMember `json:"party,omitempty"`
	Days        []Day         `json:"days"`
	Totals      *Totals       `json:"totals"` // 必須（欠落はバリデーション失敗）
	Risks       []RiskEntry   `json:"risks,omitempty"`
	PackingList []string      `json:"packingList"`
	Checklist   []string      `json:"checklist"`
}

// TripInfo 旅程全体のメタ情報
type TripInfo struct {
	Title    string   `json:"title"`
	Cities   []string `json:"cities"` // 訪問する都市の順序付きリスト
	Start    string   `json:"start"`  // YYYY-MM-DD
	End      string   `json:"end"`    // YYYY-MM-DD
	Budget   float64  `json:"budget"`
	Currency string   `json:"currency"` // 現状"INR"固定
}

// PartyMember 旅行者1人の属性
type PartyMember struct {
	Age    int    `json:"age"`
	Gender string `json:"gender,omitempty"`
	Vibe   string `json:"vibe,omitempty"`
}

// Day 1日分の計画。日付は旅程の日付範囲と1対1で対応する
type Day struct {
	Date        string    `json:"date"`
	City        string    `json:"city"` // その日の活動の中心都市
	DayBudget   *float64  `json:"dayBudget,omitempty"`
	DaySpendEst *float64  `json:"daySpendEst,omitempty"`
	Segments    []Segment `json:"segments"`
}

// Segment 計画の最小単位（移動・アクティビティ・食事・自由時間）
type Segment struct {
	Type        string   `json:"type"`                  // transport / activity / meal / free
	Name        string   `json:"name"`                  // 必須
	Description string   `json:"description,omitempty"`
	PlaceID     string   `json:"placeId,omitempty"` // 外部地図システムの参照ID（安定キー）
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	Mode        string   `json:"mode,omitempty"` // transportの場合の交通手段
	From        string   `json:"from,omitempty"`
	To          string   `json:"to,omitempty"`
	FromPlaceID string   `json:"fromPlaceId,omitempty"`
	ToPlaceID   string   `json:"toPlaceId,omitempty"`
	Dep         string   `json:"dep,omitempty"`    // transportの出発時刻 HH:MM
	Arr         string   `json:"arr,omitempty"`    // transportの到着時刻 HH:MM
	Window      []string `json:"window,omitempty"` // transport以外の時間枠 [開始, 終了]
	OpenHours   string   `json:"openHours,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	EstCost     *float64 `json:"estCost,omitempty"`
	Risk        []string `json:"risk,omitempty"` // RiskTagsの部分集合
}

// Totals 旅程全体の費用見積もり
type Totals struct {
	Est       float64  `json:"est"`
	PerPerson *float64 `json:"perPerson,omitempty"`
}

// RiskEntry 旅程レベルのリスク情報（天候・安全など）
type RiskEntry struct {
	Kind     string `json:"kind"`
	Date     string `json:"date"`
	Severity string `json:"severity"`
	Note     string `json:"note"`
}

// TravelerCount 旅行者数を返す。party未設定の場合は1として扱う
func (it *Itinerary) TravelerCount() int {
	if len(it.Party) == 0 {
		return 1
	}
	return len(it.Party)
}

// ToJSON 旅程をそのままJSONシリアライズする（エクスポート境界のJSON形式）
func (it *Itinerary) ToJSON() (string, error) {
	data, err := json.Marshal(it)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ItineraryFromJSON JSON文字列から旅程を復元する。バリデーションは行わない
func ItineraryFromJSON(data string) (*Itinerary, error) {
	var it Itinerary
	if err := json.Unmarshal([]byte(data), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// InclusiveDayCount 開始日から終了日までの日数（両端を含む）を返す
func InclusiveDayCount(start, end string) (int, error) {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return 0, err
	}
	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return 0, err
	}
	return int(endDate.Sub(startDate).Hours()/24) + 1, nil
}
