package model

import "time"

// Party 旅行者の人数構成
type Party struct {
	Adults  int `json:"adults"`
	Kids    int `json:"kids"`
	Seniors int `json:"seniors"`
}

// Total 旅行者の合計人数を返す
func (p Party) Total() int {
	return p.Adults + p.Kids + p.Seniors
}

// TripRequest 旅程生成に必要な全ての条件を保持する
type TripRequest struct {
	NL          string   `json:"nl,omitempty"`    // オプション：自由記述（複数都市を含む場合がある）
	StartPoint  string   `json:"startPoint"`      // 必須：出発地点
	Destination string   `json:"destination"`     // 必須：主目的地（最終地点）
	Start       string   `json:"start"`           // 必須：開始日 YYYY-MM-DD
	End         string   `json:"end"`             // 必須：終了日 YYYY-MM-DD（開始日以降）
	BudgetINR   float64  `json:"budgetINR"`       // 必須：予算（INR）
	Party       Party    `json:"party"`           // 必須：人数構成（合計1人以上）
	Modes       []string `json:"modes"`           // 交通手段の希望（TransportModesの部分集合）
	Themes      []string `json:"themes"`          // テーマの希望（TripThemesの部分集合）
	Pace        string   `json:"pace"`            // 必須：relaxed / balanced / packed
	Anchors     []string `json:"anchors"`         // 必ず訪れたい場所の名前リスト
}

// StartDate 開始日をtime.Timeとして返す（バリデーション済み前提）
func (r *TripRequest) StartDate() (time.Time, error) {
	return time.Parse(DateLayout, r.Start)
}

// EndDate 終了日をtime.Timeとして返す（バリデーション済み前提）
func (r *TripRequest) EndDate() (time.Time, error) {
	return time.Parse(DateLayout, r.End)
}

// PartialTripRequest 自由記述からの抽出結果。全フィールドがオプションで、
// 抽出できなかった項目はnilのまま（ゼロ値で埋めない）
type PartialTripRequest struct {
	City      *string  `json:"city,omitempty"`
	Start     *string  `json:"start,omitempty"`
	End       *string  `json:"end,omitempty"`
	BudgetINR *float64 `json:"budgetINR,omitempty"`
	Party     *Party   `json:"party,omitempty"`
	Modes     []string `json:"modes,omitempty"`
	Themes    []string `json:"themes,omitempty"`
	Pace      *string  `json:"pace,omitempty"`
	Anchors   []string `json:"anchors,omitempty"`
}

// IsEmpty 抽出結果が1フィールドも持たないかを判定する
func (p *PartialTripRequest) IsEmpty() bool {
	return p.City == nil && p.Start == nil && p.End == nil && p.BudgetINR == nil &&
		p.Party == nil && len(p.Modes) == 0 && len(p.Themes) == 0 &&
		p.Pace == nil && len(p.Anchors) == 0
}

// MergeInto 抽出済みフィールドをベースのリクエストに上書きする。
// nilのフィールドはベースの値を維持する
func (p *PartialTripRequest) MergeInto(base *TripRequest) *TripRequest {
	merged := *base
	if p.City != nil {
		merged.Destination = *p.City
	}
	if p.Start != nil {
		merged.Start = *p.Start
	}
	if p.End != nil {
		merged.End = *p.End
	}
	if p.BudgetINR != nil {
		merged.BudgetINR = *p.BudgetINR
	}
	if p.Party != nil {
		merged.Party = *p.Party
	}
	if len(p.Modes) > 0 {
		merged.Modes = append([]string{}, p.Modes...)
	}
	if len(p.Themes) > 0 {
		merged.Themes = append([]string{}, p.Themes...)
	}
	if p.Pace != nil {
		merged.Pace = *p.Pace
	}
	if len(p.Anchors) > 0 {
		merged.Anchors = append([]string{}, p.Anchors...)
	}
	return &merged
}
