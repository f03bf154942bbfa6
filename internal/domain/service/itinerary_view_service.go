package service

import (
	"fmt"
	"strings"
	"time"

	"Yatra-App/internal/domain/model"
)

// 旅程から表示・エクスポート用の投影を計算する純粋関数群。
// 旅程を変更せず、オラクルも呼ばない。同じ入力に対して常に同じ出力を返す

// BudgetUtilization 予算消化率（totals.est / trip.budget）を返す。
// 1を超える値は予算超過を意味するデータであり、エラーではない
func BudgetUtilization(plan *model.Itinerary) float64 {
	if plan == nil || plan.Totals == nil || plan.Trip.Budget <= 0 {
		return 0
	}
	return plan.Totals.Est / plan.Trip.Budget
}

// ActiveRisks 旅程レベルのリスクを種別で絞り込む。
// kindsが空の場合は全件を返す
func ActiveRisks(plan *model.Itinerary, kinds []string) []model.RiskEntry {
	if plan == nil {
		return nil
	}
	if len(kinds) == 0 {
		return append([]model.RiskEntry{}, plan.Risks...)
	}

	wanted := make(map[string]bool, len(kinds))
	for _, kind := range kinds {
		wanted[strings.ToLower(strings.TrimSpace(kind))] = true
	}

	var filtered []model.RiskEntry
	for _, risk := range plan.Risks {
		if wanted[strings.ToLower(risk.Kind)] {
			filtered = append(filtered, risk)
		}
	}
	return filtered
}

// CalendarEvent カレンダー形式エクスポート用のイベント（セグメント1つにつき1件）
type CalendarEvent struct {
	Start    time.Time
	End      time.Time
	AllDay   bool
	Summary  string
	Location string
}

// CalendarEvents 全セグメントをカレンダーイベントに展開する。
// 時刻情報を持たないセグメントは終日イベントになる
func CalendarEvents(plan *model.Itinerary) []CalendarEvent {
	if plan == nil {
		return nil
	}

	var events []CalendarEvent
	for _, day := range plan.Days {
		date, err := time.Parse(model.DateLayout, day.Date)
		if err != nil {
			continue
		}
		for _, seg := range day.Segments {
			events = append(events, segmentToEvent(date, day.City, &seg))
		}
	}
	return events
}

func segmentToEvent(date time.Time, city string, seg *model.Segment) CalendarEvent {
	event := CalendarEvent{
		Summary:  seg.Name,
		Location: city,
	}
	if seg.Type == "transport" && seg.From != "" && seg.To != "" {
		event.Location = seg.From + " - " + seg.To
	}

	var startClock, endClock string
	if seg.Type == "transport" {
		startClock, endClock = seg.Dep, seg.Arr
	} else if len(seg.Window) == 2 {
		startClock, endClock = seg.Window[0], seg.Window[1]
	}

	start, startErr := combineClock(date, startClock)
	end, endErr := combineClock(date, endClock)
	if startErr != nil || endErr != nil {
		event.AllDay = true
		event.Start = date
		event.End = date.AddDate(0, 0, 1)
		return event
	}

	// 日付をまたぐ夜行便などは終了を翌日に繰り上げる
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	event.Start = start
	event.End = end
	return event
}

func combineClock(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse(model.ClockLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, time.UTC), nil
}

// DocumentRow ドキュメント形式エクスポートの1行（時刻・ラベル・費用）
type DocumentRow struct {
	Time  string   `json:"time"`
	Label string   `json:"label"`
	Cost  *float64 `json:"cost,omitempty"`
}

// DaySection ドキュメント形式の1日分のセクション
type DaySection struct {
	Date string        `json:"date"`
	City string        `json:"city"`
	Rows []DocumentRow `json:"rows"`
}

// DocumentOutline ドキュメント形式エクスポートの全体構成。
// 1日1セクションに続けて持ち物・チェックリストのセクションを持つ
type DocumentOutline struct {
	Title       string       `json:"title"`
	Budget      float64      `json:"budget"`
	Currency    string       `json:"currency"`
	EstTotal    float64      `json:"estTotal"`
	Sections    []DaySection `json:"sections"`
	PackingList []string     `json:"packingList"`
	Checklist   []string     `json:"checklist"`
}

// BuildDocumentOutline 旅程をドキュメント形式の行データに展開する
func BuildDocumentOutline(plan *model.Itinerary) *DocumentOutline {
	if plan == nil {
		return nil
	}

	outline := &DocumentOutline{
		Title:       plan.Trip.Title,
		Budget:      plan.Trip.Budget,
		Currency:    plan.Trip.Currency,
		PackingList: append([]string{}, plan.PackingList...),
		Checklist:   append([]string{}, plan.Checklist...),
	}
	if plan.Totals != nil {
		outline.EstTotal = plan.Totals.Est
	}

	for _, day := range plan.Days {
		section := DaySection{Date: day.Date, City: day.City}
		for _, seg := range day.Segments {
			section.Rows = append(section.Rows, DocumentRow{
				Time:  segmentTimeLabel(&seg),
				Label: segmentLabel(&seg),
				Cost:  seg.EstCost,
			})
		}
		outline.Sections = append(outline.Sections, section)
	}
	return outline
}

func segmentTimeLabel(seg *model.Segment) string {
	if seg.Type == "transport" && seg.Dep != "" {
		if seg.Arr != "" {
			return seg.Dep + " - " + seg.Arr
		}
		return seg.Dep
	}
	if len(seg.Window) == 2 {
		return seg.Window[0] + " - " + seg.Window[1]
	}
	return ""
}

func segmentLabel(seg *model.Segment) string {
	label := seg.Name
	if len(seg.Risk) > 0 {
		label += fmt.Sprintf(" (risks: %s)", strings.Join(seg.Risk, ", "))
	}
	return label
}
