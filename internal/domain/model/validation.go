package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ValidationError 入力バリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateRequest 旅程生成リクエストのバリデーションを行う。
// 副作用なし・決定的
func ValidateRequest(req *TripRequest) error {
	if req == nil {
		return &ValidationError{Field: "request", Message: "リクエストが指定されていません"}
	}
	if strings.TrimSpace(req.StartPoint) == "" {
		return &ValidationError{Field: "startPoint", Message: "出発地点は必須です"}
	}
	if strings.TrimSpace(req.Destination) == "" {
		return &ValidationError{Field: "destination", Message: "目的地は必須です"}
	}

	startDate, err := time.Parse(DateLayout, req.Start)
	if err != nil {
		return &ValidationError{Field: "start", Message: "開始日はYYYY-MM-DD形式で指定してください"}
	}
	endDate, err := time.Parse(DateLayout, req.End)
	if err != nil {
		return &ValidationError{Field: "end", Message: "終了日はYYYY-MM-DD形式で指定してください"}
	}
	if endDate.Before(startDate) {
		return &ValidationError{Field: "end", Message: "終了日は開始日以降の日付を指定してください"}
	}

	if req.BudgetINR <= 0 {
		return &ValidationError{Field: "budgetINR", Message: "予算は正の金額を指定してください"}
	}

	if req.Party.Adults < 0 || req.Party.Kids < 0 || req.Party.Seniors < 0 {
		return &ValidationError{Field: "party", Message: "人数は0以上を指定してください"}
	}
	if req.Party.Total() < 1 {
		return &ValidationError{Field: "party", Message: "旅行者は1人以上必要です"}
	}

	for _, mode := range req.Modes {
		if !IsValidTransportMode(mode) {
			return &ValidationError{Field: "modes", Message: fmt.Sprintf("'%s'は有効な交通手段ではありません", mode)}
		}
	}
	for _, theme := range req.Themes {
		if !IsValidTheme(theme) {
			return &ValidationError{Field: "themes", Message: fmt.Sprintf("'%s'は有効なテーマではありません", theme)}
		}
	}
	if !IsValidPace(req.Pace) {
		return &ValidationError{Field: "pace", Message: "paceは'relaxed'、'balanced'、'packed'のいずれかを指定してください"}
	}

	return nil
}

// ValidatePlan 旅程の構造バリデーションを行う。形状・列挙値・必須フィールドのみを
// 検査し、費用の妥当性など意味的な検証は行わない（totalsの整合チェックを除く）。
// 列挙外の値は黙って落とさずエラーにする
func ValidatePlan(plan *Itinerary) error {
	if plan == nil {
		return &ValidationError{Field: "plan", Message: "旅程が指定されていません"}
	}
	if strings.TrimSpace(plan.Trip.Title) == "" {
		return &ValidationError{Field: "trip.title", Message: "タイトルは必須です"}
	}
	if len(plan.Trip.Cities) == 0 {
		return &ValidationError{Field: "trip.cities", Message: "訪問都市を1つ以上指定してください"}
	}
	if plan.Trip.Currency != DefaultCurrency {
		return &ValidationError{Field: "trip.currency", Message: fmt.Sprintf("通貨は'%s'のみサポートしています", DefaultCurrency)}
	}
	if plan.Trip.Budget <= 0 {
		return &ValidationError{Field: "trip.budget", Message: "予算は正の金額を指定してください"}
	}

	startDate, err := time.Parse(DateLayout, plan.Trip.Start)
	if err != nil {
		return &ValidationError{Field: "trip.start", Message: "開始日はYYYY-MM-DD形式で指定してください"}
	}
	endDate, err := time.Parse(DateLayout, plan.Trip.End)
	if err != nil {
		return &ValidationError{Field: "trip.end", Message: "終了日はYYYY-MM-DD形式で指定してください"}
	}
	if endDate.Before(startDate) {
		return &ValidationError{Field: "trip.end", Message: "終了日は開始日以降の日付を指定してください"}
	}

	// daysの長さは日付範囲の日数（両端を含む）と一致し、各日が該当日付を持つ
	expectedDays := int(endDate.Sub(startDate).Hours()/24) + 1
	if len(plan.Days) != expectedDays {
		return &ValidationError{
			Field:   "days",
			Message: fmt.Sprintf("日数が日付範囲と一致しません（期待: %d日, 実際: %d日）", expectedDays, len(plan.Days)),
		}
	}
	for i, day := range plan.Days {
		expectedDate := startDate.AddDate(0, 0, i).Format(DateLayout)
		if day.Date != expectedDate {
			return &ValidationError{
				Field:   fmt.Sprintf("days[%d].date", i),
				Message: fmt.Sprintf("日付が範囲と一致しません（期待: %s, 実際: %s）", expectedDate, day.Date),
			}
		}
		if strings.TrimSpace(day.City) == "" {
			return &ValidationError{Field: fmt.Sprintf("days[%d].city", i), Message: "その日の中心都市は必須です"}
		}
		for j, seg := range day.Segments {
			if err := validateSegment(i, j, &seg); err != nil {
				return err
			}
		}
	}

	if plan.Totals == nil {
		return &ValidationError{Field: "totals", Message: "合計費用は必須です"}
	}
	if plan.Totals.Est < 0 {
		return &ValidationError{Field: "totals.est", Message: "合計費用は0以上を指定してください"}
	}
	if plan.Totals.PerPerson != nil {
		travelers := plan.TravelerCount()
		expected := plan.Totals.Est / float64(travelers)
		// オラクル出力の丸めを考慮して1INR/人まで許容する
		if math.Abs(*plan.Totals.PerPerson-expected) > 1.0 {
			return &ValidationError{
				Field:   "totals.perPerson",
				Message: fmt.Sprintf("1人あたり費用が合計と一致しません（期待: %.2f, 実際: %.2f）", expected, *plan.Totals.PerPerson),
			}
		}
	}

	for i, risk := range plan.Risks {
		if strings.TrimSpace(risk.Kind) == "" {
			return &ValidationError{Field: fmt.Sprintf("risks[%d].kind", i), Message: "リスク種別は必須です"}
		}
	}

	if len(plan.PackingList) == 0 {
		return &ValidationError{Field: "packingList", Message: "持ち物リストは必須です"}
	}
	if len(plan.Checklist) == 0 {
		return &ValidationError{Field: "checklist", Message: "チェックリストは必須です"}
	}

	return nil
}

func validateSegment(dayIndex, segIndex int, seg *Segment) error {
	field := func(name string) string {
		return fmt.Sprintf("days[%d].segments[%d].%s", dayIndex, segIndex, name)
	}

	if strings.TrimSpace(seg.Name) == "" {
		return &ValidationError{Field: field("name"), Message: "セグメント名は必須です"}
	}
	if !IsValidSegmentType(seg.Type) {
		return &ValidationError{Field: field("type"), Message: fmt.Sprintf("'%s'は有効なセグメント種別ではありません", seg.Type)}
	}
	if seg.Window != nil && len(seg.Window) != 2 {
		return &ValidationError{Field: field("window"), Message: "時間枠は[開始, 終了]の2要素で指定してください"}
	}
	for _, tag := range seg.Risk {
		if !IsValidRiskTag(tag) {
			return &ValidationError{Field: field("risk"), Message: fmt.Sprintf("'%s'は有効なリスクタグではありません", tag)}
		}
	}
	return nil
}
