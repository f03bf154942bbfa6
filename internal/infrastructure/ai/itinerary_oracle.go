package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"Yatra-App/internal/domain/model"
	"Yatra-App/internal/domain/repository"
)

// geminiItineraryOracle はGemini APIを使用してItineraryGenerationRepositoryを実装。
// 1回の呼び出しにつきオラクル起動は1回だけで、呼び出し間で状態を共有しない
type geminiItineraryOracle struct {
	client *GeminiClient
}

// NewGeminiItineraryOracle は新しいgeminiItineraryOracleインスタンスを作成
func NewGeminiItineraryOracle(client *GeminiClient) repository.ItineraryGenerationRepository {
	return &geminiItineraryOracle{
		client: client,
	}
}

// GenerateItinerary はバリデーション済みリクエストから完全な旅程を生成する
func (g *geminiItineraryOracle) GenerateItinerary(ctx context.Context, req *model.TripRequest) (*model.Itinerary, error) {
	prompt := g.buildGenerationPrompt(req)

	log.Printf("🤖 Gemini APIで旅程を生成中... (%s → %s, %s〜%s)", req.StartPoint, req.Destination, req.Start, req.End)

	raw, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: Gemini API呼び出しエラー: %v", model.ErrGenerationFailed, err)
	}

	plan, err := g.decodePlan(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	log.Printf("✅ 旅程生成完了: 「%s」(%d日間)", plan.Trip.Title, len(plan.Days))
	return plan, nil
}

// AdjustItinerary は既存の旅程と変更要望から完全な置き換え旅程を生成する
func (g *geminiItineraryOracle) AdjustItinerary(ctx context.Context, currentPlanJSON string, modificationPrompt string) (*model.Itinerary, error) {
	prompt := g.buildAdjustmentPrompt(currentPlanJSON, modificationPrompt)

	log.Printf("🤖 Gemini APIで旅程を調整中... (要望: %.40s)", modificationPrompt)

	raw, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: Gemini API呼び出しエラー: %v", model.ErrAdjustmentFailed, err)
	}

	plan, err := g.decodePlan(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrAdjustmentFailed, err)
	}

	log.Printf("✅ 旅程調整完了: 「%s」", plan.Trip.Title)
	return plan, nil
}

// ExtractTripDetails は自由記述から部分リクエストをベストエフォートで抽出する
func (g *geminiItineraryOracle) ExtractTripDetails(ctx context.Context, nl string, today time.Time) (*model.PartialTripRequest, error) {
	prompt := g.buildExtractionPrompt(nl, today)

	log.Printf("🤖 Gemini APIで旅行条件を抽出中...")

	raw, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: Gemini API呼び出しエラー: %v", model.ErrExtractionFailed, err)
	}

	var partial model.PartialTripRequest
	if err := json.Unmarshal(raw, &partial); err != nil {
		return nil, fmt.Errorf("%w: 抽出結果のパースに失敗: %v", model.ErrExtractionFailed, err)
	}
	if err := validatePartial(&partial); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrExtractionFailed, err)
	}

	log.Printf("✅ 旅行条件の抽出完了")
	return &partial, nil
}

// decodePlan はオラクルの生出力を旅程として復元し、スキーマバリデーションを通す。
// どちらかに失敗した場合は部分的な結果を返さない
func (g *geminiItineraryOracle) decodePlan(raw []byte) (*model.Itinerary, error) {
	var plan model.Itinerary
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("旅程のパースに失敗: %v", err)
	}
	if err := model.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("旅程のバリデーションに失敗: %v", err)
	}
	return &plan, nil
}

// validatePartial は抽出結果が部分リクエストの形状に適合しているかを検査する。
// 列挙外の値は黙って捨てずに失敗として扱う
func validatePartial(partial *model.PartialTripRequest) error {
	if partial.Start != nil {
		if _, err := time.Parse(model.DateLayout, *partial.Start); err != nil {
			return fmt.Errorf("開始日がYYYY-MM-DD形式ではありません: %s", *partial.Start)
		}
	}
	if partial.End != nil {
		if _, err := time.Parse(model.DateLayout, *partial.End); err != nil {
			return fmt.Errorf("終了日がYYYY-MM-DD形式ではありません: %s", *partial.End)
		}
	}
	if partial.Party != nil {
		if partial.Party.Adults < 0 || partial.Party.Kids < 0 || partial.Party.Seniors < 0 {
			return fmt.Errorf("人数に負の値が含まれています")
		}
	}
	for _, mode := range partial.Modes {
		if !model.IsValidTransportMode(mode) {
			return fmt.Errorf("'%s'は有効な交通手段ではありません", mode)
		}
	}
	for _, theme := range partial.Themes {
		if !model.IsValidTheme(theme) {
			return fmt.Errorf("'%s'は有効なテーマではありません", theme)
		}
	}
	if partial.Pace != nil && !model.IsValidPace(*partial.Pace) {
		return fmt.Errorf("'%s'は有効なペース設定ではありません", *partial.Pace)
	}
	return nil
}

// itinerarySchemaDescription は出力スキーマの説明。生成・調整の両プロンプトで共有する
const itinerarySchemaDescription = `{
  "trip": {"title": string, "cities": [string, ...], "start": "YYYY-MM-DD", "end": "YYYY-MM-DD", "budget": number, "currency": "INR"},
  "party": [{"age": number, "gender": string?, "vibe": string?}, ...]?,
  "days": [
    {
      "date": "YYYY-MM-DD", "city": string, "dayBudget": number?, "daySpendEst": number?,
      "segments": [
        {
          "type": "transport"|"activity"|"meal"|"free",
          "name": string (required, human readable),
          "description": string?, "placeId": string?, "lat": number?, "lon": number?,
          "mode": string?, "from": string?, "to": string?, "fromPlaceId": string?, "toPlaceId": string?,
          "dep": "HH:MM"?, "arr": "HH:MM"?, "window": ["HH:MM", "HH:MM"]?,
          "openHours": string?, "rating": number?, "estCost": number?,
          "risk": [subset of "rain"|"heat"|"crowd"|"late-night"|"closure"]?
        }, ...
      ]
    }, ...
  ],
  "totals": {"est": number, "perPerson": number?},
  "risks": [{"kind": string, "date": "YYYY-MM-DD", "severity": string, "note": string}, ...]?,
  "packingList": [string, ...],
  "checklist": [string, ...]
}`

// buildGenerationPrompt は旅程生成用プロンプトを構築
func (g *geminiItineraryOracle) buildGenerationPrompt(req *model.TripRequest) string {
	return fmt.Sprintf(`You are an Indian trip-planning assistant. Your output MUST be a single JSON object that strictly adheres to the following schema. Do not include any extra text, commentary, or markdown formatting.

Schema:
%s

The user's request may involve multiple cities or destinations. Create a logical itinerary that may span across different locations day-by-day.
You must respect all constraints from the user's request: dates, INR budget, party composition, transport modes, travel themes, pace, and must-visit anchors.

Rules:
- Include exactly one entry in "days" for every calendar date from start to end inclusive, and tag each day with the city for that day's plan.
- Every segment must have a non-empty "name". For transport use names like "Train from Mumbai to Goa".
- Ensure durations, opening hours, ratings (if known), and inter-city travel legs are realistic.
- Assign "risk" tags for each segment where applicable, choosing only from: rain, heat, crowd, late-night, closure.
- Include a practical non-empty "packingList" and a pre-travel non-empty "checklist".

User Request:
Start Point: %s
Destination: %s
Natural Language Prompt: %s
Dates: %s to %s
Budget: %.0f INR
Party: Adults: %d, Kids: %d, Seniors: %d
Transport Modes: %s
Themes: %s
Pace: %s
Must-visit Anchors: %s`,
		itinerarySchemaDescription,
		req.StartPoint,
		req.Destination,
		req.NL,
		req.Start,
		req.End,
		req.BudgetINR,
		req.Party.Adults,
		req.Party.Kids,
		req.Party.Seniors,
		strings.Join(req.Modes, ", "),
		strings.Join(req.Themes, ", "),
		req.Pace,
		strings.Join(req.Anchors, ", "))
}

// buildAdjustmentPrompt は旅程調整用プロンプトを構築
func (g *geminiItineraryOracle) buildAdjustmentPrompt(currentPlanJSON, modificationPrompt string) string {
	return fmt.Sprintf(`You are an AI travel assistant. Your task is to modify an existing trip itinerary based on user feedback.
You MUST return a complete, valid JSON object that strictly adheres to the following schema, incorporating the requested changes. Do not include any extra text, commentary, or markdown formatting. Return the full replacement itinerary, not a diff.

Schema:
%s

Preserve every field that is not implicated by the requested change. In particular, keep "placeId", "lat", "lon", "fromPlaceId" and "toPlaceId" values exactly as they are unless the modification explicitly relocates an activity.

Here is the current itinerary that needs to be modified:
%s

Here is the user's request for changes:
"%s"

Apply the changes and return the full, updated itinerary object.`,
		itinerarySchemaDescription,
		currentPlanJSON,
		modificationPrompt)
}

// buildExtractionPrompt は旅行条件抽出用プロンプトを構築。
// 相対日付を解決できるよう基準日を埋め込む
func (g *geminiItineraryOracle) buildExtractionPrompt(nl string, today time.Time) string {
	return fmt.Sprintf(`You are an expert trip planner. Extract the following details from the user's request: city, start date, end date, budget in INR, party composition (adults, kids, seniors), preferred modes of transport, travel themes, desired pace, and any must-visit places (anchors).

Return a single JSON object with this shape, omitting every field you cannot confidently infer (never guess empty or zero values):
{
  "city": string?, "start": "YYYY-MM-DD"?, "end": "YYYY-MM-DD"?, "budgetINR": number?,
  "party": {"adults": number, "kids": number, "seniors": number}?,
  "modes": [subset of "flight"|"train"|"bus"|"cab"|"metro"|"bike"]?,
  "themes": [subset of "heritage"|"food"|"adventure"|"nightlife"|"shopping"]?,
  "pace": "relaxed"|"balanced"|"packed"?,
  "anchors": [string, ...]?
}

User Request: %s

Today's date is %s. If dates are relative (e.g., "next weekend"), calculate the absolute dates.
If a duration is given (e.g., "4 days"), calculate the end date from the start date.`,
		nl,
		today.Format(model.DateLayout))
}
