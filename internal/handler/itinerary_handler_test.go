package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Yatra-App/internal/domain/model"
)

// stubItineraryUseCase はハンドラーテスト用のスタブ
type stubItineraryUseCase struct {
	extractResult *model.PartialTripRequest
	extractErr    error
	generateResult *model.Itinerary
	generateErr    error
	adjustResult   *model.Itinerary
	adjustErr      error
	currentResult  *model.Itinerary
	currentErr     error
	clearErr       error
	clearedSession string
}

func (s *stubItineraryUseCase) Extract(ctx context.Context, nl string) (*model.PartialTripRequest, error) {
	return s.extractResult, s.extractErr
}

func (s *stubItineraryUseCase) Generate(ctx context.Context, sessionID string, req *model.TripRequest) (*model.Itinerary, error) {
	return s.generateResult, s.generateErr
}

func (s *stubItineraryUseCase) Adjust(ctx context.Context, sessionID string, modificationPrompt string) (*model.Itinerary, error) {
	return s.adjustResult, s.adjustErr
}

func (s *stubItineraryUseCase) GetCurrent(ctx context.Context, sessionID string) (*model.Itinerary, error) {
	return s.currentResult, s.currentErr
}

func (s *stubItineraryUseCase) ClearCurrent(ctx context.Context, sessionID string) error {
	s.clearedSession = sessionID
	return s.clearErr
}

func handlerTestPlan() *model.Itinerary {
	return &model.Itinerary{
		Trip: model.TripInfo{
			Title:    "Coastal Journey from Mumbai to Goa",
			Cities:   []string{"Mumbai", "Goa"},
			Start:    "2025-01-10",
			End:      "2025-01-12",
			Budget:   20000,
			Currency: "INR",
		},
		Days: []model.Day{
			{Date: "2025-01-10", City: "Mumbai", Segments: []model.Segment{{Type: "transport", Name: "Train from Mumbai to Goa"}}},
			{Date: "2025-01-11", City: "Goa", Segments: []model.Segment{{Type: "activity", Name: "Baga Beach"}}},
			{Date: "2025-01-12", City: "Goa", Segments: []model.Segment{{Type: "free", Name: "Beachside morning"}}},
		},
		Totals:      &model.Totals{Est: 18000},
		PackingList: []string{"sunscreen"},
		Checklist:   []string{"book train tickets"},
	}
}

func setupItineraryRouter(stub *stubItineraryUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewItineraryHandler(stub)

	r := gin.New()
	itineraries := r.Group("/itineraries")
	{
		itineraries.POST("/extract", h.PostExtract)
		itineraries.POST("/generate", h.PostGenerate)
		itineraries.POST("/adjust", h.PostAdjust)
		itineraries.GET("/session/:id", h.GetSessionPlan)
		itineraries.DELETE("/session/:id", h.DeleteSessionPlan)
	}
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostGenerate(t *testing.T) {
	t.Run("生成成功時は旅程を返す", func(t *testing.T) {
		r := setupItineraryRouter(&stubItineraryUseCase{generateResult: handlerTestPlan()})

		w := postJSON(t, r, "/itineraries/generate", GenerateRequest{
			SessionID: "session-1",
			Request:   model.TripRequest{StartPoint: "Mumbai", Destination: "Goa"},
		})

		require.Equal(t, http.StatusOK, w.Code)
		var plan model.Itinerary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
		assert.Len(t, plan.Days, 3)
	})

	t.Run("session_idなしは400を返す", func(t *testing.T) {
		r := setupItineraryRouter(&stubItineraryUseCase{generateResult: handlerTestPlan()})

		w := postJSON(t, r, "/itineraries/generate", GenerateRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("バリデーションエラーは400を返す", func(t *testing.T) {
		stub := &stubItineraryUseCase{
			generateErr: &model.ValidationError{Field: "end", Message: "終了日は開始日以降の日付を指定してください"},
		}
		r := setupItineraryRouter(stub)

		w := postJSON(t, r, "/itineraries/generate", GenerateRequest{SessionID: "session-1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("生成失敗は502とretryフラグを返す", func(t *testing.T) {
		stub := &stubItineraryUseCase{
			generateErr: fmt.Errorf("%w: invalid output", model.ErrGenerationFailed),
		}
		r := setupItineraryRouter(stub)

		w := postJSON(t, r, "/itineraries/generate", GenerateRequest{SessionID: "session-1"})
		require.Equal(t, http.StatusBadGateway, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["retry"])
	})
}

func TestPostAdjust(t *testing.T) {
	t.Run("変更実行中は409を返す", func(t *testing.T) {
		stub := &stubItineraryUseCase{
			adjustErr: fmt.Errorf("%w: session session-1", model.ErrMutationInFlight),
		}
		r := setupItineraryRouter(stub)

		w := postJSON(t, r, "/itineraries/adjust", AdjustRequest{
			SessionID:          "session-1",
			ModificationPrompt: "Make it cheaper",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("調整失敗は502を返す", func(t *testing.T) {
		stub := &stubItineraryUseCase{
			adjustErr: fmt.Errorf("%w: invalid output", model.ErrAdjustmentFailed),
		}
		r := setupItineraryRouter(stub)

		w := postJSON(t, r, "/itineraries/adjust", AdjustRequest{
			SessionID:          "session-1",
			ModificationPrompt: "Make it cheaper",
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestPostExtract(t *testing.T) {
	t.Run("10文字未満の自由記述は400を返す", func(t *testing.T) {
		r := setupItineraryRouter(&stubItineraryUseCase{})

		w := postJSON(t, r, "/itineraries/extract", ExtractRequest{NL: "Goa trip"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("10文字未満の日本語もバイト数に関わらず400を返す", func(t *testing.T) {
		r := setupItineraryRouter(&stubItineraryUseCase{})

		w := postJSON(t, r, "/itineraries/extract", ExtractRequest{NL: "ゴアに行く"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("抽出失敗は502とfallbackフラグを返す", func(t *testing.T) {
		stub := &stubItineraryUseCase{
			extractErr: fmt.Errorf("%w: unparseable output", model.ErrExtractionFailed),
		}
		r := setupItineraryRouter(stub)

		w := postJSON(t, r, "/itineraries/extract", ExtractRequest{NL: "3 days in Goa with the family"})
		require.Equal(t, http.StatusBadGateway, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["fallback"])
	})

	t.Run("抽出成功時は部分リクエストを返す", func(t *testing.T) {
		city := "Goa"
		stub := &stubItineraryUseCase{extractResult: &model.PartialTripRequest{City: &city}}
		r := setupItineraryRouter(stub)

		w := postJSON(t, r, "/itineraries/extract", ExtractRequest{NL: "3 days in Goa with the family"})
		require.Equal(t, http.StatusOK, w.Code)

		var partial model.PartialTripRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &partial))
		require.NotNil(t, partial.City)
		assert.Equal(t, "Goa", *partial.City)
	})
}

func TestGetSessionPlan(t *testing.T) {
	t.Run("現在の旅程がないセッションは404を返す", func(t *testing.T) {
		stub := &stubItineraryUseCase{
			currentErr: fmt.Errorf("%w: session session-1", model.ErrPlanNotFound),
		}
		r := setupItineraryRouter(stub)

		req := httptest.NewRequest(http.MethodGet, "/itineraries/session/session-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteSessionPlan(t *testing.T) {
	t.Run("セッションの旅程を破棄して204を返す", func(t *testing.T) {
		stub := &stubItineraryUseCase{}
		r := setupItineraryRouter(stub)

		req := httptest.NewRequest(http.MethodDelete, "/itineraries/session/session-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "session-1", stub.clearedSession)
	})
}
