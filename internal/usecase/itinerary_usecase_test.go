package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Yatra-App/internal/domain/model"
)

// fakeOracle はテスト用のオラクル実装。返す旅程とエラーを差し替えられる
type fakeOracle struct {
	generateResult *model.Itinerary
	generateErr    error
	adjustResult   *model.Itinerary
	adjustErr      error
	extractResult  *model.PartialTripRequest
	extractErr     error

	generateCalls int
	adjustCalls   int
}

func (f *fakeOracle) GenerateItinerary(ctx context.Context, req *model.TripRequest) (*model.Itinerary, error) {
	f.generateCalls++
	return f.generateResult, f.generateErr
}

func (f *fakeOracle) AdjustItinerary(ctx context.Context, currentPlanJSON string, modificationPrompt string) (*model.Itinerary, error) {
	f.adjustCalls++
	return f.adjustResult, f.adjustErr
}

func (f *fakeOracle) ExtractTripDetails(ctx context.Context, nl string, today time.Time) (*model.PartialTripRequest, error) {
	return f.extractResult, f.extractErr
}

// memorySessionRepo はインメモリのセッション状態コンテナ
type memorySessionRepo struct {
	mu    sync.Mutex
	plans map[string]string
	locks map[string]bool
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{
		plans: make(map[string]string),
		locks: make(map[string]bool),
	}
}

func (m *memorySessionRepo) SetCurrent(ctx context.Context, sessionID string, itinerary *model.Itinerary) error {
	planJSON, err := itinerary.ToJSON()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[sessionID] = planJSON
	return nil
}

func (m *memorySessionRepo) GetCurrent(ctx context.Context, sessionID string) (*model.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	planJSON, ok := m.plans[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", model.ErrPlanNotFound, sessionID)
	}
	return model.ItineraryFromJSON(planJSON)
}

func (m *memorySessionRepo) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, sessionID)
	return nil
}

func (m *memorySessionRepo) AcquireMutationLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[sessionID] {
		return false, nil
	}
	m.locks[sessionID] = true
	return true, nil
}

func (m *memorySessionRepo) ReleaseMutationLock(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, sessionID)
	return nil
}

// hookedSessionRepo はGetCurrentの直前に1度だけコールバックを差し込む。
// 調整同士の割り込みを決定的に再現するために使う
type hookedSessionRepo struct {
	*memorySessionRepo
	onGetCurrent func()
}

func (h *hookedSessionRepo) GetCurrent(ctx context.Context, sessionID string) (*model.Itinerary, error) {
	if h.onGetCurrent != nil {
		hook := h.onGetCurrent
		h.onGetCurrent = nil
		hook()
	}
	return h.memorySessionRepo.GetCurrent(ctx, sessionID)
}

func floatPtr(v float64) *float64 { return &v }

func usecaseTestRequest() *model.TripRequest {
	return &model.TripRequest{
		StartPoint:  "Mumbai",
		Destination: "Goa",
		Start:       "2025-01-10",
		End:         "2025-01-12",
		BudgetINR:   20000,
		Party:       model.Party{Adults: 2},
		Modes:       []string{"train"},
		Themes:      []string{"food"},
		Pace:        "relaxed",
		Anchors:     []string{"Baga Beach"},
	}
}

func usecaseTestPlan() *model.Itinerary {
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
			{Date: "2025-01-11", City: "Goa", Segments: []model.Segment{{Type: "activity", Name: "Baga Beach", PlaceID: "X", Lat: floatPtr(1.0), Lon: floatPtr(2.0)}}},
			{Date: "2025-01-12", City: "Goa", Segments: []model.Segment{{Type: "free", Name: "Beachside morning"}}},
		},
		Totals:      &model.Totals{Est: 18000},
		PackingList: []string{"sunscreen"},
		Checklist:   []string{"book train tickets"},
	}
}

func TestItineraryUseCaseGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("生成された旅程が日付範囲と一致しセッションに保持される", func(t *testing.T) {
		oracle := &fakeOracle{generateResult: usecaseTestPlan()}
		sessions := newMemorySessionRepo()
		uc := NewItineraryUseCase(oracle, sessions)

		plan, err := uc.Generate(ctx, "session-1", usecaseTestRequest())
		require.NoError(t, err)

		require.Len(t, plan.Days, 3)
		assert.Equal(t, "2025-01-10", plan.Days[0].Date)
		assert.Equal(t, "2025-01-12", plan.Days[2].Date)
		assert.Equal(t, 20000.0, plan.Trip.Budget)
		assert.Equal(t, "INR", plan.Trip.Currency)
		for _, day := range plan.Days {
			assert.NotEmpty(t, day.Segments, "各日に最低1つのセグメントが必要")
		}
		assert.Equal(t, 1, oracle.generateCalls)

		current, err := uc.GetCurrent(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, plan.Trip.Title, current.Trip.Title)
	})

	t.Run("不正なリクエストはオラクルを呼ばずに拒否される", func(t *testing.T) {
		oracle := &fakeOracle{generateResult: usecaseTestPlan()}
		uc := NewItineraryUseCase(oracle, newMemorySessionRepo())

		req := usecaseTestRequest()
		req.End = "2025-01-01"
		_, err := uc.Generate(ctx, "session-1", req)

		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 0, oracle.generateCalls)
	})

	t.Run("生成失敗時は旅程が返らずセッションも変わらない", func(t *testing.T) {
		oracle := &fakeOracle{generateErr: fmt.Errorf("%w: invalid output", model.ErrGenerationFailed)}
		sessions := newMemorySessionRepo()
		uc := NewItineraryUseCase(oracle, sessions)

		plan, err := uc.Generate(ctx, "session-1", usecaseTestRequest())
		assert.Nil(t, plan)
		assert.ErrorIs(t, err, model.ErrGenerationFailed)

		_, err = uc.GetCurrent(ctx, "session-1")
		assert.ErrorIs(t, err, model.ErrPlanNotFound)
	})
}

func TestItineraryUseCaseAdjust(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, oracle *fakeOracle) (ItineraryUseCase, *memorySessionRepo) {
		t.Helper()
		sessions := newMemorySessionRepo()
		require.NoError(t, sessions.SetCurrent(ctx, "session-1", usecaseTestPlan()))
		return NewItineraryUseCase(oracle, sessions), sessions
	}

	t.Run("無関係なセグメントの場所参照は調整後も維持される", func(t *testing.T) {
		// オラクルは食事を追加しつつBaga Beachの参照を落としてしまった
		adjusted := usecaseTestPlan()
		adjusted.Days[1].Segments[0].PlaceID = ""
		adjusted.Days[1].Segments[0].Lat = nil
		adjusted.Days[1].Segments[0].Lon = nil
		adjusted.Days[2].Segments = append(adjusted.Days[2].Segments,
			model.Segment{Type: "meal", Name: "Thali dinner"})

		uc, _ := setup(t, &fakeOracle{adjustResult: adjusted})

		plan, err := uc.Adjust(ctx, "session-1", "Add a thali dinner on the last day")
		require.NoError(t, err)

		beach := plan.Days[1].Segments[0]
		assert.Equal(t, "X", beach.PlaceID)
		require.NotNil(t, beach.Lat)
		require.NotNil(t, beach.Lon)
		assert.Equal(t, 1.0, *beach.Lat)
		assert.Equal(t, 2.0, *beach.Lon)
		assert.Len(t, plan.Days[2].Segments, 2)
	})

	t.Run("調整失敗時は既存の旅程がそのまま残る", func(t *testing.T) {
		uc, sessions := setup(t, &fakeOracle{adjustErr: fmt.Errorf("%w: invalid output", model.ErrAdjustmentFailed)})

		plan, err := uc.Adjust(ctx, "session-1", "Swap day 2 and day 3")
		assert.Nil(t, plan)
		assert.ErrorIs(t, err, model.ErrAdjustmentFailed)

		current, getErr := sessions.GetCurrent(ctx, "session-1")
		require.NoError(t, getErr)
		assert.Equal(t, usecaseTestPlan(), current)
	})

	t.Run("空の変更要望は拒否される", func(t *testing.T) {
		oracle := &fakeOracle{adjustResult: usecaseTestPlan()}
		uc, _ := setup(t, oracle)

		_, err := uc.Adjust(ctx, "session-1", "   ")
		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 0, oracle.adjustCalls)
	})

	t.Run("現在の旅程がないセッションへの調整は失敗する", func(t *testing.T) {
		uc := NewItineraryUseCase(&fakeOracle{}, newMemorySessionRepo())

		_, err := uc.Adjust(ctx, "unknown-session", "Make it cheaper")
		assert.ErrorIs(t, err, model.ErrPlanNotFound)
	})

	t.Run("変更ロックが取得済みの場合はErrMutationInFlightになる", func(t *testing.T) {
		uc, sessions := setup(t, &fakeOracle{adjustResult: usecaseTestPlan()})

		acquired, err := sessions.AcquireMutationLock(ctx, "session-1", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)

		_, err = uc.Adjust(ctx, "session-1", "Make it cheaper")
		assert.ErrorIs(t, err, model.ErrMutationInFlight)
	})

	t.Run("同時に開始した調整が先行の調整結果を上書きしない", func(t *testing.T) {
		sessions := newMemorySessionRepo()
		require.NoError(t, sessions.SetCurrent(ctx, "session-1", usecaseTestPlan()))

		firstResult := usecaseTestPlan()
		firstResult.Checklist = append(firstResult.Checklist, "first adjustment")

		secondResult := usecaseTestPlan()
		secondResult.Checklist = append(secondResult.Checklist, "second adjustment")

		hooked := &hookedSessionRepo{memorySessionRepo: sessions}
		first := NewItineraryUseCase(&fakeOracle{adjustResult: firstResult}, hooked)

		// 1つ目の調整が現在プランを読んでいる最中に2つ目の調整を割り込ませる。
		// 読み取りがロック内にあるため、割り込んだ側はErrMutationInFlightで弾かれる
		var secondErr error
		hooked.onGetCurrent = func() {
			second := NewItineraryUseCase(&fakeOracle{adjustResult: secondResult}, sessions)
			_, secondErr = second.Adjust(ctx, "session-1", "Interleaved change")
		}

		plan, err := first.Adjust(ctx, "session-1", "Add a checklist item")
		require.NoError(t, err)
		assert.ErrorIs(t, secondErr, model.ErrMutationInFlight)
		assert.Contains(t, plan.Checklist, "first adjustment")

		current, getErr := sessions.GetCurrent(ctx, "session-1")
		require.NoError(t, getErr)
		assert.Equal(t, plan, current)
	})

	t.Run("調整完了後はロックが解放される", func(t *testing.T) {
		uc, sessions := setup(t, &fakeOracle{adjustResult: usecaseTestPlan()})

		_, err := uc.Adjust(ctx, "session-1", "Make it cheaper")
		require.NoError(t, err)

		acquired, err := sessions.AcquireMutationLock(ctx, "session-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})
}

func TestItineraryUseCaseExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("短すぎる自由記述は拒否される", func(t *testing.T) {
		uc := NewItineraryUseCase(&fakeOracle{}, newMemorySessionRepo())

		_, err := uc.Extract(ctx, "Goa trip")
		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("抽出結果がそのまま返る", func(t *testing.T) {
		city := "Goa"
		uc := NewItineraryUseCase(&fakeOracle{extractResult: &model.PartialTripRequest{City: &city}}, newMemorySessionRepo())

		partial, err := uc.Extract(ctx, "3 days in Goa with the family")
		require.NoError(t, err)
		require.NotNil(t, partial.City)
		assert.Equal(t, "Goa", *partial.City)
	})

	t.Run("最小文字数はバイト数ではなく文字数で判定される", func(t *testing.T) {
		city := "Goa"
		uc := NewItineraryUseCase(&fakeOracle{extractResult: &model.PartialTripRequest{City: &city}}, newMemorySessionRepo())

		// 5文字（15バイト）は短すぎるとして拒否される
		_, err := uc.Extract(ctx, "ゴアに行く")
		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)

		// 12文字の日本語は受け付けられる
		_, err = uc.Extract(ctx, "来月ゴアに3日間行きたい")
		require.NoError(t, err)
	})

	t.Run("1フィールドも抽出できなかった場合は失敗扱い", func(t *testing.T) {
		uc := NewItineraryUseCase(&fakeOracle{extractResult: &model.PartialTripRequest{}}, newMemorySessionRepo())

		_, err := uc.Extract(ctx, "something entirely unrelated to travel")
		assert.ErrorIs(t, err, model.ErrExtractionFailed)
	})
}

func TestItineraryUseCaseClearCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("破棄後は現在プランを取得できない", func(t *testing.T) {
		sessions := newMemorySessionRepo()
		uc := NewItineraryUseCase(&fakeOracle{generateResult: usecaseTestPlan()}, sessions)

		_, err := uc.Generate(ctx, "session-1", usecaseTestRequest())
		require.NoError(t, err)

		require.NoError(t, uc.ClearCurrent(ctx, "session-1"))

		_, err = uc.GetCurrent(ctx, "session-1")
		assert.ErrorIs(t, err, model.ErrPlanNotFound)
	})
}
