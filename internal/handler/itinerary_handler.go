package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"Yatra-App/internal/domain/model"
	"Yatra-App/internal/usecase"
)

// ItineraryHandler は旅程の抽出・生成・調整APIのハンドラー
type ItineraryHandler struct {
	useCase usecase.ItineraryUseCase
}

// NewItineraryHandler は新しいItineraryHandlerインスタンスを作成
func NewItineraryHandler(useCase usecase.ItineraryUseCase) *ItineraryHandler {
	return &ItineraryHandler{
		useCase: useCase,
	}
}

// ExtractRequest 自由記述からの抽出リクエスト
type ExtractRequest struct {
	NL string `json:"nl"`
}

// PostExtract は自由記述から部分リクエストを抽出するエンドポイント
// POST /itineraries/extract
func (h *ItineraryHandler) PostExtract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.NL)) < 10 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "自由記述は10文字以上で入力してください",
		})
		return
	}

	partial, err := h.useCase.Extract(c.Request.Context(), req.NL)
	if err != nil {
		if errors.Is(err, model.ErrExtractionFailed) {
			// 抽出失敗は致命的ではない。クライアントは手入力にフォールバックする
			c.JSON(http.StatusBadGateway, gin.H{
				"error":    "旅行条件の抽出に失敗しました",
				"fallback": true,
				"details":  err.Error(),
			})
			return
		}
		respondError(c, err, "旅行条件の抽出に失敗しました")
		return
	}

	c.JSON(http.StatusOK, partial)
}

// GenerateRequest 旅程生成リクエスト
type GenerateRequest struct {
	SessionID string            `json:"session_id"`
	Request   model.TripRequest `json:"request"`
}

// PostGenerate はリクエストから旅程を生成するエンドポイント
// POST /itineraries/generate
func (h *ItineraryHandler) PostGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "session_idは必須です",
		})
		return
	}

	plan, err := h.useCase.Generate(c.Request.Context(), req.SessionID, &req.Request)
	if err != nil {
		respondError(c, err, "旅程の生成に失敗しました")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// AdjustRequest 旅程調整リクエスト
type AdjustRequest struct {
	SessionID          string `json:"session_id"`
	ModificationPrompt string `json:"modification_prompt"`
}

// PostAdjust はセッションの現在の旅程を調整するエンドポイント
// POST /itineraries/adjust
func (h *ItineraryHandler) PostAdjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "session_idは必須です",
		})
		return
	}

	plan, err := h.useCase.Adjust(c.Request.Context(), req.SessionID, req.ModificationPrompt)
	if err != nil {
		respondError(c, err, "旅程の調整に失敗しました")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// GetSessionPlan はセッションの現在の旅程を取得するエンドポイント
// GET /itineraries/session/:id
func (h *ItineraryHandler) GetSessionPlan(c *gin.Context) {
	sessionID := c.Param("id")

	plan, err := h.useCase.GetCurrent(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err, "旅程の取得に失敗しました")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeleteSessionPlan はセッションの現在の旅程を破棄するエンドポイント
// DELETE /itineraries/session/:id
func (h *ItineraryHandler) DeleteSessionPlan(c *gin.Context) {
	if err := h.useCase.ClearCurrent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "旅程の破棄に失敗しました")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError はエラー種別をHTTPステータスに対応付ける。
// 生成・調整の失敗時、既存の旅程は一切変更されていない
func respondError(c *gin.Context, err error, message string) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": validationErr.Error(),
		})
	case errors.Is(err, model.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "旅程が見つかりません",
		})
	case errors.Is(err, model.ErrMutationInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"error": "このプランは変更処理の実行中です。完了までお待ちください",
		})
	case errors.Is(err, model.ErrGenerationFailed), errors.Is(err, model.ErrAdjustmentFailed):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   message,
			"details": err.Error(),
			"retry":   true,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   message,
			"details": err.Error(),
		})
	}
}
