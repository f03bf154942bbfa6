package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Yatra-App/internal/domain/model"
	"Yatra-App/internal/usecase"
)

// SavedItineraryHandler は保存済み旅程（ダッシュボード）とエクスポートAPIのハンドラー
type SavedItineraryHandler struct {
	savedUseCase  usecase.SavedItineraryUseCase
	exportUseCase usecase.ItineraryExportUseCase
}

// NewSavedItineraryHandler は新しいSavedItineraryHandlerインスタンスを作成
func NewSavedItineraryHandler(
	savedUseCase usecase.SavedItineraryUseCase,
	exportUseCase usecase.ItineraryExportUseCase,
) *SavedItineraryHandler {
	return &SavedItineraryHandler{
		savedUseCase:  savedUseCase,
		exportUseCase: exportUseCase,
	}
}

// PutSaved は旅程を保存するエンドポイント（同タイトルは上書き）
// PUT /itineraries/saved
func (h *SavedItineraryHandler) PutSaved(c *gin.Context) {
	var plan model.Itinerary
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if err := h.savedUseCase.Save(c.Request.Context(), &plan); err != nil {
		respondError(c, err, "旅程の保存に失敗しました")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title": plan.Trip.Title,
	})
}

// GetSavedList は保存済み旅程の一覧を返すエンドポイント
// GET /itineraries/saved
func (h *SavedItineraryHandler) GetSavedList(c *gin.Context) {
	itineraries, err := h.savedUseCase.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "旅程一覧の取得に失敗しました")
		return
	}
	if itineraries == nil {
		itineraries = []*model.Itinerary{}
	}

	c.JSON(http.StatusOK, gin.H{
		"itineraries": itineraries,
	})
}

// GetSaved はタイトルで旅程を取得するエンドポイント
// GET /itineraries/saved/:title
func (h *SavedItineraryHandler) GetSaved(c *gin.Context) {
	plan, err := h.savedUseCase.Get(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err, "旅程の取得に失敗しました")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeleteSaved はタイトルで旅程を削除するエンドポイント
// DELETE /itineraries/saved/:title
func (h *SavedItineraryHandler) DeleteSaved(c *gin.Context) {
	if err := h.savedUseCase.Delete(c.Request.Context(), c.Param("title")); err != nil {
		respondError(c, err, "旅程の削除に失敗しました")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetExportJSON は旅程そのままのJSONエクスポートを返すエンドポイント
// GET /itineraries/saved/:title/export/json
func (h *SavedItineraryHandler) GetExportJSON(c *gin.Context) {
	data, err := h.exportUseCase.ExportJSON(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err, "旅程のエクスポートに失敗しました")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="itinerary.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(data))
}

// GetExportICS はiCalendar形式のエクスポートを返すエンドポイント
// GET /itineraries/saved/:title/export/ics
func (h *SavedItineraryHandler) GetExportICS(c *gin.Context) {
	ics, err := h.exportUseCase.ExportICS(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err, "カレンダーのエクスポートに失敗しました")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="itinerary.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// GetExportDocument はドキュメント形式の行データを返すエンドポイント
// GET /itineraries/saved/:title/export/document
func (h *SavedItineraryHandler) GetExportDocument(c *gin.Context) {
	outline, err := h.exportUseCase.ExportDocument(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err, "ドキュメントのエクスポートに失敗しました")
		return
	}

	c.JSON(http.StatusOK, outline)
}

// GetSummary は予算消化率とリスクのサマリーを返すエンドポイント
// GET /itineraries/saved/:title/summary?kinds=weather,safety
func (h *SavedItineraryHandler) GetSummary(c *gin.Context) {
	var kinds []string
	if raw := c.Query("kinds"); raw != "" {
		kinds = strings.Split(raw, ",")
	}

	summary, err := h.exportUseCase.Summary(c.Request.Context(), c.Param("title"), kinds)
	if err != nil {
		respondError(c, err, "サマリーの取得に失敗しました")
		return
	}

	c.JSON(http.StatusOK, summary)
}
