package model

// DateLayout 旅程で使用する日付フォーマット（YYYY-MM-DD）
const DateLayout = "2006-01-02"

// ClockLayout セグメントの時刻フォーマット（HH:MM）
const ClockLayout = "15:04"

// DefaultCurrency 予算通貨（現状INR固定）
const DefaultCurrency = "INR"

// TransportModes 利用可能な交通手段の一覧
var TransportModes = []string{"flight", "train", "bus", "cab", "metro", "bike"}

// TripThemes 選択可能な旅行テーマの一覧
var TripThemes = []string{"heritage", "food", "adventure", "nightlife", "shopping"}

// Paces 1日あたりの活動量設定の一覧
var Paces = []string{"relaxed", "balanced", "packed"}

// SegmentTypes セグメント種別の一覧
var SegmentTypes = []string{"transport", "activity", "meal", "free"}

// RiskTags セグメントに付与できるリスクタグの一覧
var RiskTags = []string{"rain", "heat", "crowd", "late-night", "closure"}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// IsValidTransportMode 交通手段が一覧に含まれるかを判定する
func IsValidTransportMode(mode string) bool {
	return contains(TransportModes, mode)
}

// IsValidTheme テーマが一覧に含まれるかを判定する
func IsValidTheme(theme string) bool {
	return contains(TripThemes, theme)
}

// IsValidPace ペース設定が一覧に含まれるかを判定する
func IsValidPace(pace string) bool {
	return contains(Paces, pace)
}

// IsValidSegmentType セグメント種別が一覧に含まれるかを判定する
func IsValidSegmentType(segmentType string) bool {
	return contains(SegmentTypes, segmentType)
}

// IsValidRiskTag リスクタグが一覧に含まれるかを判定する
func IsValidRiskTag(tag string) bool {
	return contains(RiskTags, tag)
}
