package repository

import (
	"github.com/paulmach/orb"

	"Yatra-App/internal/domain/model"
)

// GeoPoint PostGIS POINT 型の JSON 表現
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// SegmentToGeoPoint セグメントの座標を PostGIS POINT 形式に変換する。
// 座標を持たないセグメントの場合はnilを返す
func SegmentToGeoPoint(seg *model.Segment) *GeoPoint {
	if seg == nil || seg.Lat == nil || seg.Lon == nil {
		return nil
	}

	// orb.Point は経度・緯度の順
	point := orb.Point{*seg.Lon, *seg.Lat}

	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{point.Lon(), point.Lat()},
	}
}

// GeoPointToLatLon PostGIS POINT から緯度・経度を取り出す
func GeoPointToLatLon(geoPoint *GeoPoint) (lat, lon *float64) {
	if geoPoint == nil || len(geoPoint.Coordinates) < 2 {
		return nil, nil
	}

	point := orb.Point{geoPoint.Coordinates[0], geoPoint.Coordinates[1]}
	latValue := point.Lat()
	lonValue := point.Lon()
	return &latValue, &lonValue
}
