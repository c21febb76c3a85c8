package utils

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Coordinate represents a geographic coordinate with latitude and longitude
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geofence represents a polygonal geofence boundary
type Geofence struct {
	Coordinates []Coordinate `json:"coordinates"`
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
}

// ValidateGeofence validates geofencing data
func ValidateGeofence(geofenceJSON string) error {
	if geofenceJSON == "" {
		return nil // Geofence is optional
	}
	_, err := parsePolygon(geofenceJSON)
	return err
}

// GeofenceContains reports whether the point lies inside the geofence polygon.
func GeofenceContains(geofenceJSON string, lat, lng float64) (bool, error) {
	polygon, err := parsePolygon(geofenceJSON)
	if err != nil {
		return false, err
	}
	return planar.PolygonContains(polygon, orb.Point{lng, lat}), nil
}

// GeofenceCenter returns the centroid of the geofence polygon.
func GeofenceCenter(geofenceJSON string) (Coordinate, error) {
	polygon, err := parsePolygon(geofenceJSON)
	if err != nil {
		return Coordinate{}, err
	}
	center, _ := planar.CentroidArea(polygon)
	return Coordinate{Lat: center.Y(), Lng: center.X()}, nil
}

// GeofenceToGeoJSON renders the geofence as a GeoJSON feature with the given
// properties, ready to draw on a map.
func GeofenceToGeoJSON(geofenceJSON string, properties map[string]interface{}) ([]byte, error) {
	polygon, err := parsePolygon(geofenceJSON)
	if err != nil {
		return nil, err
	}
	feature := geojson.NewFeature(polygon)
	for k, v := range properties {
		feature.Properties[k] = v
	}
	return feature.MarshalJSON()
}

// parsePolygon decodes the stored {"coordinates":[{lat,lng},...]} document
// into a closed orb polygon.
func parsePolygon(geofenceJSON string) (orb.Polygon, error) {
	var geofence Geofence
	if err := json.Unmarshal([]byte(geofenceJSON), &geofence); err != nil {
		return nil, fmt.Errorf("invalid geofence JSON format: %w", err)
	}

	// A valid polygon needs at least 3 points (triangle)
	if len(geofence.Coordinates) < 3 {
		return nil, errors.New("geofence must have at least 3 coordinates to form a polygon")
	}

	ring := make(orb.Ring, 0, len(geofence.Coordinates)+1)
	for i, coord := range geofence.Coordinates {
		if coord.Lat < -90 || coord.Lat > 90 {
			return nil, fmt.Errorf("coordinate %d: latitude %.6f is out of valid range [-90, 90]", i, coord.Lat)
		}
		if coord.Lng < -180 || coord.Lng > 180 {
			return nil, fmt.Errorf("coordinate %d: longitude %.6f is out of valid range [-180, 180]", i, coord.Lng)
		}
		ring = append(ring, orb.Point{coord.Lng, coord.Lat})
	}

	// Close the ring if the caller didn't
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}

	return orb.Polygon{ring}, nil
}
