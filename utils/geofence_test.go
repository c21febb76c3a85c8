package utils

import (
	"strings"
	"testing"
)

// A rough square around central Lyon.
const lyonSquare = `{"coordinates":[
	{"lat":45.75,"lng":4.82},
	{"lat":45.75,"lng":4.87},
	{"lat":45.78,"lng":4.87},
	{"lat":45.78,"lng":4.82}
]}`

func TestValidateGeofence(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"empty is optional", "", false},
		{"valid square", lyonSquare, false},
		{"not json", "{", true},
		{"too few points", `{"coordinates":[{"lat":1,"lng":1},{"lat":2,"lng":2}]}`, true},
		{"latitude out of range", `{"coordinates":[{"lat":91,"lng":0},{"lat":0,"lng":1},{"lat":1,"lng":0}]}`, true},
		{"longitude out of range", `{"coordinates":[{"lat":0,"lng":181},{"lat":0,"lng":1},{"lat":1,"lng":0}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGeofence(tt.json)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGeofence() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGeofenceContains(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{"center", 45.765, 4.845, true},
		{"outside north", 45.90, 4.845, false},
		{"outside west", 45.765, 4.70, false},
		{"far away", 48.85, 2.35, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GeofenceContains(lyonSquare, tt.lat, tt.lng)
			if err != nil {
				t.Fatalf("GeofenceContains() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GeofenceContains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestGeofenceContainsInvalidJSON(t *testing.T) {
	if _, err := GeofenceContains("{", 0, 0); err == nil {
		t.Error("expected error for invalid geofence JSON")
	}
}

func TestGeofenceCenter(t *testing.T) {
	center, err := GeofenceCenter(lyonSquare)
	if err != nil {
		t.Fatalf("GeofenceCenter() error = %v", err)
	}
	if center.Lat < 45.75 || center.Lat > 45.78 {
		t.Errorf("center latitude %v outside the square", center.Lat)
	}
	if center.Lng < 4.82 || center.Lng > 4.87 {
		t.Errorf("center longitude %v outside the square", center.Lng)
	}
}

func TestGeofenceToGeoJSON(t *testing.T) {
	out, err := GeofenceToGeoJSON(lyonSquare, map[string]interface{}{"code": "DEMO"})
	if err != nil {
		t.Fatalf("GeofenceToGeoJSON() error = %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"Polygon"`) {
		t.Errorf("output is not a polygon feature: %s", s)
	}
	if !strings.Contains(s, `"DEMO"`) {
		t.Errorf("properties not carried through: %s", s)
	}
}
