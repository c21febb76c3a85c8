package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JournalEntry is one daily site journal submission: who worked, what was
// done, what arrived on site and under which weather.
type JournalEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"projectId"`
	Project   Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Date      JSONDate  `gorm:"type:date;not null;index" json:"date"`

	// Weather at the time of entry.
	WeatherCondition string   `gorm:"size:50" json:"weatherCondition,omitempty"` // beau, pluie, gel...
	TemperatureC     *float64 `json:"temperatureC,omitempty"`

	// Line items, stored as jsonb documents:
	// workers:        [{"name":..., "company":..., "hours":...}]
	// activities:     [{"activityId":..., "locationId":..., "quantity":..., "comment":...}]
	// materials:      [{"name":..., "quantity":..., "unit":...}]
	// subcontractors: [{"subcontractorId":..., "headcount":..., "task":...}]
	Workers        datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"workers"`
	Activities     datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"activities"`
	Materials      datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"materials"`
	Subcontractors datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"subcontractors"`

	Equipment pq.StringArray `gorm:"type:text[]" json:"equipment,omitempty"` // machine names on site
	Photos    datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"photos"`  // array of uploaded file URLs
	Notes     *string        `json:"notes,omitempty"`

	// Where the entry was submitted from. OutsideGeofence is set when the
	// position falls outside the project boundary; the entry is kept.
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	OutsideGeofence bool     `gorm:"default:false" json:"outsideGeofence"`
	SubmittedAt     JSONTime `gorm:"not null" json:"submittedAt"`

	SupervisorName  string `gorm:"size:150;not null" json:"supervisorName"`
	SupervisorPhone string `gorm:"size:20" json:"supervisorPhone,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}
