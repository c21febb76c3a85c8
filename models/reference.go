package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reference data ("masters") for the chantier: work locations, signage
// setups, subcontractors and the activity catalogue. Activities keep bigint
// ids because planning activity associations reference them by integer id.

type Location struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"projectId"`
	Name        string         `gorm:"size:150;not null" json:"name"` // e.g. "PR 12+400 sens nord"
	Description string         `gorm:"size:255" json:"description,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

type Signage struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"projectId"`
	Name        string         `gorm:"size:150;not null" json:"name"` // e.g. "Basculement voie gauche"
	Description string         `gorm:"size:255" json:"description,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Signage) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

type Subcontractor struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"projectId"`
	Name         string         `gorm:"size:150;not null" json:"name"`
	ContactName  string         `gorm:"size:150" json:"contactName,omitempty"`
	ContactPhone string         `gorm:"size:20" json:"contactPhone,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Subcontractor) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Activity is one entry of the work catalogue ("rabotage", "enrobés",
// "marquage"...). Planning records link to activities through
// PlanningActivity rows.
type Activity struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index" json:"projectId"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Unit      string         `gorm:"size:20" json:"unit,omitempty"` // m², t, ml...
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Activity) TableName() string {
	return "activities"
}
