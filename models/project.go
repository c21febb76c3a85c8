package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project represents one chantier: a construction project with its own
// journal, weekly planning and reference data.
type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	Code        string         `gorm:"size:50;uniqueIndex;not null" json:"code"` // e.g. "A7-LOT3"
	Description string         `gorm:"size:255" json:"description,omitempty"`
	Client      string         `gorm:"size:150" json:"client,omitempty"`
	Address     string         `gorm:"size:255" json:"address,omitempty"`
	StartDate   *JSONDate      `gorm:"type:date" json:"startDate,omitempty"`
	EndDate     *JSONDate      `gorm:"type:date" json:"endDate,omitempty"`
	Geofence    datatypes.JSON `gorm:"type:jsonb" json:"geofence,omitempty"` // {"coordinates":[{lat,lng},...]}
	IsActive    bool           `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// ProjectMember links a user to a chantier they supervise.
type ProjectMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"projectId"`
	Project   Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (pm *ProjectMember) BeforeCreate(tx *gorm.DB) (err error) {
	if pm.ID == uuid.Nil {
		pm.ID = uuid.New()
	}
	return
}
