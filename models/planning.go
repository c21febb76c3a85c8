package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/chantier/pkg/planning"
)

// PlanningRecord is one scheduled slot on the weekly planning. The id is a
// bigint because clients address not-yet-persisted records with negative ids;
// the database is the sole authority for positive ones.
type PlanningRecord struct {
	ID              int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"projectId"`
	LocationID      *uuid.UUID         `gorm:"type:uuid" json:"locationId,omitempty"`
	Location        *Location          `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	SubcontractorID *uuid.UUID         `gorm:"type:uuid" json:"defaultSubcontractorId,omitempty"`
	Subcontractor   *Subcontractor     `gorm:"foreignKey:SubcontractorID" json:"defaultSubcontractor,omitempty"`
	SignageID       *uuid.UUID         `gorm:"type:uuid" json:"signageId,omitempty"`
	Signage         *Signage           `gorm:"foreignKey:SignageID" json:"signage,omitempty"`
	StartTime       string             `gorm:"size:5" json:"startTime"` // HH:MM
	EndTime         string             `gorm:"size:5" json:"endTime"`
	Note            *string            `json:"note,omitempty"`
	IsLabRequired   bool               `gorm:"default:false" json:"isLabRequired"`
	LabQuantity     *float64           `json:"labQuantity,omitempty"`
	Date            JSONDate           `gorm:"type:date;not null;index" json:"date"`
	Activities      []PlanningActivity `gorm:"foreignKey:PlanningRecordID" json:"activities,omitempty"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (PlanningRecord) TableName() string {
	return "planning_records"
}

// PlanningActivity links a planning record to a catalogue activity. Rows have
// their own id because the API deletes associations individually.
type PlanningActivity struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PlanningRecordID int64     `gorm:"not null;index;uniqueIndex:idx_record_activity" json:"planningRecordId"`
	ActivityID       int64     `gorm:"not null;index;uniqueIndex:idx_record_activity" json:"activityId"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (PlanningActivity) TableName() string {
	return "planning_activities"
}

// ToPlanningRecord converts the row plus its association rows into the
// engine's record shape.
func (p *PlanningRecord) ToPlanningRecord() planning.Record {
	rec := planning.Record{
		ID:        planning.RecordID(p.ID),
		ProjectID: p.ProjectID.String(),
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Date:      string(p.Date),
	}
	if p.Note != nil {
		rec.Note = *p.Note
	}
	rec.LabRequired = p.IsLabRequired
	if p.LabQuantity != nil {
		rec.LabQuantity = *p.LabQuantity
	}
	if p.LocationID != nil {
		v := p.LocationID.String()
		rec.LocationID = &v
	}
	if p.SubcontractorID != nil {
		v := p.SubcontractorID.String()
		rec.SubcontractorID = &v
	}
	if p.SignageID != nil {
		v := p.SignageID.String()
		rec.SignageID = &v
	}
	for _, a := range p.Activities {
		rec.ActivityIDs = append(rec.ActivityIDs, a.ActivityID)
	}
	return rec
}

// ApplyPlanningRecord copies the engine record's parent fields onto the row.
// Association rows are reconciled separately.
func (p *PlanningRecord) ApplyPlanningRecord(rec planning.Record) error {
	projectID, err := uuid.Parse(rec.ProjectID)
	if err != nil {
		return err
	}
	p.ProjectID = projectID
	p.StartTime = rec.StartTime
	p.EndTime = rec.EndTime
	if rec.Note != "" {
		note := rec.Note
		p.Note = &note
	} else {
		p.Note = nil
	}
	p.IsLabRequired = rec.LabRequired
	if rec.LabRequired {
		q := rec.LabQuantity
		p.LabQuantity = &q
	} else {
		p.LabQuantity = nil
	}
	p.Date = JSONDate(rec.Date)
	if len(p.Date) > len(dateLayout) {
		// drop any time component, the column is a plain date
		p.Date = p.Date[:len(dateLayout)]
	}
	p.LocationID, err = parseOptionalUUID(rec.LocationID)
	if err != nil {
		return err
	}
	p.SubcontractorID, err = parseOptionalUUID(rec.SubcontractorID)
	if err != nil {
		return err
	}
	p.SignageID, err = parseOptionalUUID(rec.SignageID)
	if err != nil {
		return err
	}
	return nil
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
