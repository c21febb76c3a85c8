package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/chantier/models"
	"p9e.in/chantier/pkg/planning"
)

// planningStore implements planning.Backend directly over the database, so
// server-side week saves run through the same reconciliation path as remote
// clients.
type planningStore struct {
	db *gorm.DB
}

// NewPlanningStore builds the database-backed planning collaborator.
func NewPlanningStore(db *gorm.DB) planning.Backend {
	return &planningStore{db: db}
}

func (s *planningStore) ListRecords(ctx context.Context, projectID string) ([]planning.Record, error) {
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", projectID, err)
	}
	var rows []models.PlanningRecord
	if err := s.db.WithContext(ctx).
		Preload("Activities").
		Where("project_id = ?", pid).
		Order("date, start_time").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]planning.Record, len(rows))
	for i := range rows {
		out[i] = rows[i].ToPlanningRecord()
	}
	return out, nil
}

func (s *planningStore) UpsertRecord(ctx context.Context, rec planning.Record) (planning.RecordID, error) {
	var row models.PlanningRecord
	if rec.ID > 0 {
		if err := s.db.WithContext(ctx).First(&row, "id = ?", int64(rec.ID)).Error; err != nil {
			return 0, fmt.Errorf("record %d: %w", rec.ID, err)
		}
	}
	if err := row.ApplyPlanningRecord(rec); err != nil {
		return 0, err
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return 0, err
	}
	return planning.RecordID(row.ID), nil
}

func (s *planningStore) ListAssociations(ctx context.Context, id planning.RecordID) ([]planning.Association, error) {
	var rows []models.PlanningActivity
	if err := s.db.WithContext(ctx).
		Where("planning_record_id = ?", int64(id)).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]planning.Association, len(rows))
	for i, row := range rows {
		out[i] = planning.Association{ID: row.ID, ActivityID: row.ActivityID}
	}
	return out, nil
}

func (s *planningStore) CreateAssociation(ctx context.Context, id planning.RecordID, activityID int64) error {
	row := models.PlanningActivity{PlanningRecordID: int64(id), ActivityID: activityID}
	return s.db.WithContext(ctx).
		Where("planning_record_id = ? AND activity_id = ?", int64(id), activityID).
		FirstOrCreate(&row).Error
}

func (s *planningStore) DeleteAssociation(ctx context.Context, associationID int64) error {
	return s.db.WithContext(ctx).Delete(&models.PlanningActivity{}, "id = ?", associationID).Error
}

func (s *planningStore) DeleteRecord(ctx context.Context, id planning.RecordID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PlanningActivity{}, "planning_record_id = ?", int64(id)).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PlanningRecord{}, "id = ?", int64(id)).Error
	})
}
