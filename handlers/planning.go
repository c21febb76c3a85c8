package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/chantier/config"
	"p9e.in/chantier/models"
	"p9e.in/chantier/pkg/planning"
)

// Planning REST surface. These endpoints are the persistence collaborator the
// reconciliation engine talks to: parent upserts return the assigned id,
// activity associations are managed row by row.

// ListProjectPlanning returns every planning record of a project, all weeks
// included. Week partitioning is the caller's job.
func ListProjectPlanning(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	projectID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}

	var rows []models.PlanningRecord
	if err := config.DB.
		Preload("Activities").
		Where("project_id = ?", projectID).
		Order("date, start_time").
		Find(&rows).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]planning.Record, len(rows))
	for i := range rows {
		out[i] = rows[i].ToPlanningRecord()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// UpsertPlanningRecord creates or updates the parent fields of a planning
// record. A zero or negative id means create. Child associations are not
// touched here. Responds with the persisted id.
func UpsertPlanningRecord(w http.ResponseWriter, r *http.Request) {
	var rec planning.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var row models.PlanningRecord
	if rec.ID > 0 {
		if err := config.DB.First(&row, "id = ?", int64(rec.ID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "record not found", http.StatusNotFound)
			} else {
				http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
			}
			return
		}
	}
	if err := row.ApplyPlanningRecord(rec); err != nil {
		http.Error(w, "invalid record: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := config.DB.Save(&row).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"id": row.ID})
}

// ListPlanningActivities returns the activity associations of a record.
func ListPlanningActivities(w http.ResponseWriter, r *http.Request) {
	recordID, ok := parseRecordID(w, r)
	if !ok {
		return
	}

	var rows []models.PlanningActivity
	if err := config.DB.Where("planning_record_id = ?", recordID).Order("id").Find(&rows).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]planning.Association, len(rows))
	for i, row := range rows {
		out[i] = planning.Association{ID: row.ID, ActivityID: row.ActivityID}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// CreatePlanningActivity links an activity to a record. Relinking an already
// linked activity is a no-op answered with the existing row.
func CreatePlanningActivity(w http.ResponseWriter, r *http.Request) {
	recordID, ok := parseRecordID(w, r)
	if !ok {
		return
	}

	var body struct {
		ActivityID int64 `json:"activityId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var count int64
	config.DB.Model(&models.PlanningRecord{}).Where("id = ?", recordID).Count(&count)
	if count == 0 {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	row := models.PlanningActivity{PlanningRecordID: recordID, ActivityID: body.ActivityID}
	err := config.DB.Where("planning_record_id = ? AND activity_id = ?", recordID, body.ActivityID).
		FirstOrCreate(&row).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(planning.Association{ID: row.ID, ActivityID: row.ActivityID})
}

// DeletePlanningActivity removes one association by its own id.
func DeletePlanningActivity(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	assocID, err := strconv.ParseInt(params["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid association id", http.StatusBadRequest)
		return
	}

	result := config.DB.Delete(&models.PlanningActivity{}, "id = ?", assocID)
	if result.Error != nil {
		http.Error(w, "DB error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "association not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePlanningRecord removes a record and its associations.
func DeletePlanningRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := parseRecordID(w, r)
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PlanningActivity{}, "planning_record_id = ?", recordID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PlanningRecord{}, "id = ?", recordID).Error
	})
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseRecordID extracts a positive record id from the route. Negative ids
// are a client-local convention and never valid here.
func parseRecordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	params := mux.Vars(r)
	id, err := strconv.ParseInt(params["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
