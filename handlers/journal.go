package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/chantier/config"
	"p9e.in/chantier/middleware"
	"p9e.in/chantier/models"
	"p9e.in/chantier/utils"
)

// GetProjectJournal lists journal entries of a project, newest first,
// optionally bounded with ?from=&to= (YYYY-MM-DD), paginated.
func GetProjectJournal(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	projectID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}

	page := 1
	limit := 20
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.JournalEntry{}).Where("project_id = ?", projectID)
	if from := r.URL.Query().Get("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var total int64
	query.Count(&total)

	var entries []models.JournalEntry
	if err := query.Order("date DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  entries,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CreateJournalEntry records one daily journal submission. The supervisor
// identity comes from the token; the GPS position is checked against the
// project geofence and the entry is flagged (not rejected) when outside.
func CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.JournalEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if entry.Date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	user := middleware.GetUser(r)
	entry.SupervisorName = user.Name
	entry.SupervisorPhone = user.Phone

	var project models.Project
	if err := config.DB.First(&project, "id = ?", entry.ProjectID).Error; err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	if len(project.Geofence) > 0 && entry.Latitude != 0 && entry.Longitude != 0 {
		inside, err := utils.GeofenceContains(string(project.Geofence), entry.Latitude, entry.Longitude)
		if err != nil {
			log.Printf("journal: invalid geofence on project %s: %v", project.Code, err)
		} else if !inside {
			log.Printf("journal: entry for %s submitted outside geofence (%.5f, %.5f)",
				project.Code, entry.Latitude, entry.Longitude)
			entry.OutsideGeofence = true
		}
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// GetJournalEntry returns one entry by id.
func GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	var entry models.JournalEntry
	if err := config.DB.First(&entry, "id = ?", id).Error; err != nil {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// UpdateJournalEntry rewrites an entry's fields. The project and supervisor
// cannot be changed after the fact.
func UpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	var entry models.JournalEntry
	if err := config.DB.First(&entry, "id = ?", id).Error; err != nil {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}

	projectID := entry.ProjectID
	supervisorName := entry.SupervisorName
	supervisorPhone := entry.SupervisorPhone

	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	entry.ProjectID = projectID
	entry.SupervisorName = supervisorName
	entry.SupervisorPhone = supervisorPhone

	if err := config.DB.Save(&entry).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// DeleteJournalEntry soft-deletes one entry.
func DeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	result := config.DB.Delete(&models.JournalEntry{}, "id = ?", id)
	if result.Error != nil {
		http.Error(w, "DB error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
