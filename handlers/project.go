package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/chantier/config"
	"p9e.in/chantier/models"
	"p9e.in/chantier/utils"
)

// CreateProject registers a new chantier. Admin only.
func CreateProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if project.Name == "" || project.Code == "" {
		http.Error(w, "name and code are required", http.StatusBadRequest)
		return
	}
	if len(project.Geofence) > 0 {
		if err := utils.ValidateGeofence(string(project.Geofence)); err != nil {
			http.Error(w, "invalid geofence: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := config.DB.Create(&project).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(project)
}

// ListProjects returns active chantiers, paginated.
func ListProjects(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 50
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	offset := (page - 1) * limit

	var total int64
	config.DB.Model(&models.Project{}).Where("is_active = ?", true).Count(&total)

	var projects []models.Project
	if err := config.DB.Where("is_active = ?", true).
		Limit(limit).Offset(offset).Order("name").Find(&projects).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  projects,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetProject returns one chantier by id.
func GetProject(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	var project models.Project
	if err := config.DB.First(&project, "id = ?", id).Error; err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(project)
}

// UpdateProject rewrites a chantier's fields.
func UpdateProject(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}

	var project models.Project
	if err := config.DB.First(&project, "id = ?", id).Error; err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	project.ID = id
	if len(project.Geofence) > 0 {
		if err := utils.ValidateGeofence(string(project.Geofence)); err != nil {
			http.Error(w, "invalid geofence: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := config.DB.Save(&project).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(project)
}

// DeleteProject soft-deletes a chantier.
func DeleteProject(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	result := config.DB.Delete(&models.Project{}, "id = ?", params["id"])
	if result.Error != nil {
		http.Error(w, "DB error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProjectGeoJSON exports the project boundary as a GeoJSON feature, for
// map overlays.
func GetProjectGeoJSON(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	var project models.Project
	if err := config.DB.First(&project, "id = ?", params["id"]).Error; err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	if len(project.Geofence) == 0 {
		http.Error(w, "project has no geofence", http.StatusNotFound)
		return
	}

	feature, err := utils.GeofenceToGeoJSON(string(project.Geofence), map[string]interface{}{
		"name": project.Name,
		"code": project.Code,
	})
	if err != nil {
		http.Error(w, "invalid geofence: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(feature)
}
