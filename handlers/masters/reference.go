// Package masters exposes CRUD for the chantier reference data: work
// locations, signage setups, subcontractors and the activity catalogue.
package masters

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/chantier/config"
	"p9e.in/chantier/models"
)

func parsePagination(r *http.Request) (page, limit, offset int) {
	page = 1
	limit = 100
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 500 {
		limit = l
	}
	return page, limit, (page - 1) * limit
}

func projectFilter(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return projectID, true
}

func writePage(w http.ResponseWriter, total int64, page, limit int, data interface{}) {
	response := map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  data,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// =====================================================
// Locations
// =====================================================

// GetProjectLocations lists active work locations of a chantier.
func GetProjectLocations(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectFilter(w, r)
	if !ok {
		return
	}
	page, limit, offset := parsePagination(r)

	var total int64
	config.DB.Model(&models.Location{}).Where("project_id = ? AND is_active = ?", projectID, true).Count(&total)

	var locations []models.Location
	if err := config.DB.Where("project_id = ? AND is_active = ?", projectID, true).
		Limit(limit).Offset(offset).Order("name").Find(&locations).Error; err != nil {
		http.Error(w, "failed to fetch locations", http.StatusInternalServerError)
		return
	}
	writePage(w, total, page, limit, locations)
}

// CreateLocation adds a work location to a chantier.
func CreateLocation(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectFilter(w, r)
	if !ok {
		return
	}
	var location models.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if location.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	location.ProjectID = projectID
	if err := config.DB.Create(&location).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(location)
}

// UpdateLocation rewrites a work location.
func UpdateLocation(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	var location models.Location
	if err := config.DB.First(&location, "id = ?", params["locationId"]).Error; err != nil {
		http.Error(w, "location not found", http.StatusNotFound)
		return
	}
	projectID := location.ProjectID
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	location.ProjectID = projectID
	if err := config.DB.Save(&location).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(location)
}

// DeleteLocation soft-deletes a work location.
func DeleteLocation(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	result := config.DB.Delete(&models.Location{}, "id = ?", params["locationId"])
	if result.Error != nil {
		http.Error(w, "DB error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "location not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =====================================================
// Signage
// =====================================================

// GetProjectSignage lists the signage setups of a chantier.
func GetProjectSignage(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectFilter(w, r)
	if !ok {
		return
	}
	page, limit, offset := parsePagination(r)

	var total int64
	config.DB.Model(&models.Signage{}).Where("project_id = ? AND is_active = ?", projectID, true).Count(&total)

	var signage []models.Signage
	if err := config.DB.Where("project_id = ? AND is_active = ?", projectID, true).
		Limit(limit).Offset(offset).Order("name").Find(&signage).Error; err != nil {
		http.Error(w, "failed to fetch signage", http.StatusInternalServerError)
		return
	}
	writePage(w, total, page, limit, signage)
}

// CreateSignage adds a signage setup.
func CreateSignage(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectFilter(w, r)
	if !ok {
		return
	}
	var signage models.Signage
	if err := json.NewDecoder(r.Body).Decode(&signage); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if signage.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	signage.ProjectID = projectID
	if err := config.DB.Create(&signage).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(signage)
}

// DeleteSignage soft-deletes a signage setup.
func DeleteSignage(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	result := config.DB.Delete(&models.Signage{}, "id = ?", params["signageId"])
	if result.Error != nil {
		http.Error(w, "DB error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "signage not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =====================================================
// Subcontractors
// =====================================================

// GetProjectSubcontractors lists the subcontractors of a chantier.
func GetProjectSubcontractors(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectFilter(w, r)
	if !ok {
		return
	}
	page, limit, offset := parsePagination(r)

	var total int64
	config.DB.Model(&models.Subcontractor{}).Where("project_id = ? AND is_active = ?", projectID, true).Count(&total)

	var subcontractors []models.Subcontractor
	if err := config.DB.Where("project_id = ? AND is_active = ?", projectID, true).
		Limit(limit).Offset(offset).Order("name").Find(&subcontractors).Error; err != nil {
		http.Error(w, "failed to fetch subcontractors", http.StatusInternalServerError)
		return
	}
	writePage(w, total, page, limit, subcontractors)
}

// CreateSubcontractor adds a subcontractor.
func CreateSubcontractor(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectFilter(w, r)
	if !ok {
		return
	}
	var subcontractor models.Subcontractor
	if err := json.NewDecoder(r.Body).Decode(&subcontractor); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if subcontractor.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	subcontractor.ProjectID = projectID
	if err := config.DB.Create(&subcontractor).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(subcontractor)
}

// UpdateSubcontractor rewrites a subcontractor.
func UpdateSubcontractor(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	var subcontractor models.Subcontractor
	if err := config.DB.First(&subcontractor, "id = ?", params["subcontractorId"]).Error; err != nil {
		http.Error(w, "subcontractor not found", http.StatusNotFound)
		return
	}
	projectID := subcontractor.ProjectID
	if err := json.NewDecoder(r.Body).Decode(&subcontractor); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	subcontractor.ProjectID = projectID
	if err := config.DB.Save(&subcontractor).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(subcontractor)
}

// DeleteSubcontractor soft-deletes a subcontractor.
func DeleteSubcontractor(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	result := config.DB.Delete(&models.Subcontractor{}, "id = ?", params["subcontractorId"])
	if result.Error != nil {
		http.Error(w, "DB error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "subcontractor not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =====================================================
// Activity catalogue
// =====================================================

// GetProjectActivities lists the activity catalogue of a chantier.
func GetProjectActivities(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectFilter(w, r)
	if !ok {
		return
	}
	page, limit, offset := parsePagination(r)

	var total int64
	config.DB.Model(&models.Activity{}).Where("project_id = ? AND is_active = ?", projectID, true).Count(&total)

	var activities []models.Activity
	if err := config.DB.Where("project_id = ? AND is_active = ?", projectID, true).
		Limit(limit).Offset(offset).Order("name").Find(&activities).Error; err != nil {
		http.Error(w, "failed to fetch activities", http.StatusInternalServerError)
		return
	}
	writePage(w, total, page, limit, activities)
}

// CreateActivity adds an activity to the catalogue.
func CreateActivity(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectFilter(w, r)
	if !ok {
		return
	}
	var activity models.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if activity.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	activity.ID = 0 // the database assigns activity ids
	activity.ProjectID = projectID
	if err := config.DB.Create(&activity).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(activity)
}

// DeleteActivity deactivates a catalogue activity. Rows are kept because
// planning associations may still reference them.
func DeleteActivity(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	activityID, err := strconv.ParseInt(params["activityId"], 10, 64)
	if err != nil {
		http.Error(w, "invalid activity id", http.StatusBadRequest)
		return
	}

	result := config.DB.Model(&models.Activity{}).Where("id = ?", activityID).Update("is_active", false)
	if result.Error != nil {
		http.Error(w, "DB error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
