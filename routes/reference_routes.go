package routes

import (
	"github.com/gorilla/mux"
	"p9e.in/chantier/handlers"
	"p9e.in/chantier/handlers/masters"
)

// RegisterProjectRoutes wires the chantier (project) endpoints.
func RegisterProjectRoutes(api *mux.Router) {
	api.HandleFunc("/projects", handlers.ListProjects).Methods("GET")
	api.HandleFunc("/projects/{id}", handlers.GetProject).Methods("GET")
	api.HandleFunc("/projects/{id}/geojson", handlers.GetProjectGeoJSON).Methods("GET")
}

// RegisterReferenceRoutes wires the per-project reference data: locations,
// signage setups, subcontractors and the activity catalogue.
func RegisterReferenceRoutes(api *mux.Router) {
	api.HandleFunc("/projects/{id}/locations", masters.GetProjectLocations).Methods("GET")
	api.HandleFunc("/projects/{id}/locations", masters.CreateLocation).Methods("POST")
	api.HandleFunc("/locations/{locationId}", masters.UpdateLocation).Methods("PUT")
	api.HandleFunc("/locations/{locationId}", masters.DeleteLocation).Methods("DELETE")

	api.HandleFunc("/projects/{id}/signage", masters.GetProjectSignage).Methods("GET")
	api.HandleFunc("/projects/{id}/signage", masters.CreateSignage).Methods("POST")
	api.HandleFunc("/signage/{signageId}", masters.DeleteSignage).Methods("DELETE")

	api.HandleFunc("/projects/{id}/subcontractors", masters.GetProjectSubcontractors).Methods("GET")
	api.HandleFunc("/projects/{id}/subcontractors", masters.CreateSubcontractor).Methods("POST")
	api.HandleFunc("/subcontractors/{subcontractorId}", masters.UpdateSubcontractor).Methods("PUT")
	api.HandleFunc("/subcontractors/{subcontractorId}", masters.DeleteSubcontractor).Methods("DELETE")

	api.HandleFunc("/projects/{id}/activities", masters.GetProjectActivities).Methods("GET")
	api.HandleFunc("/projects/{id}/activities", masters.CreateActivity).Methods("POST")
	api.HandleFunc("/activities/{activityId}", masters.DeleteActivity).Methods("DELETE")
}
