package routes

import (
	"github.com/gorilla/mux"
	"p9e.in/chantier/handlers"
)

// RegisterPlanningRoutes wires the weekly planning endpoints. The flat
// /planning paths are the record-level collaborator the reconciliation client
// talks to; the /planning/week paths run the engine server-side.
func RegisterPlanningRoutes(api *mux.Router) {
	// Record-level collaborator
	api.HandleFunc("/projects/{id}/planning", handlers.ListProjectPlanning).Methods("GET")
	api.HandleFunc("/planning", handlers.UpsertPlanningRecord).Methods("POST")
	api.HandleFunc("/planning/{id}/activities", handlers.ListPlanningActivities).Methods("GET")
	api.HandleFunc("/planning/{id}/activities", handlers.CreatePlanningActivity).Methods("POST")
	api.HandleFunc("/planning/activities/{id}", handlers.DeletePlanningActivity).Methods("DELETE")
	api.HandleFunc("/planning/{id}", handlers.DeletePlanningRecord).Methods("DELETE")

	// Week-level views and operations
	api.HandleFunc("/projects/{id}/planning/week", handlers.GetProjectWeekPlanning).Methods("GET")
	api.HandleFunc("/projects/{id}/planning/week/import", handlers.ImportWeekPlanning).Methods("POST")
	api.HandleFunc("/projects/{id}/planning/week/save", handlers.SaveWeekPlanning).Methods("POST")
}
