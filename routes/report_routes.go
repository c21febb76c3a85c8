package routes

import (
	"github.com/gorilla/mux"
	"p9e.in/chantier/handlers"
)

// RegisterReportRoutes wires the tabular exports.
func RegisterReportRoutes(api *mux.Router) {
	api.HandleFunc("/projects/{id}/export/planning.xlsx", handlers.ExportWeekPlanningExcel).Methods("GET")
	api.HandleFunc("/projects/{id}/export/planning.csv", handlers.ExportWeekPlanningCSV).Methods("GET")
	api.HandleFunc("/projects/{id}/export/journal.xlsx", handlers.ExportJournalExcel).Methods("GET")
}
