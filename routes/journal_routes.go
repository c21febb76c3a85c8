package routes

import (
	"github.com/gorilla/mux"
	"p9e.in/chantier/handlers"
)

// RegisterJournalRoutes wires the daily site journal endpoints.
func RegisterJournalRoutes(api *mux.Router) {
	api.HandleFunc("/projects/{id}/journal", handlers.GetProjectJournal).Methods("GET")
	api.HandleFunc("/journal", handlers.CreateJournalEntry).Methods("POST")
	api.HandleFunc("/journal/{id}", handlers.GetJournalEntry).Methods("GET")
	api.HandleFunc("/journal/{id}", handlers.UpdateJournalEntry).Methods("PUT")
	api.HandleFunc("/journal/{id}", handlers.DeleteJournalEntry).Methods("DELETE")
}
