package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	_ "p9e.in/chantier/docs"
	"p9e.in/chantier/handlers"
	"p9e.in/chantier/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.Handle("/token", middleware.JWTMiddleware(http.HandlerFunc(handlers.GetCurrentUser))).Methods("GET")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.SecurityMiddleware)
	api.Use(middleware.JWTMiddleware)

	// User profile endpoint
	api.HandleFunc("/profile", handleProfile).Methods("GET")

	// Photo uploads (journal attachments)
	api.HandleFunc("/photos", handlers.UploadPhotoHandler).Methods("POST")

	RegisterProjectRoutes(api)
	RegisterPlanningRoutes(api)
	RegisterJournalRoutes(api)
	RegisterReferenceRoutes(api)
	RegisterReportRoutes(api)

	// =====================================================
	// Admin Routes (require the admin role)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(requireRoles("admin"))
	registerAdminRoutes(admin)

	return r
}

// requireRoles adapts middleware.RequireRole into a mux middleware.
func requireRoles(roles ...string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return middleware.RequireRole(roles, next)
	}
}

// handleProfile returns the authenticated user's profile.
func handleProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	user := middleware.GetUser(r)

	response := map[string]interface{}{
		"userID": claims.UserID,
		"name":   user.Name,
		"phone":  user.Phone,
		"role":   user.Role,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// registerAdminRoutes wires endpoints reserved to administrators.
func registerAdminRoutes(admin *mux.Router) {
	admin.HandleFunc("/users", handlers.GetAllUsers).Methods("GET")
	admin.HandleFunc("/projects", handlers.CreateProject).Methods("POST")
	admin.HandleFunc("/projects/{id}", handlers.UpdateProject).Methods("PUT")
	admin.HandleFunc("/projects/{id}", handlers.DeleteProject).Methods("DELETE")
}
