package routes

import (
	"github.com/gorilla/mux"

	"hyyq_server/controllers"
	"hyyq_server/middleware"
	"hyyq_server/services"
)

// RegisterAdminRoutes sets up the admin console's match routes under
// /api/admin/matches. Every route requires a token carrying the admin
// claim.
func RegisterAdminRoutes(r *mux.Router, matches *services.MatchService) {
	controller := controllers.NewAdminMatchController(matches)

	adminRouter := r.PathPrefix("/api/admin/matches").Subrouter()
	adminRouter.Use(middleware.RequireAuth, middleware.RequireAdmin)

	adminRouter.HandleFunc("", controller.List).Methods("GET")
	adminRouter.HandleFunc("/{id}", controller.Update).Methods("PUT")
	adminRouter.HandleFunc("/{id}/status", controller.SetStatus).Methods("PUT")
	adminRouter.HandleFunc("/{id}", controller.Delete).Methods("DELETE")
}
