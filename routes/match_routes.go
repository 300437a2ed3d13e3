package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"hyyq_server/controllers"
	"hyyq_server/middleware"
	"hyyq_server/services"
)

// RegisterMatchRoutes sets up the user-facing match routes under
// /api/matches. Browsing the list is open; everything else needs a
// verified identity.
func RegisterMatchRoutes(r *mux.Router, matches *services.MatchService, participation *services.ParticipationService, users services.UserDirectory) {
	controller := controllers.NewMatchController(matches, participation, users)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}

	matchRouter.Handle("", authed(controller.Create)).Methods("POST")
	matchRouter.HandleFunc("", controller.List).Methods("GET")
	matchRouter.Handle("/my", authed(controller.ListMine)).Methods("GET")
	matchRouter.Handle("/{id}", authed(controller.Update)).Methods("PUT")
	matchRouter.Handle("/{id}", authed(controller.Delete)).Methods("DELETE")
	matchRouter.Handle("/{id}/status", authed(controller.SetStatus)).Methods("PUT")
	matchRouter.Handle("/{id}/join", authed(controller.Join)).Methods("POST")
	matchRouter.Handle("/{id}/leave", authed(controller.Leave)).Methods("POST")
}
