package routes

import (
	"github.com/gorilla/mux"

	"hyyq_server/controllers"
	"hyyq_server/middleware"
)

// RegisterUploadRoutes sets up the presigned-URL routes for match images
func RegisterUploadRoutes(r *mux.Router) {
	uploadRouter := r.PathPrefix("/api/uploads").Subrouter()
	uploadRouter.Use(middleware.RequireAuth)

	uploadRouter.HandleFunc("/match-image", controllers.GetUploadURLHandler).Methods("GET")
	uploadRouter.HandleFunc("/match-image/url", controllers.GetReadURLHandler).Methods("GET")
}
