package routes

import (
	"linkup_server/controllers"
	"linkup_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRequestRoutes sets up routes for the request workflow under
// /api/requests
func RegisterMatchRequestRoutes(r *mux.Router, requestService *services.MatchRequestService) {
	controller := controllers.NewMatchRequestController(requestService)

	requestRouter := r.PathPrefix("/api/requests").Subrouter()

	requestRouter.HandleFunc("", controller.List).Methods("GET")
	requestRouter.HandleFunc("", controller.Create).Methods("POST")
	requestRouter.HandleFunc("/{id}/approve", controller.Approve).Methods("POST")
	requestRouter.HandleFunc("/{id}/reject", controller.Reject).Methods("POST")
	requestRouter.HandleFunc("/{id}/cancel", controller.Cancel).Methods("POST")
}
