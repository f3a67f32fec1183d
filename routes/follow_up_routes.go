package routes

import (
	"linkup_server/controllers"
	"linkup_server/services"

	"github.com/gorilla/mux"
)

// RegisterFollowUpRoutes sets up routes for follow-ups under /api/followups
func RegisterFollowUpRoutes(r *mux.Router, followUpService *services.FollowUpService) {
	controller := controllers.NewFollowUpController(followUpService)

	followUpRouter := r.PathPrefix("/api/followups").Subrouter()

	followUpRouter.HandleFunc("/due", controller.GetDue).Methods("GET")
	followUpRouter.HandleFunc("/{id}/sent", controller.MarkSent).Methods("POST")
	followUpRouter.HandleFunc("/{id}/response", controller.RecordResponse).Methods("POST")
}
