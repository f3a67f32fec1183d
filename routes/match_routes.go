package routes

import (
	"linkup_server/controllers"
	"linkup_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for matchmaking under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, recorder *services.MatchRecorderService) {
	controller := controllers.NewMatchController(matchService, recorder)

	matchRouter := r.PathPrefix("/api/match").Subrouter()

	matchRouter.HandleFunc("/find", controller.FindMatches).Methods("POST")
	matchRouter.HandleFunc("/record", controller.RecordMatch).Methods("POST")
	matchRouter.HandleFunc("/{id}/status", controller.UpdateStatus).Methods("PATCH")
}
