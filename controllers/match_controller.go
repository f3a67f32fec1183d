package controllers

import (
	"encoding/json"
	"net/http"

	"linkup_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for matchmaking and match records.
type MatchController struct {
	MatchService *services.MatchService
	Recorder     *services.MatchRecorderService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, recorder *services.MatchRecorderService) *MatchController {
	return &MatchController{MatchService: matchService, Recorder: recorder}
}

// FindMatches runs a scoring pass for the requester in the body.
func (mc *MatchController) FindMatches(w http.ResponseWriter, r *http.Request) {
	var input services.FindMatchesInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Requester.UserID == "" {
		writeError(w, http.StatusBadRequest, "requester.userId is required")
		return
	}

	candidates, err := mc.MatchService.FindMatches(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
	})
}

type recordMatchRequest struct {
	RequesterID   string `json:"requesterId"`
	MatchedUserID string `json:"matchedUserId"`
	RoomID        string `json:"roomId,omitempty"`
}

// RecordMatch persists an accepted candidate and schedules its follow-ups.
func (mc *MatchController) RecordMatch(w http.ResponseWriter, r *http.Request) {
	var body recordMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.RequesterID == "" || body.MatchedUserID == "" {
		writeError(w, http.StatusBadRequest, "requesterId and matchedUserId are required")
		return
	}

	match, followUps, err := mc.Recorder.RecordMatch(r.Context(), body.RequesterID, body.MatchedUserID, body.RoomID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"match":     match,
		"followUps": followUps,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus applies a follow-up-driven status change to a match.
func (mc *MatchController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	var body updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := mc.Recorder.UpdateStatus(r.Context(), matchID, body.Status); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"matchId": matchID,
		"status":  body.Status,
	})
}
