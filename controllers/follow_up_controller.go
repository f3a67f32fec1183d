package controllers

import (
	"encoding/json"
	"net/http"

	"linkup_server/services"

	"github.com/gorilla/mux"
)

// FollowUpController handles HTTP requests for follow-up dispatch and
// responses.
type FollowUpController struct {
	FollowUps *services.FollowUpService
}

// NewFollowUpController creates a new FollowUpController instance
func NewFollowUpController(followUps *services.FollowUpService) *FollowUpController {
	return &FollowUpController{FollowUps: followUps}
}

// GetDue returns pending follow-ups whose scheduled time has passed.
func (fc *FollowUpController) GetDue(w http.ResponseWriter, r *http.Request) {
	due, err := fc.FollowUps.DueFollowUps(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"followUps": due,
	})
}

// MarkSent records that the messaging layer dispatched a follow-up.
func (fc *FollowUpController) MarkSent(w http.ResponseWriter, r *http.Request) {
	followUpID := mux.Vars(r)["id"]

	if err := fc.FollowUps.MarkSent(r.Context(), followUpID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"followUpId": followUpID,
		"status":     "sent",
	})
}

type followUpResponseRequest struct {
	Response    string `json:"response"`
	MatchStatus string `json:"matchStatus,omitempty"`
}

// RecordResponse stores the member's reply and optionally applies the mapped
// status to the owning match.
func (fc *FollowUpController) RecordResponse(w http.ResponseWriter, r *http.Request) {
	followUpID := mux.Vars(r)["id"]

	var body followUpResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := fc.FollowUps.RecordResponse(r.Context(), followUpID, body.Response, body.MatchStatus); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"followUpId": followUpID,
	})
}
