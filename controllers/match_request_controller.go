package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"linkup_server/models"
	"linkup_server/services"

	"github.com/gorilla/mux"
)

// MatchRequestController handles HTTP requests for the request workflow.
type MatchRequestController struct {
	Requests *services.MatchRequestService
}

// NewMatchRequestController creates a new MatchRequestController instance
func NewMatchRequestController(requests *services.MatchRequestService) *MatchRequestController {
	return &MatchRequestController{Requests: requests}
}

type createRequestRequest struct {
	RequesterID string  `json:"requesterId"`
	RequestedID string  `json:"requestedId"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason,omitempty"`
}

// Create opens a pending match request.
func (rc *MatchRequestController) Create(w http.ResponseWriter, r *http.Request) {
	var body createRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.RequesterID == "" || body.RequestedID == "" {
		writeError(w, http.StatusBadRequest, "requesterId and requestedId are required")
		return
	}

	req, err := rc.Requests.CreateRequest(r.Context(), body.RequesterID, body.RequestedID, body.Score, body.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"request": req,
	})
}

// Approve transitions a pending request to approved.
func (rc *MatchRequestController) Approve(w http.ResponseWriter, r *http.Request) {
	rc.respond(w, r, rc.Requests.Approve)
}

// Reject transitions a pending request to rejected.
func (rc *MatchRequestController) Reject(w http.ResponseWriter, r *http.Request) {
	rc.respond(w, r, rc.Requests.Reject)
}

// Cancel withdraws a pending request.
func (rc *MatchRequestController) Cancel(w http.ResponseWriter, r *http.Request) {
	rc.respond(w, r, rc.Requests.Cancel)
}

// List returns the requests a user is involved in.
func (rc *MatchRequestController) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	requests, err := rc.Requests.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

func (rc *MatchRequestController) respond(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, requestID string) (*models.MatchRequest, error)) {
	requestID := mux.Vars(r)["id"]

	req, err := fn(r.Context(), requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"request": req,
	})
}
