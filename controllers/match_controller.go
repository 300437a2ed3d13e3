package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hyyq_server/middleware"
	"hyyq_server/models"
	"hyyq_server/services"
	"hyyq_server/utils"
)

// MatchController handles the user-facing match endpoints.
type MatchController struct {
	Matches       *services.MatchService
	Participation *services.ParticipationService
	Users         services.UserDirectory
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matches *services.MatchService, participation *services.ParticipationService, users services.UserDirectory) *MatchController {
	return &MatchController{Matches: matches, Participation: participation, Users: users}
}

func pageParams(r *http.Request) (page, limit int) {
	page, limit = 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	return page, limit
}

// Create handles POST /api/matches
func (mc *MatchController) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	match, err := mc.Matches.Create(r.Context(), middleware.UserID(r), req)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "match published", match)
}

// List handles GET /api/matches. Browsing is open; no token required.
func (mc *MatchController) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := query.Get("status")
	if status == "" {
		status = models.StatusActive
	}
	filter := services.MatchFilter{
		Status: status,
		Sport:  query.Get("sport"),
	}
	page, limit := pageParams(r)

	matches, total, err := mc.Matches.List(r.Context(), filter, page, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.SuccessPage(w, "matches fetched", matches, utils.Pagination{Page: page, Limit: limit, Total: total})
}

// ListMine handles GET /api/matches/my
func (mc *MatchController) ListMine(w http.ResponseWriter, r *http.Request) {
	filter := services.MatchFilter{UserID: middleware.UserID(r)}
	page, limit := pageParams(r)

	matches, total, err := mc.Matches.List(r.Context(), filter, page, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.SuccessPage(w, "matches fetched", matches, utils.Pagination{Page: page, Limit: limit, Total: total})
}

// Update handles PUT /api/matches/{id}
func (mc *MatchController) Update(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	match, err := mc.Matches.Update(r.Context(), mux.Vars(r)["id"], middleware.UserID(r), middleware.IsAdmin(r), req)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "match updated", match)
}

// Delete handles DELETE /api/matches/{id}
func (mc *MatchController) Delete(w http.ResponseWriter, r *http.Request) {
	err := mc.Matches.Delete(r.Context(), mux.Vars(r)["id"], middleware.UserID(r), middleware.IsAdmin(r))
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "match deleted", nil)
}

// SetStatus handles PUT /api/matches/{id}/status
func (mc *MatchController) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	match, err := mc.Matches.SetStatus(r.Context(), mux.Vars(r)["id"], middleware.UserID(r), middleware.IsAdmin(r), req.Status)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "match status updated", match)
}

// Join handles POST /api/matches/{id}/join. The joining user's display
// name is resolved from the directory before the slot is claimed.
func (mc *MatchController) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profile, err := mc.Users.Lookup(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	match, err := mc.Participation.Join(r.Context(), mux.Vars(r)["id"], userID, profile.Name)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "joined match", match)
}

// Leave handles POST /api/matches/{id}/leave
func (mc *MatchController) Leave(w http.ResponseWriter, r *http.Request) {
	match, err := mc.Participation.Leave(r.Context(), mux.Vars(r)["id"], middleware.UserID(r))
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "left match", match)
}
