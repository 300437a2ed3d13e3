package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"hyyq_server/middleware"
	"hyyq_server/services"
	"hyyq_server/utils"
)

// AdminMatchController handles the admin console's match endpoints.
// Admin identity has already been established by the middleware chain;
// every call passes isAdmin through to the registry.
type AdminMatchController struct {
	Matches *services.MatchService
}

// NewAdminMatchController creates a new AdminMatchController instance
func NewAdminMatchController(matches *services.MatchService) *AdminMatchController {
	return &AdminMatchController{Matches: matches}
}

// searchTimeLayouts are the formats the console sends for the searchTime
// query parameter.
var searchTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseSearchTime(value string) (time.Time, bool) {
	for _, layout := range searchTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// List handles GET /api/admin/matches. With searchTime set, listing
// switches to the time-overlap query: matches whose activity window
// contains the given instant.
func (ac *AdminMatchController) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := services.MatchFilter{
		Status:  query.Get("status"),
		Sport:   query.Get("sport"),
		Level:   query.Get("level"),
		UserID:  query.Get("userId"),
		Keyword: query.Get("keyword"),
	}
	page, limit := pageParams(r)

	var (
		matches interface{}
		total   int
		err     error
	)
	if searchTime := query.Get("searchTime"); searchTime != "" {
		instant, ok := parseSearchTime(searchTime)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "searchTime: unrecognized time format")
			return
		}
		matches, total, err = ac.Matches.ListByTimeOverlap(r.Context(), instant, filter, page, limit)
	} else {
		matches, total, err = ac.Matches.List(r.Context(), filter, page, limit)
	}
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.SuccessPage(w, "matches fetched", matches, utils.Pagination{Page: page, Limit: limit, Total: total})
}

// Update handles PUT /api/admin/matches/{id}
func (ac *AdminMatchController) Update(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	match, err := ac.Matches.Update(r.Context(), mux.Vars(r)["id"], middleware.UserID(r), true, req)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "match updated", match)
}

// SetStatus handles PUT /api/admin/matches/{id}/status
func (ac *AdminMatchController) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	match, err := ac.Matches.SetStatus(r.Context(), mux.Vars(r)["id"], middleware.UserID(r), true, req.Status)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "match status updated", match)
}

// Delete handles DELETE /api/admin/matches/{id}
func (ac *AdminMatchController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := ac.Matches.Delete(r.Context(), mux.Vars(r)["id"], middleware.UserID(r), true); err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "match deleted", nil)
}
