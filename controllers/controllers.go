package controllers

import (
	"errors"
	"log"
	"net/http"

	"hyyq_server/services"
	"hyyq_server/utils"
)

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	utils.Success(w, "Server is running!", nil)
}

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	utils.Success(w, "Welcome to the HYYQ match API.", nil)
}

var conflictMessages = map[string]string{
	services.ConflictSelfJoin:      "cannot join your own match",
	services.ConflictAlreadyJoined: "already joined this match",
	services.ConflictNotJoined:     "have not joined this match",
}

// RespondError maps a service error onto the HTTP error envelope. Internal
// failures are logged here; everything else is the caller's to fix.
func RespondError(w http.ResponseWriter, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		utils.Error(w, http.StatusBadRequest, validation.Error())
		return
	}
	var permission *services.PermissionError
	if errors.As(err, &permission) {
		utils.Error(w, http.StatusForbidden, permission.Message)
		return
	}
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		msg := conflictMessages[conflict.Reason]
		if msg == "" {
			msg = conflict.Reason
		}
		utils.Error(w, http.StatusBadRequest, msg)
		return
	}
	switch {
	case errors.Is(err, services.ErrMatchNotFound):
		utils.Error(w, http.StatusNotFound, "match not found")
	case errors.Is(err, services.ErrUserNotFound):
		utils.Error(w, http.StatusNotFound, "user not found")
	case errors.Is(err, services.ErrMatchFull):
		utils.Error(w, http.StatusBadRequest, "match is already full")
	default:
		log.Printf("Internal error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
