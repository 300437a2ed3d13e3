package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// Response is the envelope every endpoint returns. The embedded code
// mirrors the HTTP status so mini-app clients can branch on the body
// alone.
type Response struct {
	Code       int         `json:"code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// Success writes a 200 envelope with optional data.
func Success(w http.ResponseWriter, msg string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Code: http.StatusOK, Msg: msg, Data: data})
}

// SuccessPage writes a 200 envelope with data and pagination metadata.
func SuccessPage(w http.ResponseWriter, msg string, data interface{}, p Pagination) {
	writeJSON(w, http.StatusOK, Response{Code: http.StatusOK, Msg: msg, Data: data, Pagination: &p})
}

// Error writes an error envelope; the HTTP status equals the embedded code.
func Error(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, Response{Code: code, Msg: msg})
}
