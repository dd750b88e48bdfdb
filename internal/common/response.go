package common

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

func RespondWithError(w http.ResponseWriter, code int, kind, message string) {
	RespondWithJSON(w, code, ErrorResponse{Kind: kind, Error: message})
}

// RespondWithDomainError derives both the status code and the stable error kind
// from the domain error.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	RespondWithError(w, HTTPStatusFromError(err), KindFromError(err), err.Error())
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"kind": "INTERNAL", "error": "failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
