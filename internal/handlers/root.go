package handlers

import "net/http"

// RootResponse represents the welcome response at the API root.
type RootResponse struct {
	Message string `json:"message"`
}

// Root serves a welcome message so a bare GET / confirms the API is running.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, RootResponse{
		Message: "Lease Document Q&A API is running",
	})
}
