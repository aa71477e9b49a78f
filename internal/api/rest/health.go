package rest

import "net/http"

type healthResponse struct {
	Condition string `json:"condition"`
}

func handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{Condition: "system up"})
}
