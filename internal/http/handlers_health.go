package httpx

import "net/http"

// healthHandler answers liveness and readiness probes. The gateway keeps no
// pooled directory connections and no session state, so being able to serve
// this response is the whole readiness story.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "bi-portal",
	})
}
