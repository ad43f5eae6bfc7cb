package handler

import (
	"encoding/json"
	"net/http"
)

type configChecker interface {
	Configured() bool
}

// Health returns a health check handler that reports whether a webhook
// destination is configured.
func Health(c configChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK

		if !c.Configured() {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
