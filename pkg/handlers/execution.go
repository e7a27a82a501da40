package handlers

import (
	"net/http"

	explorer "github.com/hello-sparql/explorer/pkg"
)

// Execution reports the state of the shared coordinator.
func Execution(env *explorer.Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(env, w, http.StatusOK, env.Coordinator.State())
	}
}

// Reset returns the shared coordinator to idle.
func Reset(env *explorer.Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env.Coordinator.Reset()
		w.WriteHeader(http.StatusNoContent)
	}
}
