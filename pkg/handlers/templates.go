package handlers

import (
	"net/http"

	explorer "github.com/hello-sparql/explorer/pkg"
)

func Templates(env *explorer.Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(env, w, http.StatusOK, env.Templates)
	}
}
