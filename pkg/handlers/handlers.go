package handlers

import (
	"encoding/json"
	"net/http"

	explorer "github.com/hello-sparql/explorer/pkg"
	"github.com/hello-sparql/explorer/pkg/client"
)

func writeJSON(env *explorer.Env, w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		env.Logger.Errorf("Unable to encode response: %s", err)
	}
}

// writeError answers with the status carried by err, or 502 when the
// failure never produced one.
func writeError(env *explorer.Env, w http.ResponseWriter, err error) {
	clientErr := client.AsError(err)

	code := clientErr.StatusCode
	if code < http.StatusBadRequest || code > 599 {
		code = http.StatusBadGateway
	}

	writeJSON(env, w, code, clientErr)
}
