package handlers

import (
	"encoding/json"
	"net/http"

	explorer "github.com/hello-sparql/explorer/pkg"
	"github.com/hello-sparql/explorer/pkg/models"
)

func Query(env *explorer.Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.QuerySubmission

		err := json.NewDecoder(r.Body).Decode(&request)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := request.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		format, err := models.ParseFormat(request.Format)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, err := env.RunQuery(r.Context(), request.QueryRequest, format)
		if err != nil {
			writeError(env, w, err)
			return
		}

		writeJSON(env, w, http.StatusOK, result)
	}
}
