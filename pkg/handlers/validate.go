package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	explorer "github.com/hello-sparql/explorer/pkg"
	"github.com/hello-sparql/explorer/pkg/models"
)

func Validate(env *explorer.Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.ShapesSubmission

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

		report, err := env.Client.ValidateShapes(r.Context(), request.ShapesRequest, format)
		if err != nil {
			writeError(env, w, err)
			return
		}

		w.Header().Set("Content-Type", format.AcceptHeader())
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, report); err != nil {
			env.Logger.Errorf("Unable to write validation report: %s", err)
		}
	}
}
