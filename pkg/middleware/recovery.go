package middleware

import (
	"errors"
	"net/http"

	explorer "github.com/hello-sparql/explorer/pkg"
)

func Recovery(env *explorer.Env) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if ok && errors.Is(err, http.ErrAbortHandler) {
						panic(err)
					}

					env.Logger.Errorf("Recovered from an error: %s (request ID: %s)", rec, RequestID(r.Context()))
					http.Error(w, "An internal error has occurred", http.StatusInternalServerError)
				}
			}()
			h.ServeHTTP(w, r)
		})
	}
}
