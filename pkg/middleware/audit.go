package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	explorer "github.com/hello-sparql/explorer/pkg"
	"github.com/hello-sparql/explorer/pkg/audit"
	"github.com/hello-sparql/explorer/pkg/models"
)

func Audit(env *explorer.Env) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()

			var (
				b          bytes.Buffer
				submission models.QuerySubmission
			)

			if _, err := io.Copy(&b, r.Body); err != nil {
				env.Logger.Errorf("Unable to copy request body: %s", err)
				http.Error(w, "An internal error has occurred", http.StatusInternalServerError)
				return
			}
			_ = r.Body.Close()

			r.Body = io.NopCloser(bytes.NewReader(b.Bytes()))

			err := json.Unmarshal(b.Bytes(), &submission)
			if err != nil {
				env.Logger.Debugf("Unable to unmarshal request body: %s", err)
				h.ServeHTTP(w, r)
				return
			}

			format := submission.Format
			if format == "" {
				format = models.DefaultFormat.String()
			}

			query := &audit.QueryData{
				Query:     submission.Query,
				Format:    format,
				Inference: submission.Inference,
				User:      r.Header.Get(forwardedUserHeader),
				RequestID: RequestID(r.Context()),
				Timestamp: now.Unix(),
			}
			if err := env.LoggerAudit.Write(query); err != nil {
				env.Logger.Errorf("Unable to write audit: %s", err)
				http.Error(w, "An internal error has occurred", http.StatusInternalServerError)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}
