package test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func DummyLogger(w io.Writer) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "message",
	})

	writer := zap.CombineWriteSyncers(zapcore.AddSync(os.Stderr), zapcore.AddSync(w))

	l := zap.New(zapcore.NewCore(encoder, writer, zapcore.DebugLevel))
	zap.RedirectStdLog(l)

	return l
}

// Endpoint describes a SPARQL endpoint stand-in. Routes with a nil handler
// answer 404.
type Endpoint struct {
	Query  http.HandlerFunc
	Shapes http.HandlerFunc
	Health http.HandlerFunc
}

// NewEndpoint starts an HTTP server for e that is closed when the test ends.
func NewEndpoint(t testing.TB, e Endpoint) *httptest.Server {
	t.Helper()

	r := mux.NewRouter()
	if e.Query != nil {
		r.HandleFunc("/sparql", e.Query).Methods(http.MethodPost)
	}
	if e.Shapes != nil {
		r.HandleFunc("/shacl", e.Shapes).Methods(http.MethodPost)
	}
	if e.Health != nil {
		r.HandleFunc("/health", e.Health).Methods(http.MethodGet)
	}

	s := httptest.NewServer(r)
	t.Cleanup(s.Close)

	return s
}

// Result answers with a successful query payload.
func Result(result string, length int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": result,
			"length": length,
		})
	}
}

// Detail answers with status code and a {"detail": ...} body.
func Detail(code int, detail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
	}
}

// Status answers with an empty body and the given status code.
func Status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

// Text answers with a plain body.
func Text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, body)
	}
}
