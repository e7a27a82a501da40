package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// A stand-in for the SPARQL endpoint for local development. It checks
// requests the way the real endpoint does but never evaluates a query: every
// SELECT answers with an empty solution sequence and every ASK with true.

type sparqlRequest struct {
	Data      *string `json:"data"`
	Query     *string `json:"query"`
	Inference bool    `json:"inference"`
}

type sparqlResponse struct {
	Length            int    `json:"length"`
	ResultContentType string `json:"result_content_type,omitempty"`
	Result            string `json:"result"`
}

type shaclRequest struct {
	Data   *string `json:"data"`
	Shapes *string `json:"shapes"`
}

type validationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

var (
	queryForm = regexp.MustCompile(`(?i)\b(SELECT|ASK|CONSTRUCT|DESCRIBE)\b`)
	variable  = regexp.MustCompile(`\?(\w+)`)
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	addr := net.JoinHostPort("", port)
	log.Printf("Starting mock SPARQL endpoint on %s", addr)
	if err := http.ListenAndServe(addr, newRouter()); err != nil {
		log.Fatalf("Mock SPARQL endpoint failed: %v", err)
	}
}

func newRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID)

	r.HandleFunc("/health", handleHealth).Methods("GET")
	r.HandleFunc("/sparql", handleSPARQL).Methods("POST")
	r.HandleFunc("/shacl", handleSHACL).Methods("POST")

	return r
}

func requestID(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		log.Printf("%s %s %s (Accept: %s)", id, r.Method, r.URL.Path, r.Header.Get("Accept"))
		h.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func handleSPARQL(w http.ResponseWriter, r *http.Request) {
	if !checkContentType(w, r) {
		return
	}

	format, mediaType, ok := negotiate(w, r)
	if !ok {
		return
	}

	var request sparqlRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []validationError{{Loc: []string{"body"}, Msg: err.Error(), Type: "json_invalid"}})
		return
	}
	if missing := missingFields(map[string]*string{"data": request.Data, "query": request.Query}); len(missing) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, missing)
		return
	}

	form := queryForm.FindString(*request.Query)
	switch strings.ToUpper(form) {
	case "ASK":
		writeJSON(w, http.StatusOK, sparqlResponse{Length: 1, ResultContentType: mediaType, Result: "true"})
	case "SELECT":
		result, err := emptySolutions(format, selectVariables(*request.Query))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Error serializing query results: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, sparqlResponse{Length: 0, ResultContentType: mediaType, Result: result})
	case "":
		writeDetail(w, http.StatusBadRequest, "Invalid SPARQL query: no query form found")
	default:
		writeDetail(w, http.StatusNotImplemented, "Only SELECT and ASK queries are supported")
	}
}

func handleSHACL(w http.ResponseWriter, r *http.Request) {
	if !checkContentType(w, r) {
		return
	}

	_, mediaType, ok := negotiate(w, r)
	if !ok {
		return
	}

	var request shaclRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []validationError{{Loc: []string{"body"}, Msg: err.Error(), Type: "json_invalid"}})
		return
	}
	if missing := missingFields(map[string]*string{"data": request.Data, "shapes": request.Shapes}); len(missing) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, missing)
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "@prefix sh: <http://www.w3.org/ns/shacl#> .\n\n[] a sh:ValidationReport ;\n    sh:conforms true .\n")
}

func checkContentType(w http.ResponseWriter, r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		writeDetail(w, http.StatusUnsupportedMediaType, fmt.Sprintf("Unsupported media type %s", contentType))
		return false
	}
	return true
}

func negotiate(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	switch accept := r.Header.Get("Accept"); accept {
	case "*/*", "text/plain":
		return "txt", "text/plain", true
	case "application/json":
		return "json", "application/json", true
	case "text/csv":
		return "csv", "text/csv", true
	case "text/xml":
		return "xml", "text/xml", true
	case "text/turtle":
		return "turtle", "text/turtle", true
	default:
		writeDetail(w, http.StatusNotAcceptable, fmt.Sprintf("Unsupported media type in accept header: %s", accept))
		return "", "", false
	}
}

func missingFields(fields map[string]*string) []validationError {
	var missing []validationError
	for _, name := range []string{"data", "query", "shapes"} {
		value, ok := fields[name]
		if ok && value == nil {
			missing = append(missing, validationError{Loc: []string{"body", name}, Msg: "Field required", Type: "missing"})
		}
	}
	return missing
}

func selectVariables(query string) []string {
	upper := strings.ToUpper(query)

	start := strings.Index(upper, "SELECT")
	if start < 0 {
		return nil
	}

	end := strings.IndexAny(upper[start:], "{")
	if where := strings.Index(upper[start:], "WHERE"); where >= 0 && (end < 0 || where < end) {
		end = where
	}
	if end < 0 {
		return nil
	}

	var vars []string
	for _, m := range variable.FindAllStringSubmatch(query[start:start+end], -1) {
		vars = append(vars, m[1])
	}
	return vars
}

func emptySolutions(format string, vars []string) (string, error) {
	switch format {
	case "txt":
		header := strings.Join(vars, " | ")
		return header + "\n" + strings.Repeat("-", len(header)) + "\n", nil
	case "json":
		b, err := json.Marshal(map[string]any{
			"head":    map[string]any{"vars": append([]string{}, vars...)},
			"results": map[string]any{"bindings": []any{}},
		})
		return string(b), err
	case "csv":
		return strings.Join(vars, ",") + "\r\n", nil
	case "xml":
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
		b.WriteString(`<sparql xmlns="http://www.w3.org/2005/sparql-results#"><head>`)
		for _, v := range vars {
			fmt.Fprintf(&b, `<variable name="%s"/>`, v)
		}
		b.WriteString(`</head><results></results></sparql>`)
		return b.String(), nil
	default:
		return "", fmt.Errorf("no %s serializer for query results", format)
	}
}

func writeDetail(w http.ResponseWriter, code int, detail any) {
	writeJSON(w, code, map[string]any{"detail": detail})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Unable to encode response: %v", err)
	}
}
