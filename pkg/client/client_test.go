package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hello-sparql/explorer/pkg/models"
	"github.com/hello-sparql/explorer/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) {
	return f(r)
}

type emptyError struct{}

func (emptyError) Error() string { return "" }

var sampleRequest = models.QueryRequest{
	Query: "SELECT * WHERE { ?s ?p ?o }",
	Data:  "@prefix ex: <http://example.org/>.",
}

func TestNew(t *testing.T) {
	cases := []struct {
		description string
		given       Config
		environment string
		baseURL     string
		timeout     time.Duration
	}{
		{
			"explicit configuration",
			Config{BaseURL: "http://sparql.test:9000", Timeout: 5 * time.Second},
			"http://ignored.test",
			"http://sparql.test:9000",
			5 * time.Second,
		},
		{
			"base URL from environment variable",
			Config{},
			"http://env.test:8000",
			"http://env.test:8000",
			DefaultTimeout,
		},
		{
			"defaults without configuration and environment",
			Config{},
			"",
			DefaultBaseURL,
			DefaultTimeout,
		},
		{
			"trailing slashes are trimmed",
			Config{BaseURL: "http://sparql.test//"},
			"",
			"http://sparql.test",
			DefaultTimeout,
		},
		{
			"negative timeout selects default",
			Config{BaseURL: "http://sparql.test", Timeout: -time.Second},
			"",
			"http://sparql.test",
			DefaultTimeout,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Setenv(EndpointEnvVar, tc.environment)

			actual := New(tc.given)

			require.NotNil(t, actual)
			assert.Equal(t, tc.baseURL, actual.BaseURL())
			assert.Equal(t, tc.timeout, actual.Timeout())
		})
	}
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	actual := New(Config{BaseURL: "http://sparql.test"})
	assert.IsType(t, &http.Client{}, actual.client)
	assert.NotNil(t, actual.client.(*http.Client).Transport)

	actual = New(Config{BaseURL: "http://sparql.test"}, WithHTTPClient(http.DefaultClient))
	assert.Equal(t, http.DefaultClient, actual.client)
}

func TestExecuteQueryRequest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		request     models.QueryRequest
		format      models.Format
		accept      string
		body        string
	}{
		{
			"plain text format with inference omitted",
			sampleRequest,
			models.FormatText,
			"text/plain",
			`{"query":"SELECT * WHERE { ?s ?p ?o }","data":"@prefix ex: <http://example.org/>.","inference":false}`,
		},
		{
			"JSON format",
			sampleRequest,
			models.FormatJSON,
			"application/json",
			`{"query":"SELECT * WHERE { ?s ?p ?o }","data":"@prefix ex: <http://example.org/>.","inference":false}`,
		},
		{
			"CSV format",
			sampleRequest,
			models.FormatCSV,
			"text/csv",
			`{"query":"SELECT * WHERE { ?s ?p ?o }","data":"@prefix ex: <http://example.org/>.","inference":false}`,
		},
		{
			"XML format with inference enabled",
			models.QueryRequest{Query: "ASK {}", Data: "<a> <b> <c> .", Inference: true},
			models.FormatXML,
			"text/xml",
			`{"query":"ASK {}","data":"<a> <b> <c> .","inference":true}`,
		},
		{
			"unrecognized format falls back to plain text",
			sampleRequest,
			models.Format("turtle"),
			"text/plain",
			`{"query":"SELECT * WHERE { ?s ?p ?o }","data":"@prefix ex: <http://example.org/>.","inference":false}`,
		},
		{
			"empty format falls back to plain text",
			sampleRequest,
			models.Format(""),
			"text/plain",
			`{"query":"SELECT * WHERE { ?s ?p ?o }","data":"@prefix ex: <http://example.org/>.","inference":false}`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var (
				body    bytes.Buffer
				headers http.Header
				method  string
				path    string
			)

			s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(&body, r.Body)
				headers = r.Header.Clone()
				method, path = r.Method, r.URL.Path
				fmt.Fprintln(w, `{"result":"ok","length":1}`)
			}))
			defer s.Close()

			c := New(Config{BaseURL: s.URL}, WithHTTPClient(http.DefaultClient))
			actual, err := c.ExecuteQuery(context.TODO(), tc.request, tc.format)

			require.NoError(t, err)
			assert.Equal(t, &models.QueryResponse{Result: "ok", Length: 1}, actual)
			assert.Equal(t, http.MethodPost, method)
			assert.Equal(t, "/sparql", path)
			assert.Equal(t, tc.accept, headers.Get("Accept"))
			assert.Equal(t, "application/json", headers.Get("Content-Type"))
			assert.Equal(t, version.UserAgent(), headers.Get("User-Agent"))
			assert.JSONEq(t, tc.body, body.String())
		})
	}
}

func TestExecuteQueryResponse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		handler     func(w http.ResponseWriter, r *http.Request)
		expected    *models.QueryResponse
		error       *Error
	}{
		{
			"successful JSON result",
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"result": "{\"results\":[]}", "length": 0}`)
			},
			&models.QueryResponse{Result: `{"results":[]}`, Length: 0},
			nil,
		},
		{
			"successful result with content type reported",
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"result":"s,p,o\r\n","length":3,"result_content_type":"text/csv"}`)
			},
			&models.QueryResponse{Result: "s,p,o\r\n", Length: 3, ResultContentType: "text/csv"},
			nil,
		},
		{
			"successful status other than 200",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				fmt.Fprint(w, `{"result":"true","length":1}`)
			},
			&models.QueryResponse{Result: "true", Length: 1},
			nil,
		},
		{
			"error response with detail",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"detail": "Invalid SPARQL syntax"}`)
			},
			nil,
			&Error{Message: "Invalid SPARQL syntax", StatusCode: 400, Detail: "Invalid SPARQL syntax"},
		},
		{
			"error response with detail and unsupported query type",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotImplemented)
				fmt.Fprint(w, `{"detail": "Only SELECT and ASK queries are supported"}`)
			},
			nil,
			&Error{Message: "Only SELECT and ASK queries are supported", StatusCode: 501, Detail: "Only SELECT and ASK queries are supported"},
		},
		{
			"error response with JSON body without detail",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"error": "boom"}`)
			},
			nil,
			&Error{Message: "Failed to execute query", StatusCode: 500},
		},
		{
			"error response with structured detail",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				fmt.Fprint(w, `{"detail": [{"loc": ["body", "data"], "msg": "field required"}]}`)
			},
			nil,
			&Error{
				Message:    `[{"loc":["body","data"],"msg":"field required"}]`,
				StatusCode: 422,
				Detail:     `[{"loc":["body","data"],"msg":"field required"}]`,
			},
		},
		{
			"error response with non-JSON body",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				fmt.Fprint(w, `<html>upstream unavailable</html>`)
			},
			nil,
			&Error{Message: "HTTP error 502: Bad Gateway", StatusCode: 502, Detail: "HTTP error 502: Bad Gateway"},
		},
		{
			"error response with empty body",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			nil,
			&Error{Message: "HTTP error 503: Service Unavailable", StatusCode: 503, Detail: "HTTP error 503: Service Unavailable"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			s := httptest.NewServer(http.HandlerFunc(tc.handler))
			defer s.Close()

			c := New(Config{BaseURL: s.URL}, WithHTTPClient(http.DefaultClient))
			actual, err := c.ExecuteQuery(context.TODO(), sampleRequest, models.FormatJSON)

			if tc.error != nil {
				var clientErr *Error
				require.ErrorAs(t, err, &clientErr)
				assert.Equal(t, tc.error, clientErr)
				assert.Nil(t, actual)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, actual)
			}
		})
	}
}

func TestExecuteQueryMalformedSuccessBody(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer s.Close()

	c := New(Config{BaseURL: s.URL}, WithHTTPClient(http.DefaultClient))
	actual, err := c.ExecuteQuery(context.TODO(), sampleRequest, models.FormatText)

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Nil(t, actual)
	assert.Contains(t, clientErr.Message, "invalid character")
	assert.Zero(t, clientErr.StatusCode)
	assert.Empty(t, clientErr.Detail)
}

func TestExecuteQueryTimeout(t *testing.T) {
	t.Parallel()

	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()
		return nil, r.Context().Err()
	})

	c := New(Config{BaseURL: "http://sparql.test", Timeout: 10 * time.Millisecond}, WithHTTPClient(doer))
	actual, err := c.ExecuteQuery(context.TODO(), sampleRequest, models.FormatText)

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Nil(t, actual)
	assert.Equal(t, "Request timeout", clientErr.Message)
	assert.Equal(t, http.StatusRequestTimeout, clientErr.StatusCode)
	assert.True(t, clientErr.Timeout())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecuteQueryDisarmsTimeout(t *testing.T) {
	t.Parallel()

	var captured context.Context

	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		captured = r.Context()
		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Body:       io.NopCloser(bytes.NewBufferString(`{"result":"","length":0}`)),
		}, nil
	})

	c := New(Config{BaseURL: "http://sparql.test", Timeout: time.Hour}, WithHTTPClient(doer))
	_, err := c.ExecuteQuery(context.TODO(), sampleRequest, models.FormatText)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.ErrorIs(t, captured.Err(), context.Canceled)
}

func TestExecuteQueryParentCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		return nil, r.Context().Err()
	})

	c := New(Config{BaseURL: "http://sparql.test"}, WithHTTPClient(doer))
	_, err := c.ExecuteQuery(ctx, sampleRequest, models.FormatText)

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, context.Canceled.Error(), clientErr.Message)
	assert.Zero(t, clientErr.StatusCode)
}

func TestExecuteQueryParentDeadline(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.TODO(), 10*time.Millisecond)
	defer cancel()

	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()
		return nil, r.Context().Err()
	})

	c := New(Config{BaseURL: "http://sparql.test", Timeout: time.Hour}, WithHTTPClient(doer))
	_, err := c.ExecuteQuery(ctx, sampleRequest, models.FormatText)

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, context.DeadlineExceeded.Error(), clientErr.Message)
	assert.Zero(t, clientErr.StatusCode)
	assert.False(t, clientErr.Timeout())
}

func TestExecuteQueryFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       Doer
		message     string
	}{
		{
			"network failure keeps the underlying message",
			doerFunc(func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
			}),
			"dial tcp 127.0.0.1:8000: connect: connection refused",
		},
		{
			"network failure with empty message",
			doerFunc(func(r *http.Request) (*http.Response, error) {
				return nil, emptyError{}
			}),
			"Unknown error occurred",
		},
		{
			"panic with an error value",
			doerFunc(func(r *http.Request) (*http.Response, error) {
				panic(errors.New("transport exploded"))
			}),
			"transport exploded",
		},
		{
			"panic with a non-error value",
			doerFunc(func(r *http.Request) (*http.Response, error) {
				panic("test")
			}),
			"Unknown error occurred",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			c := New(Config{BaseURL: "http://sparql.test"}, WithHTTPClient(tc.given))
			actual, err := c.ExecuteQuery(context.TODO(), sampleRequest, models.FormatText)

			var clientErr *Error
			require.ErrorAs(t, err, &clientErr)
			assert.Nil(t, actual)
			assert.Equal(t, tc.message, clientErr.Message)
			assert.Zero(t, clientErr.StatusCode)
		})
	}
}

func TestExecuteQueryUnreachableEndpoint(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.NotFoundHandler())
	url := s.URL
	s.Close()

	c := New(Config{BaseURL: url})
	_, err := c.ExecuteQuery(context.TODO(), sampleRequest, models.FormatText)

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Contains(t, clientErr.Message, "/sparql")
	assert.Zero(t, clientErr.StatusCode)
}

func TestValidateShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		handler     func(w http.ResponseWriter, r *http.Request)
		expected    string
		error       *Error
	}{
		{
			"conforming data returns report",
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/turtle")
				fmt.Fprint(w, `[] a sh:ValidationReport ; sh:conforms true .`)
			},
			`[] a sh:ValidationReport ; sh:conforms true .`,
			nil,
		},
		{
			"invalid shapes",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"detail":"Invalid SHACL shapes: bad"}`)
			},
			``,
			&Error{Message: "Invalid SHACL shapes: bad", StatusCode: 400, Detail: "Invalid SHACL shapes: bad"},
		},
		{
			"error without detail uses generic message",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{}`)
			},
			``,
			&Error{Message: "Failed to validate shapes", StatusCode: 400},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var path, accept string

			s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path, accept = r.URL.Path, r.Header.Get("Accept")
				tc.handler(w, r)
			}))
			defer s.Close()

			c := New(Config{BaseURL: s.URL}, WithHTTPClient(http.DefaultClient))
			actual, err := c.ValidateShapes(context.TODO(), models.ShapesRequest{Data: "<a> <b> <c> .", Shapes: "<s> <p> <o> ."}, models.FormatCSV)

			assert.Equal(t, "/shacl", path)
			assert.Equal(t, "text/csv", accept)
			assert.Equal(t, tc.expected, actual)

			if tc.error != nil {
				var clientErr *Error
				require.ErrorAs(t, err, &clientErr)
				assert.Equal(t, tc.error, clientErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       func(*httptest.Server) Doer
		code        int
		want        bool
	}{
		{
			"healthy endpoint",
			func(s *httptest.Server) Doer { return s.Client() },
			http.StatusOK,
			true,
		},
		{
			"healthy endpoint with no content",
			func(s *httptest.Server) Doer { return s.Client() },
			http.StatusNoContent,
			true,
		},
		{
			"unhealthy endpoint",
			func(s *httptest.Server) Doer { return s.Client() },
			http.StatusServiceUnavailable,
			false,
		},
		{
			"network failure is swallowed",
			func(s *httptest.Server) Doer {
				return doerFunc(func(r *http.Request) (*http.Response, error) {
					return nil, errors.New("connection refused")
				})
			},
			http.StatusOK,
			false,
		},
		{
			"panic is swallowed",
			func(s *httptest.Server) Doer {
				return doerFunc(func(r *http.Request) (*http.Response, error) {
					panic("test")
				})
			},
			http.StatusOK,
			false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var path string

			s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				w.WriteHeader(tc.code)
			}))
			defer s.Close()

			c := New(Config{BaseURL: s.URL}, WithHTTPClient(tc.given(s)))
			actual := c.HealthCheck(context.TODO())

			assert.Equal(t, tc.want, actual)
			if tc.want {
				assert.Equal(t, "/health", path)
			}
		})
	}
}
