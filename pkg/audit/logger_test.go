package audit

import (
	"bytes"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/hello-sparql/explorer/internal/test"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerAudit(t *testing.T) {
	logger := test.DummyLogger(io.Discard).Sugar()

	actual := NewLoggerAudit(logger)

	assert.NotNil(t, actual)
	assert.IsType(t, &LoggerAudit{}, actual)
}

func TestLoggingAuditWrite(t *testing.T) {
	cases := []struct {
		description string
		given       QueryData
		output      *regexp.Regexp
	}{
		{
			"query data with all fields set",
			QueryData{
				Query:     "SELECT * WHERE { ?s ?p ?o }",
				Format:    "json",
				Inference: true,
				User:      "test",
				RequestID: "3f1c1b1e-7f43-4e0a-9d8e-1f2d3c4b5a69",
				Timestamp: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
			},
			regexp.MustCompile(`AUDIT\s{"Query": "SELECT \* WHERE { \?s \?p \?o }", "Format": "json", "Inference": true, "User": "test", "RequestID": "3f1c1b1e-7f43-4e0a-9d8e-1f2d3c4b5a69", "Timestamp": 1672531200}`),
		},
		{
			"query data with no query provided",
			QueryData{Query: "", Format: "txt", User: "test", Timestamp: time.Now().Unix()},
			regexp.MustCompile(`AUDIT\s{"Query": "", "Format": "txt", "Inference": false, "User": "test", "RequestID": "", "Timestamp": \d{10}}`),
		},
		{
			"invalid query data with nothing set",
			QueryData{},
			regexp.MustCompile(`AUDIT\s{"Query": "", "Format": "", "Inference": false, "User": "", "RequestID": "", "Timestamp": 0}`),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var output bytes.Buffer

			logger := test.DummyLogger(&output).Sugar()

			audit := &LoggerAudit{Logger: logger}
			err := audit.Write(&tc.given)

			assert.Nil(t, err)
			assert.Regexp(t, tc.output, output.String())
		})
	}
}
