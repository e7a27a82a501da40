package handlers

import (
	"io"
	"testing"

	"github.com/hello-sparql/explorer/internal/test"
	explorer "github.com/hello-sparql/explorer/pkg"
	"github.com/hello-sparql/explorer/pkg/env/endpoint"
	"github.com/hello-sparql/explorer/pkg/metrics"
)

func newEnv(t *testing.T, e test.Endpoint, w io.Writer) *explorer.Env {
	t.Helper()

	s := test.NewEndpoint(t, e)
	logger := test.DummyLogger(w).Sugar()

	return explorer.NewEnv(&endpoint.Env{URL: s.URL}, logger, metrics.New())
}
