package explorer

import (
	"context"

	"go.uber.org/zap"

	"github.com/hello-sparql/explorer/pkg/audit"
	"github.com/hello-sparql/explorer/pkg/client"
	"github.com/hello-sparql/explorer/pkg/env/endpoint"
	"github.com/hello-sparql/explorer/pkg/env/server"
	"github.com/hello-sparql/explorer/pkg/execution"
	"github.com/hello-sparql/explorer/pkg/metrics"
	"github.com/hello-sparql/explorer/pkg/models"
	"github.com/hello-sparql/explorer/pkg/templates"
)

type Env struct {
	Client      *client.Client
	Coordinator *execution.Coordinator
	EndpointEnv *endpoint.Env
	ServerEnv   *server.Env
	LoggerAudit audit.Audit
	Metrics     *metrics.Metrics
	Templates   *templates.Set
	Logger      *zap.SugaredLogger
}

// NewEnv wires a client and a coordinator for the given endpoint settings.
// m may be nil.
func NewEnv(ee *endpoint.Env, logger *zap.SugaredLogger, m *metrics.Metrics, options ...client.Option) *Env {
	c := client.New(ee.ClientConfig(), options...)

	e := &Env{
		Client:      c,
		EndpointEnv: ee,
		LoggerAudit: audit.NewLoggerAudit(logger),
		Metrics:     m,
		Templates:   templates.Default(),
		Logger:      logger,
	}

	e.Coordinator = execution.New(c,
		execution.WithOnSuccess(func(_ string, duration float64, length int) {
			logger.Infof("Query ran in %f seconds.", duration)
			logger.Debugf("Query returned %d results", length)
		}),
		execution.WithOnError(func(err *client.Error) {
			logger.Errorf("Unable to run query: %s", err.Display())
		}),
	)

	return e
}

// RunQuery executes a query through the coordinator and records its
// outcome. A non-nil error is always an *client.Error.
func (e *Env) RunQuery(ctx context.Context, request models.QueryRequest, format models.Format) (*models.QueryResult, error) {
	if format == "" {
		format = models.DefaultFormat
	}

	result, err := e.Coordinator.Execute(ctx, request, format)
	if err != nil {
		e.Metrics.RecordError(format, client.AsError(err))
		return nil, err
	}
	e.Metrics.RecordSuccess(format, result.Duration)

	return result, nil
}

// Healthy probes the endpoint and records the outcome.
func (e *Env) Healthy(ctx context.Context) bool {
	healthy := e.Client.HealthCheck(ctx)
	e.Metrics.RecordUpstream(healthy)

	return healthy
}
