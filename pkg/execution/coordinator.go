// Package execution tracks query executions against a SPARQL endpoint:
// whether one is in flight, how the last one settled, and how long it took.
package execution

import (
	"context"
	"sync"
	"time"

	"github.com/hello-sparql/explorer/pkg/client"
	"github.com/hello-sparql/explorer/pkg/models"
)

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Executor performs one query. *client.Client satisfies it.
type Executor interface {
	ExecuteQuery(ctx context.Context, request models.QueryRequest, format models.Format) (*models.QueryResponse, error)
}

type (
	SuccessFunc func(result string, duration float64, length int)
	ErrorFunc   func(err *client.Error)
)

// State is a point-in-time copy of a Coordinator.
type State struct {
	Status    Status              `json:"status"`
	InFlight  int                 `json:"inFlight"`
	Format    models.Format       `json:"format,omitempty"`
	Result    *models.QueryResult `json:"result,omitempty"`
	Err       *client.Error       `json:"error,omitempty"`
	SettledAt time.Time           `json:"settledAt,omitzero"`
}

func (s State) IsLoading() bool {
	return s.Status == StatusPending
}

func (s State) IsSuccess() bool {
	return s.Status == StatusSuccess
}

func (s State) IsError() bool {
	return s.Status == StatusError
}

// Coordinator wraps an Executor with observable state. It is safe for
// concurrent use. Overlapping calls are not fenced: whichever call settles
// last defines Result and Err, even if it was started first.
type Coordinator struct {
	executor Executor

	onSuccess SuccessFunc
	onError   ErrorFunc
	now       func() time.Time

	mu        sync.Mutex
	inFlight  int
	settled   Status
	format    models.Format
	result    *models.QueryResult
	err       *client.Error
	settledAt time.Time
}

type Option func(*Coordinator)

func WithOnSuccess(fn SuccessFunc) Option {
	return func(c *Coordinator) {
		c.onSuccess = fn
	}
}

func WithOnError(fn ErrorFunc) Option {
	return func(c *Coordinator) {
		c.onError = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

func New(executor Executor, options ...Option) *Coordinator {
	c := &Coordinator{
		executor: executor,
		now:      time.Now,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Execute runs one query and records how it settled. A non-nil error is
// always an *client.Error. Callbacks run on the calling goroutine after the
// state has been updated.
func (c *Coordinator) Execute(ctx context.Context, request models.QueryRequest, format models.Format) (*models.QueryResult, error) {
	if format == "" {
		format = models.DefaultFormat
	}

	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()

	// An executor that panics never settles; give its slot back so the
	// coordinator does not stay pending.
	settled := false
	defer func() {
		if !settled {
			c.mu.Lock()
			c.inFlight--
			c.mu.Unlock()
		}
	}()

	start := c.now()
	response, err := c.executor.ExecuteQuery(ctx, request, format)
	end := c.now()

	duration := end.Sub(start).Seconds()
	if duration < 0 {
		duration = 0
	}

	if err != nil {
		clientErr := client.AsError(err)
		c.settle(format, StatusError, nil, clientErr, end)
		settled = true
		if c.onError != nil {
			c.onError(clientErr)
		}
		return nil, clientErr
	}

	result := &models.QueryResult{Duration: duration}
	if response != nil {
		result.Result = response.Result
		result.Length = response.Length
	}

	c.settle(format, StatusSuccess, result, nil, end)
	settled = true
	if c.onSuccess != nil {
		c.onSuccess(result.Result, result.Duration, result.Length)
	}

	return result, nil
}

func (c *Coordinator) settle(format models.Format, status Status, result *models.QueryResult, err *client.Error, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight--
	c.settled = status
	c.format = format
	c.result = result
	c.err = err
	c.settledAt = at
}

// Reset returns the coordinator to idle. Calls still in flight are left
// alone and record their outcome when they settle.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settled = StatusIdle
	c.format = ""
	c.result = nil
	c.err = nil
	c.settledAt = time.Time{}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := c.settled
	if c.inFlight > 0 {
		status = StatusPending
	}

	return State{
		Status:    status,
		InFlight:  c.inFlight,
		Format:    c.format,
		Result:    c.result,
		Err:       c.err,
		SettledAt: c.settledAt,
	}
}
