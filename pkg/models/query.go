package models

import (
	"errors"
	"strings"
)

var (
	ErrQueryRequired  = errors.New("Both query and data are required")
	ErrShapesRequired = errors.New("Both data and shapes are required")
)

// QueryRequest is the body sent to the SPARQL endpoint. Inference is always
// serialized, so a request built without it asks for no reasoning.
type QueryRequest struct {
	Query     string `json:"query"`
	Data      string `json:"data"`
	Inference bool   `json:"inference"`
}

func (q QueryRequest) Validate() error {
	if strings.TrimSpace(q.Query) == "" || strings.TrimSpace(q.Data) == "" {
		return ErrQueryRequired
	}
	return nil
}

// QueryResponse is the success payload returned by the endpoint.
type QueryResponse struct {
	Result            string `json:"result"`
	Length            int    `json:"length"`
	ResultContentType string `json:"result_content_type,omitempty"`
}

// QueryResult is a settled execution: the endpoint payload plus the
// wall-clock duration measured by the caller, in seconds.
type QueryResult struct {
	Result   string  `json:"result"`
	Length   int     `json:"length"`
	Duration float64 `json:"duration"`
}

type ShapesRequest struct {
	Data   string `json:"data"`
	Shapes string `json:"shapes"`
}

func (s ShapesRequest) Validate() error {
	if strings.TrimSpace(s.Data) == "" || strings.TrimSpace(s.Shapes) == "" {
		return ErrShapesRequired
	}
	return nil
}

// QuerySubmission is a query as submitted by a user of the explorer: the
// endpoint request plus the format the result should be serialized in.
type QuerySubmission struct {
	QueryRequest
	Format string `json:"format,omitempty"`
}

type ShapesSubmission struct {
	ShapesRequest
	Format string `json:"format,omitempty"`
}
