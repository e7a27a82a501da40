package audit

// Audit records queries submitted to the SPARQL endpoint.
type Audit interface {
	Write(*QueryData) error
}

type QueryData struct {
	Query     string
	Format    string
	Inference bool
	User      string
	RequestID string
	Timestamp int64
}
