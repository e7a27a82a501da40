package endpoint

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hello-sparql/explorer/pkg/client"
	"github.com/hello-sparql/explorer/pkg/env"
)

const timeoutEnvVar = "SPARQL_TIMEOUT"

type Env struct {
	URL     string
	Timeout time.Duration
}

func NewEndpointEnv() *Env {
	return &Env{}
}

func (e *Env) Populate() error {
	endpoint := os.Getenv(client.EndpointEnvVar)
	if endpoint == "" {
		endpoint = client.DefaultBaseURL
	}
	if err := e.SetURL(endpoint); err != nil {
		return err
	}

	e.Timeout = client.DefaultTimeout
	if s := os.Getenv(timeoutEnvVar); s != "" {
		timeout, err := env.ParseDuration(s)
		if err != nil || timeout == 0 {
			return &env.TypeError{Name: timeoutEnvVar}
		}
		e.Timeout = timeout
	}

	return nil
}

// SetURL validates and stores the endpoint base URL. Older deployments set
// the full query URL, so a trailing /sparql path is dropped.
func (e *Env) SetURL(endpoint string) error {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return fmt.Errorf("unable to parse SPARQL endpoint URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unable to use SPARQL endpoint URL: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("unable to use SPARQL endpoint URL: missing host in %q", endpoint)
	}

	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/sparql")
	e.URL = strings.TrimRight(u.String(), "/")

	return nil
}

func (e *Env) ClientConfig() client.Config {
	return client.Config{BaseURL: e.URL, Timeout: e.Timeout}
}
