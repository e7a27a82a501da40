package server

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hello-sparql/explorer/pkg/env"
)

const (
	DefaultPort           = 8080
	DefaultRequestTimeout = 2 * time.Minute
	DefaultHealthInterval = 30 * time.Second
)

// DefaultAllowedOrigins are the browser origins the explorer UI is served
// from during development.
var DefaultAllowedOrigins = []string{
	"http://localhost",
	"http://localhost:8080",
	"http://localhost:3000",
}

type Env struct {
	Port           int
	Production     bool
	RequestTimeout time.Duration
	AllowedOrigins []string
	TemplatesFile  string
	// HealthInterval is how often the upstream endpoint is probed while
	// serving. Zero disables probing.
	HealthInterval time.Duration
}

func NewServerEnv() *Env {
	return &Env{}
}

func (s *Env) Populate() error {
	s.Production = os.Getenv("ENVIRONMENT") == "production"

	s.Port = DefaultPort
	if port := os.Getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return &env.TypeError{Name: "PORT"}
		}
		s.Port = n
	}

	s.RequestTimeout = DefaultRequestTimeout
	if timeout := os.Getenv("REQUEST_TIMEOUT"); timeout != "" {
		d, err := env.ParseDuration(timeout)
		if err != nil || d == 0 {
			return &env.TypeError{Name: "REQUEST_TIMEOUT"}
		}
		s.RequestTimeout = d
	}

	s.AllowedOrigins = append([]string{}, DefaultAllowedOrigins...)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		ss := strings.Split(origins, ",")
		aux := make([]string, 0, len(ss))

		for _, entry := range ss {
			if o := strings.TrimSpace(entry); o != "" {
				aux = append(aux, o)
			}
		}
		s.AllowedOrigins = aux
	}

	s.TemplatesFile = os.Getenv("TEMPLATES_FILE_PATH")

	s.HealthInterval = DefaultHealthInterval
	if interval := os.Getenv("HEALTH_CHECK_INTERVAL"); interval != "" {
		d, err := env.ParseDuration(interval)
		if err != nil {
			return &env.TypeError{Name: "HEALTH_CHECK_INTERVAL"}
		}
		s.HealthInterval = d
	}

	return nil
}
