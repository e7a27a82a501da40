package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/etherlabsio/healthcheck/v2"

	explorer "github.com/hello-sparql/explorer/pkg"
)

func Healthcheck(env *explorer.Env) http.Handler {
	return healthcheck.Handler(
		healthcheck.WithTimeout(5*time.Second),
		healthcheck.WithChecker(
			"sparql", healthcheck.CheckerFunc(
				func(ctx context.Context) error {
					if !env.Healthy(ctx) {
						env.Logger.Errorf("Unable to reach SPARQL endpoint as part of healthcheck: %s", env.Client.BaseURL())
						return errors.New("Unable to connect to the SPARQL endpoint")
					}
					return nil
				},
			),
		),
	)
}
