package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	explorer "github.com/hello-sparql/explorer/pkg"
	"github.com/hello-sparql/explorer/pkg/handlers"
	"github.com/hello-sparql/explorer/pkg/middleware"
	"github.com/hello-sparql/explorer/pkg/version"
)

const (
	readTimeout       = 1 * time.Minute
	readHeaderTimeout = 20 * time.Second
	writeTimeout      = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

func newServeCommand(logger *zap.SugaredLogger, o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the explorer HTTP backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := o.env(logger)
			if err != nil {
				return err
			}
			return Run(cmd.Context(), env)
		},
	}
}

// Run serves the explorer backend until ctx is done.
func Run(ctx context.Context, env *explorer.Env) error {
	logger := env.Logger

	logger.Infof("Starting SPARQL explorer version: %s", version.Version())
	logger.Infof("Production: %t, request timeout: %s", env.ServerEnv.Production, env.ServerEnv.RequestTimeout)
	logger.Infof("Using SPARQL endpoint: %s (timeout: %s)", env.Client.BaseURL(), env.Client.Timeout())
	logger.Debugf("Allowed origins: %v", env.ServerEnv.AllowedOrigins)

	listener, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(env.ServerEnv.Port)))
	if err != nil {
		return fmt.Errorf("unable to start HTTP server: %w", err)
	}
	logger.Infof("HTTP server starting on: %s", listener.Addr())

	server := &http.Server{
		Handler:           Router(env),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      max(writeTimeout, env.ServerEnv.RequestTimeout),
	}

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to start HTTP server: %w", err)
		}
		return nil
	})

	if interval := env.ServerEnv.HealthInterval; interval > 0 {
		eg.Go(func() error {
			probeUpstream(egctx, env, interval)
			return nil
		})
	}

	eg.Go(func() error {
		<-egctx.Done()
		logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("unable to stop HTTP server: %w", err)
		}
		return nil
	})

	return eg.Wait()
}

// probeUpstream checks the SPARQL endpoint every interval until ctx is done,
// keeping the upstream gauge current. Transitions are logged.
func probeUpstream(ctx context.Context, env *explorer.Env, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *bool
	for {
		healthy := env.Healthy(ctx)
		if ctx.Err() != nil {
			return
		}
		if last == nil || *last != healthy {
			if healthy {
				env.Logger.Infof("SPARQL endpoint %s is reachable", env.Client.BaseURL())
			} else {
				env.Logger.Warnf("SPARQL endpoint %s is unreachable", env.Client.BaseURL())
			}
			last = &healthy
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func Router(env *explorer.Env) http.Handler {
	// Temp workaround for easy to access io.Writer.
	defaultLogOutput := log.Default().Writer()

	healthLogOutput := io.Discard
	if !env.ServerEnv.Production {
		healthLogOutput = defaultLogOutput
	}
	logHandler := gorillaHandlers.LoggingHandler

	chain := alice.New(
		alice.Constructor(middleware.Recovery(env)),
		alice.Constructor(middleware.RequestIDs()),
		alice.Constructor(middleware.Timeout(env.ServerEnv.RequestTimeout)),
	)
	queryChain := chain.Append(
		alice.Constructor(middleware.Audit(env)),
	).Then(handlers.Query(env))

	r := mux.NewRouter()
	r.Handle("/healthcheck", logHandler(healthLogOutput, handlers.Healthcheck(env))).Methods("GET")
	r.Handle("/metrics", logHandler(healthLogOutput, env.Metrics.Handler())).Methods("GET")
	r.Handle("/query", logHandler(defaultLogOutput, queryChain)).Methods("POST")
	r.Handle("/validate", logHandler(defaultLogOutput, chain.Then(handlers.Validate(env)))).Methods("POST")
	r.Handle("/execution", logHandler(defaultLogOutput, chain.Then(handlers.Execution(env)))).Methods("GET")
	r.Handle("/execution", logHandler(defaultLogOutput, chain.Then(handlers.Reset(env)))).Methods("DELETE")
	r.Handle("/templates", logHandler(defaultLogOutput, chain.Then(handlers.Templates(env)))).Methods("GET")

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(env.ServerEnv.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
		gorillaHandlers.ExposedHeaders([]string{"X-Request-ID"}),
	)

	return cors(r)
}
