package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hello-sparql/explorer/pkg/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Unable to load .env file: %s", err)
	}

	newLogger := zap.NewDevelopment
	if os.Getenv("ENVIRONMENT") == "production" {
		newLogger = zap.NewProduction
	}

	l, err := newLogger()
	if err != nil {
		log.Fatalf("Unable to initialize Zap logger: %s", err)
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := l.Sugar()
	if err := cmd.NewRootCmd(logger).ExecuteContext(ctx); err != nil {
		logger.Fatalf("Unable to run SPARQL explorer: %s", err)
	}
}
