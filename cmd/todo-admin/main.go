package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/platinummonkey/todo/pkg/cli"
	"github.com/platinummonkey/todo/pkg/config"
	"github.com/platinummonkey/todo/pkg/storage/postgres"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	connect := func(ctx context.Context) (*sql.DB, func() error, error) {
		cfg, err := config.LoadDatabaseConfig()
		if err != nil {
			return nil, nil, err
		}
		cm, err := postgres.NewConnectionManager(ctx, postgres.ConnectionConfig{
			URL:         cfg.URL,
			MaxConns:    2,
			MinConns:    1,
			Timeout:     cfg.Timeout,
			MaxLifetime: cfg.MaxLifetime,
			MaxIdleTime: cfg.MaxIdleTime,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return cm.DB(), cm.Close, nil
	}

	root := cli.NewRootCommand(connect, os.Stdout)
	if err := root.Execute(ctx, os.Args[1:]); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
