package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	_ "go.uber.org/automaxprocs"

	"docuvault/pkg/observability"
)

var (
	// Name is the name of the compiled software.
	Name = "collection-service"
	// Version is the version of the compiled software.
	Version = "v1.0.0"

	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/collection-service.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	logger := log.With(log.NewStdLogger(os.Stdout),
		"service.name", Name,
		"service.version", Version,
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
	)
	helper := log.NewHelper(logger)

	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var conf Config
	if err := c.Scan(&conf); err != nil {
		panic(err)
	}

	if conf.Observability.ServiceName == "" {
		conf.Observability.ServiceName = Name
	}
	shutdownTracing, err := observability.InitTracing(context.Background(), conf.Observability)
	if err != nil {
		helper.Errorf("failed to init tracing: %v", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	srv, cleanup, err := wireApp(&conf, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	helper.Infof("starting %s version %s on %s", Name, Version, conf.Server.HTTP.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			helper.Errorf("server failed: %v", err)
		}
	case sig := <-quit:
		helper.Infof("received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		helper.Errorf("graceful shutdown failed: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		helper.Errorf("tracing shutdown failed: %v", err)
	}
}
