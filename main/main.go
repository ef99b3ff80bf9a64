// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/movecodec/exchange"
	"github.com/ava-labs/movecodec/service"
)

const (
	// Version of the daemon
	Version = "v0.1.0"

	rpcEndpoint     = "/ext/" + service.Name
	metricsEndpoint = "/metrics"
	shutdownTimeout = 5 * time.Second
)

func main() {
	config, err := getConfig()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if config.Version {
		fmt.Printf("%s@%s\n", service.Name, Version)
		os.Exit(0)
	}

	if err := run(config); err != nil {
		fmt.Printf("daemon returned an error: %s\n", err)
		os.Exit(1)
	}
}

func run(config Config) error {
	level, err := log.LvlFromString(config.LogLevel)
	if err != nil {
		return err
	}
	log.Root().SetHandler(log.LvlFilterHandler(level, log.StreamHandler(os.Stderr, log.TerminalFormat())))

	registry := prometheus.NewRegistry()
	store, err := exchange.NewStore(memdb.New(), config.Exchange, registry)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close identifier table", "error", err)
		}
	}()

	handler, err := service.NewHandler(service.NewService(store))
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle(rpcEndpoint, handler)
	mux.Handle(metricsEndpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              config.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		log.Info("serving", "addr", server.Addr, "rpc", rpcEndpoint, "metrics", metricsEndpoint)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
