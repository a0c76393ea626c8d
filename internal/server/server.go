// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package server is the reference backend for the bridge protocol. It accepts
// envelopes over HTTP and gRPC and executes them against a storage engine
// chosen by URL.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"flightbridge/cli/internal/dsn"
	"flightbridge/cli/internal/logx"
	"flightbridge/cli/internal/metrics"
)

// Run opens the storage engine and serves until ctx is cancelled, then
// drains in-flight requests for at most cfg.DrainTimeout.
func Run(ctx context.Context, cfg Config, version string) error {
	eng, err := OpenEngine(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer eng.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)
	metrics.SetBuildInfo(version, eng.Name())

	x := NewExecutor(eng, cfg.APIKey)
	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(cfg, x, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var lis net.Listener
	if cfg.GRPCAddr != "" {
		if lis, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logx.Log.Info().Str("addr", cfg.Addr).Str("engine", eng.Name()).Msg("http listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if lis != nil {
		grpcSrv := NewGRPCServer(x)
		g.Go(func() error {
			logx.Log.Info().Str("addr", cfg.GRPCAddr).Msg("grpc listening")
			return grpcSrv.Serve(lis)
		})
		g.Go(func() error {
			<-gctx.Done()
			stopped := make(chan struct{})
			go func() { grpcSrv.GracefulStop(); close(stopped) }()
			select {
			case <-stopped:
			case <-time.After(cfg.DrainTimeout):
				grpcSrv.Stop()
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logx.Log.Info().Str("storage", storageLabel(cfg.Storage)).Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.DrainTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})
	return g.Wait()
}

func storageLabel(raw string) string {
	info, err := dsn.Parse(raw)
	if err != nil {
		return string(dsn.Detect(raw))
	}
	if info.Host == "" {
		return string(info.Engine)
	}
	return string(info.Engine) + "://" + info.Host
}
