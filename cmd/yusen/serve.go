package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yusen/interactive-demos/internal/export"
	"github.com/yusen/interactive-demos/internal/httpapi"
	"github.com/yusen/interactive-demos/internal/rpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the page API over HTTP and the engines over gRPC",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("http"); addr != "" {
			cfg.Server.HTTPAddr = addr
		}
		if addr, _ := cmd.Flags().GetString("grpc"); addr != "" {
			cfg.Server.GRPCAddr = addr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("http", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().String("grpc", "", "gRPC listen address, empty in config disables it")
}

func runServe(ctx context.Context) error {
	h, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer h.Close()

	api := httpapi.New(ctx, h.backend, httpapi.Options{
		Logger:   logger,
		Recorder: h.recorder,
		Sink:     export.DirSink{Dir: cfg.Export.Dir},
	})

	var lis net.Listener
	if cfg.Server.GRPCAddr != "" {
		if lis, err = net.Listen("tcp", cfg.Server.GRPCAddr); err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gctx, cfg.Server.HTTPAddr)
	})

	if lis != nil {
		srv := rpc.NewServer(logger)
		g.Go(func() error {
			logger.Info("grpc listening", zap.String("addr", lis.Addr().String()))
			if err := srv.Serve(lis); err != nil {
				return fmt.Errorf("grpc serve: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			srv.GracefulStop()
			return nil
		})
	}

	return g.Wait()
}
