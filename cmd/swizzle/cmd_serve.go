package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lexcodex/swizzle/cmd/internal/cliutils"
	"github.com/lexcodex/swizzle/server"
)

func newServeCmd() *cobra.Command {
	var addr string
	var rpcAddr string
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor bridge over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if rpcAddr == "" {
				rpcAddr = cfg.Server.RPCAddr
			}
			bridge, err := cliutils.BuildBridge(cfg, logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting bridge",
				zap.String("workspace", cfg.Workspace),
				zap.String("session", bridge.Session.ID))
			bridge.Ready()

			g, gctx := errgroup.WithContext(ctx)
			api := &server.APIServer{Bridge: bridge, Logger: logger}
			g.Go(func() error { return api.ServeContext(gctx, addr) })
			if watch {
				watcher, err := server.NewWatcher(bridge, logger)
				if err != nil {
					return err
				}
				g.Go(func() error { return watcher.Run(gctx) })
			}
			if rpcAddr != "" {
				g.Go(func() error { return serveRPC(gctx, bridge, rpcAddr) })
			}
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", os.Getenv("SWIZZLE_ADDR"), "HTTP listen address (default from config)")
	cmd.Flags().StringVar(&rpcAddr, "rpc", "", "Also accept JSON-RPC connections on this TCP address")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload the active document when its file changes on disk")
	return cmd
}

func newRPCCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "rpc",
		Short: "Run the editor bridge as JSON-RPC over stdio or TCP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			bridge, err := cliutils.BuildBridge(cfg, logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			bridge.Ready()
			if listen != "" {
				return ignoreCanceled(serveRPC(ctx, bridge, listen))
			}
			rpc := &server.RPCServer{Bridge: bridge, Logger: logger}
			return ignoreCanceled(rpc.ServeStream(ctx, &server.StdioConn{Reader: os.Stdin, Writer: os.Stdout}))
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "TCP address to accept connections on instead of stdio")
	return cmd
}

// serveRPC accepts connections on addr and serves each with the bridge
// until ctx is done.
func serveRPC(ctx context.Context, bridge *server.Bridge, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	logger.Info("JSON-RPC listening", zap.String("addr", ln.Addr().String()))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return ln.Close()
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				return err
			}
			logger.Debug("JSON-RPC client connected", zap.String("remote", conn.RemoteAddr().String()))
			g.Go(func() error {
				rpc := &server.RPCServer{Bridge: bridge, Logger: logger}
				if err := rpc.ServeStream(gctx, conn); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("JSON-RPC connection failed", zap.Error(err))
				}
				return nil
			})
		}
	})
	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
