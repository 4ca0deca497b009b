package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spboyer/modelpick/internal/jsonrpc"
	"github.com/spboyer/modelpick/internal/webapi"
	"github.com/spboyer/modelpick/internal/webserver"
	"github.com/spf13/cobra"
)

func newServeCommand(app *cli) *cobra.Command {
	var (
		host           string
		port           int
		rpc            bool
		tcpAddr        string
		tcpAllowRemote bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP or JSON-RPC",
		Long: `Serve recommendations over HTTP or JSON-RPC 2.0.

By default an HTTP API is started:
  GET  /api/health            Health check and rule count
  GET  /api/rules             Active rules in evaluation order
  GET  /api/rules/{id}        One rule
  POST /api/recommend         Evaluate a profile
  GET  /api/notes/tips        General modelling tips
  GET  /api/notes/checklist   What to tune per model family

With --rpc the server speaks newline-delimited JSON-RPC over stdin/stdout, for
editor integrations. Use --tcp to serve JSON-RPC on a TCP address instead.
TCP defaults to loopback (127.0.0.1). Use --tcp-allow-remote to bind to all
interfaces.

JSON-RPC methods:
  profile.evaluate   Evaluate a profile
  profile.validate   Check a profile without evaluating it
  rules.list         List the active rules
  rules.get          Get one rule by ID
  notes.get          Notes for a profile plus tips and checklist`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := app.recommender()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger := slog.Default()

			if rpc || tcpAddr != "" {
				registry := jsonrpc.NewMethodRegistry()
				jsonrpc.RegisterHandlers(registry, jsonrpc.NewHandlerContext(engine))
				server := jsonrpc.NewServer(registry, logger)
				return serveRPC(ctx, cmd, server, tcpAddr, tcpAllowRemote, logger)
			}

			cfg := app.config()
			if !cmd.Flags().Changed("host") {
				host = cfg.Server.Host
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Server.Port
			}

			webapi.Version = version
			srv, err := webserver.New(webserver.Config{
				Host:           host,
				Port:           port,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Logger:         logger,
				Recommender:    engine,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "modelpick API: http://%s\n", srv.Addr()) //nolint:errcheck
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "HTTP host to bind")
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP port")
	cmd.Flags().BoolVar(&rpc, "rpc", false, "Serve JSON-RPC over stdin/stdout instead of HTTP")
	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "Serve JSON-RPC on a TCP address (e.g., :9000)")
	cmd.Flags().BoolVar(&tcpAllowRemote, "tcp-allow-remote", false,
		"Allow binding to non-loopback addresses (WARNING: exposes the server to the network with no authentication)")

	return cmd
}

func serveRPC(ctx context.Context, cmd *cobra.Command, server *jsonrpc.Server, tcpAddr string, allowRemote bool, logger *slog.Logger) error {
	if tcpAddr == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "JSON-RPC server running on stdio") //nolint:errcheck
		return server.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	listener, err := jsonrpc.NewTCPListener(resolveTCPAddr(tcpAddr, allowRemote, logger), server)
	if err != nil {
		return fmt.Errorf("failed to start TCP server: %w", err)
	}
	defer listener.Close() //nolint:errcheck
	fmt.Fprintf(cmd.ErrOrStderr(), "JSON-RPC server listening on %s\n", listener.Addr()) //nolint:errcheck
	return listener.Serve(ctx)
}

// resolveTCPAddr keeps TCP on loopback unless remote binding was allowed.
func resolveTCPAddr(addr string, allowRemote bool, logger *slog.Logger) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		// A bare port such as "9000".
		host = ""
		port = addr
	}

	if allowRemote {
		logger.Warn("TCP server binding to all interfaces with no authentication", "address", addr)
		return addr
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		return net.JoinHostPort("127.0.0.1", port)
	}
	return addr
}
