package main

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/RowanDark/0xcrack/internal/api"
	"github.com/RowanDark/0xcrack/internal/config"
	"github.com/RowanDark/0xcrack/internal/rpc"
)

type serveOptions struct {
	httpAddr string
	grpcAddr string
	token    string
	noGRPC   bool
	timeout  time.Duration
}

func newServeCmd(g *globalOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC APIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newApp(appOptions{mutate: func(cfg *config.Config) {
				if opts.httpAddr != "" {
					cfg.Server.HTTPAddr = opts.httpAddr
				}
				if opts.grpcAddr != "" {
					cfg.Server.GRPCAddr = opts.grpcAddr
				}
				if opts.token != "" {
					cfg.Server.AuthToken = opts.token
				}
			}})
			if err != nil {
				return err
			}
			defer a.close()

			httpLis, err := net.Listen("tcp", a.cfg.Server.HTTPAddr)
			if err != nil {
				return err
			}
			var grpcLis net.Listener
			if !opts.noGRPC {
				grpcLis, err = net.Listen("tcp", a.cfg.Server.GRPCAddr)
				if err != nil {
					_ = httpLis.Close()
					return err
				}
			}
			return serve(cmd.Context(), a, httpLis, grpcLis, opts.timeout)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.httpAddr, "http-addr", "", "HTTP listen address (default from config)")
	f.StringVar(&opts.grpcAddr, "grpc-addr", "", "gRPC listen address (default from config)")
	f.StringVar(&opts.token, "token", "", "Bearer token required on API calls")
	f.BoolVar(&opts.noGRPC, "no-grpc", false, "Only serve HTTP")
	f.DurationVar(&opts.timeout, "request-timeout", 5*time.Minute, "Server-side deadline for each crack request")
	return cmd
}

// serve runs both APIs until ctx is cancelled or one of them fails. A nil
// grpcLis serves HTTP only. timeout bounds each crack request on both.
func serve(ctx context.Context, a *app, httpLis, grpcLis net.Listener, timeout time.Duration) error {
	httpSrv, err := api.NewServer(api.Config{
		Service:        a.svc,
		Logger:         a.logger.With("component", "http"),
		AuthToken:      a.cfg.Server.AuthToken,
		RequestTimeout: timeout,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- httpSrv.Serve(ctx, httpLis) }()

	if grpcLis != nil {
		rpcSrv, err := rpc.NewServer(a.svc,
			rpc.WithToken(a.cfg.Server.AuthToken),
			rpc.WithRequestTimeout(timeout),
			rpc.WithLogger(a.logger.With("component", "grpc")),
		)
		if err != nil {
			cancel()
			return errors.Join(err, <-errCh)
		}
		running++
		go func() { errCh <- rpcSrv.Serve(ctx, grpcLis) }()
	}

	var errs []error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
		// The first server to stop takes the other down with it.
		cancel()
	}
	return errors.Join(errs...)
}
