package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				opts.config.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				opts.config.Content.Watch = watch
			}

			resources, err := build(cmd, opts, true)
			if err != nil {
				return err
			}
			module := resources.Module

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- module.Serve(ctx)
			}()

			select {
			case err := <-errCh:
				_ = module.Shutdown(context.Background())
				return err
			case <-ctx.Done():
			}

			resources.Logger.Info("cli.serve.stopping")
			if err := module.Shutdown(context.Background()); err != nil {
				return err
			}
			if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	cmd.Flags().BoolVar(&watch, "watch", false, "clear the response cache when posts change")
	return cmd
}
