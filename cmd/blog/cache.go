package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

func newCacheCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}
	cmd.AddCommand(newCacheClearCommand(opts))
	return cmd
}

func newCacheClearCommand(opts *rootOptions) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.config.ResponseCache.Enabled {
				return fmt.Errorf("response cache is disabled")
			}
			resources, err := build(cmd, opts, false)
			if err != nil {
				return err
			}
			if !strings.EqualFold(strings.TrimSpace(opts.config.ResponseCache.Store), runtimeconfig.StoreRedis) {
				resources.Logger.Warn("cli.cache.clear.process_local", "store", opts.config.ResponseCache.Store)
			}
			if err := resources.Module.ClearResponseCache(cmd.Context(), reason); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "response cache cleared")
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "cli", "reason recorded in the log")
	return cmd
}
