package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

type rootOptions struct {
	configFile string
	config     blog.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "blog",
		Short:         "Serve a markdown blog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, used, err := bootstrap.LoadConfig(bootstrap.LoadOptions{File: opts.configFile})
			if err != nil {
				return err
			}
			if used != "" {
				cmd.PrintErrln("using config file:", used)
			}
			opts.config = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./blog.yaml)")

	root.AddCommand(
		newServeCommand(opts),
		newPostsCommand(opts),
		newRenderCommand(opts),
		newFeedCommand(opts),
		newCacheCommand(opts),
	)
	return root
}

func build(cmd *cobra.Command, opts *rootOptions, interactive bool) (*bootstrap.Module, error) {
	return moduleBuilder(bootstrap.Options{
		Config:      opts.config,
		Interactive: interactive,
		LogWriter:   cmd.ErrOrStderr(),
	})
}
