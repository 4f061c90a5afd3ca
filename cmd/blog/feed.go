package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog"
)

func newFeedCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print the atom or rss feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != blog.FeedFormatAtom && format != blog.FeedFormatRSS {
				return fmt.Errorf("unknown feed format %q, want %s or %s", format, blog.FeedFormatAtom, blog.FeedFormatRSS)
			}
			resources, err := build(cmd, opts, false)
			if err != nil {
				return err
			}
			doc, err := resources.Module.Feed(cmd.Context(), format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", blog.FeedFormatAtom, "feed format: atom or rss")
	return cmd
}
