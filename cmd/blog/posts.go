package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/internal/views"
)

func newPostsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List posts in the order the home page shows them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resources, err := build(cmd, opts, false)
			if err != nil {
				return err
			}
			items, err := resources.Module.Posts(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tDATE\tTITLE")
			for _, post := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", post.Slug, views.FormatDate(post.Date), post.Title)
			}
			return w.Flush()
		},
	}
}

func newRenderCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <slug>",
		Short: "Print the rendered HTML body of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := build(cmd, opts, false)
			if err != nil {
				return err
			}
			html, err := resources.Module.RenderPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), html)
			return err
		},
	}
}
