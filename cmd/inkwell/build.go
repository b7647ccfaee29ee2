package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell"
)

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBuild(cmd.Context())
		},
	}
	cmd.Flags().Bool("front-matter", false, "take post dates from YAML front matter")
	cmd.Flags().String("base-url", "", "public site URL; enables feed.xml and sitemap.xml")
	return cmd
}

// runBuild builds the site, stopping between files once ctx is done.
func (a *app) runBuild(ctx context.Context) error {
	logger := a.logger("build")
	b := inkwell.NewBuilder(a.cfg, inkwell.WithBuildLogger(logger))
	if _, err := b.Build(ctx); err != nil {
		logger.Errorf("build failed: %v", err)
		return err
	}
	return nil
}
