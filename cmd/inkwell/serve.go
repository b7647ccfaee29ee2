package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell"
)

func newServeCmd(a *app) *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the output directory",
		Long:  "Serve the output directory over HTTP. If the port is busy the next free port\nis used. SIGINT or SIGTERM shuts the server down after open requests finish.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if rebuild {
				if err := a.runBuild(ctx); err != nil {
					return err
				}
			}
			return a.runServe(ctx)
		},
	}

	f := cmd.Flags()
	f.IntP("port", "p", 0, "first port to try (default 3000, env PORT)")
	f.Int("port-attempts", 0, "ports to probe when busy (default 50)")
	f.String("host", "", "bind host (default all interfaces)")
	f.Bool("no-cache", false, "send Cache-Control: no-store on every response")
	f.String("site-name", "", "site name shown on the 404 page")
	f.Bool("front-matter", false, "take post dates from YAML front matter when building")
	f.String("base-url", "", "public site URL used when building")
	f.BoolVar(&rebuild, "build", false, "build the site before serving")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	srv := inkwell.NewServer(a.cfg, inkwell.WithLogger(a.logger("serve")))
	return srv.Run(ctx)
}
