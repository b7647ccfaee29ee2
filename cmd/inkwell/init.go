package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell/scaffold"
)

func newInitCmd() *cobra.Command {
	var siteName string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter site",
		Example: "  inkwell init myblog\n" +
			"  inkwell init --name \"Field Notes\" notes",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			if siteName == "" {
				siteName = scaffold.ToTitle(filepath.Base(abs))
			}

			created, err := scaffold.Write(dir, scaffold.Data{SiteName: siteName})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range created {
				fmt.Fprintf(out, "  created %s\n", p)
			}
			fmt.Fprintf(out, "\nSite %q created. Next steps:\n\n", siteName)
			if dir != "." {
				fmt.Fprintf(out, "  cd %s\n", dir)
			}
			fmt.Fprintln(out, "  inkwell serve --build")
			return nil
		},
	}
	cmd.Flags().StringVar(&siteName, "name", "", "site name (default derived from dir)")
	return cmd
}
