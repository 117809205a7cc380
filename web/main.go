package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	var (
		port      int
		staticDir string
	)

	cmd := &cobra.Command{
		Use:          "pathtracer-web",
		Short:        "Serve progressive renders over Server-Sent Events",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			return server.NewServer(port, staticDir, logger).Start()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to serve on")
	cmd.Flags().StringVar(&staticDir, "static", "static", "directory of static files (empty disables)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
