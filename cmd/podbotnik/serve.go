package main

import (
	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/podbotnik/config"
	"github.com/mohammad-safakhou/podbotnik/internal/server"
)

func serveCMD() *cobra.Command {
	var serveAddr string
	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)

			return server.Run(cfg, serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./podbotnik.yaml)")

	return serve
}
