package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/metusa-property/deal-analyzer/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deal analysis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		eval, err := buildEvaluator(cfg)
		if err != nil {
			return err
		}

		areaSvc, closeArea, err := buildArea(cfg)
		if err != nil {
			return eris.Wrap(err, "wire area service")
		}
		defer closeArea()

		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}

		srv := server.New(serverCfg, eval, areaSvc, buildRenderer(cfg), buildNarrator(cfg))
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
